package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAssetID(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTC", "bitcoin"},
		{"MATIC", "matic-network"},
		{"bitcoin", "bitcoin"},
		// Unlisted tickers become lowercase provider IDs so portfolio
		// valuation can still quote them.
		{"PEPE", "pepe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveAssetID(tt.symbol), "symbol %s", tt.symbol)
	}
}
