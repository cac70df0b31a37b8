package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string

	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bitcoin-cli",
		Short: "Paper trading CLI tool",
		Long:  `A command line interface for interacting with the paper trading API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BITCOIN_TOKEN"), "Bearer token for authenticated commands")

	rootCmd.AddCommand(
		healthCmd(),
		registerCmd(),
		loginCmd(),
		balanceCmd(),
		depositCmd(),
		tradeCmd("buy", "Buy an asset at the current market price"),
		tradeCmd("sell", "Sell a held asset at the current market price"),
		exchangeCmd(),
		portfolioCmd(),
		statsCmd(),
		historyCmd(),
		hashPasswordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodGet, "/health", nil)
		},
	}
}

func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodPost, "/api/v1/auth/register", map[string]string{
				"username": username,
				"email":    email,
				"password": password,
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": username,
				"password": password,
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

func balanceCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the effective balance in one currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodGet, "/api/v1/account/balance?currency="+currency, nil)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "usd", "Currency code")

	return cmd
}

func depositCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Credit virtual funds to a currency balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodPost, "/api/v1/account/deposit", map[string]string{
				"amount":   args[0],
				"currency": currency,
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "usd", "Currency code")

	return cmd
}

func tradeCmd(side, short string) *cobra.Command {
	var currency, assetID, name string

	cmd := &cobra.Command{
		Use:   side + " <symbol> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodPost, "/api/v1/trade/"+side, map[string]string{
				"asset_id": assetID,
				"symbol":   args[0],
				"name":     name,
				"amount":   args[1],
				"currency": currency,
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "usd", "Settlement currency")
	cmd.Flags().StringVar(&assetID, "asset-id", "", "Price provider asset ID (defaults to the symbol)")
	cmd.Flags().StringVar(&name, "name", "", "Display name for the asset")

	return cmd
}

func exchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange <amount> <from> <to>",
		Short: "Convert funds between two currency balances",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodPost, "/api/v1/account/exchange", map[string]string{
				"amount":        args[0],
				"from_currency": args[1],
				"to_currency":   args[2],
			})
		},
	}

	return cmd
}

func portfolioCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "List holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodGet, "/api/v1/portfolio?currency="+currency, nil)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Filter by settlement currency")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics per currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(http.MethodGet, "/api/v1/stats", nil)
		},
	}
}

func historyCmd() *cobra.Command {
	var limit, offset int
	var currency string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transaction records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/history?limit=%d&offset=%d&currency=%s", limit, offset, currency)
			return apiCall(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	cmd.Flags().StringVar(&currency, "currency", "", "Filter by currency")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiCall(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
