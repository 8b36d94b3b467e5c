package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	clientID string
	idemKey  string
	memo     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "remit-cli",
		Short: "Remit CLI tool",
		Long:  `A command line interface for interacting with the Remit API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Remit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&clientID, "client", "remit-cli", "Client ID sent with money movement requests")
	rootCmd.PersistentFlags().StringVar(&idemKey, "idempotency-key", "", "Idempotency key (generated when empty)")
	rootCmd.PersistentFlags().StringVar(&memo, "memo", "", "Memo attached to the transfer")

	depositCmd := &cobra.Command{
		Use:   "deposit <account-number> <amount>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postMovement("/api/v1/transfers/deposit", map[string]any{
				"account_number": args[0],
				"amount":         parseAmount(args[1]),
				"memo":           memo,
			})
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <account-number> <amount>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postMovement("/api/v1/transfers/withdraw", map[string]any{
				"account_number": args[0],
				"amount":         parseAmount(args[1]),
				"memo":           memo,
			})
		},
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <from-account-number> <to-account-number> <amount>",
		Short: "Transfer between accounts",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			postMovement("/api/v1/transfers", map[string]any{
				"from_account_number": args[0],
				"to_account_number":   args[1],
				"amount":              parseAmount(args[2]),
				"memo":                memo,
			})
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get(fmt.Sprintf("/api/v1/accounts/%s/balance", args[0]))
		},
	}

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(depositCmd, withdrawCmd, transferCmd, balanceCmd, ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parseAmount(raw string) int64 {
	var amount int64
	if _, err := fmt.Sscanf(raw, "%d", &amount); err != nil {
		fmt.Printf("Invalid amount %q: %v\n", raw, err)
		os.Exit(1)
	}
	return amount
}

func postMovement(path string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	key := idemKey
	if key == "" {
		key = ulid.Make().String()
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Id", clientID)
	req.Header.Set("Idempotency-Key", key)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	fmt.Printf("Idempotency-Key: %s\n%s\n", key, string(respBody))
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Println(string(body))
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
}
