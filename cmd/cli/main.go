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
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "minibank-cli",
		Short: "Minibank CLI tool",
		Long:  `A command line interface for interacting with the Minibank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Minibank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balanceCmd := &cobra.Command{
		Use:   "balance [account-number]",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("/api/v1/accounts/%s/balance", args[0]))
		},
	}

	depositCmd := &cobra.Command{
		Use:   "deposit [account-number] [amount]",
		Short: "Deposit an amount into an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postMutation(args[0], "deposit", args[1])
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw [account-number] [amount]",
		Short: "Withdraw an amount from an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postMutation(args[0], "withdraw", args[1])
		},
	}

	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history [account-number]",
		Short: "Show recent transactions of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/accounts/%s/transactions", args[0])
			if historyLimit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, historyLimit)
			}
			getJSON(path)
		},
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of transactions to show")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/status")
		},
	}

	rootCmd.AddCommand(balanceCmd, depositCmd, withdrawCmd, historyCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postMutation(number, op, amount string) {
	body, err := json.Marshal(map[string]string{"amount": amount})
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/accounts/%s/%s", baseURL, number, op)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
