package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	userID    string
)

var rootCmd = &cobra.Command{
	Use:   "guruchat-cli",
	Short: "guruchat-cli - chat with a cast of characters",
	Long: `guruchat-cli talks to a guruchat server.

It creates and lists sessions, lists the character catalog and streams a
chat turn in which every character of the session answers in order.

Environment variables:
  GURUCHAT_URL      - server base URL (default: http://localhost:8080)
  GURUCHAT_USER_ID  - caller identity sent as X-User-ID`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (default $GURUCHAT_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User ID (default $GURUCHAT_USER_ID)")
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClientFromFlags() (*Client, error) {
	base := serverURL
	if base == "" {
		base = os.Getenv("GURUCHAT_URL")
	}
	if base == "" {
		base = "http://localhost:8080"
	}
	user := userID
	if user == "" {
		user = os.Getenv("GURUCHAT_USER_ID")
	}
	if user == "" {
		return nil, fmt.Errorf("a user id is required (--user or GURUCHAT_USER_ID)")
	}
	return NewClient(base, user), nil
}
