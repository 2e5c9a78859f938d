package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

var (
	chatStyle string
	chatModel string
	chatWS    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [session_id] [message]",
	Short: "Send a message and stream every character's reply",
	Long: `Send a message to a session and stream the replies of its characters in order.

Without a message argument the command reads messages from stdin until /quit.

Examples:
  guruchat-cli chat 3f1c... "What do you think of Go?" --style spicy
  guruchat-cli chat 3f1c... --ws`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatStyle, "style", "", `Reply style ("spicy" for heated replies)`)
	chatCmd.Flags().StringVar(&chatModel, "model", "", "Model override")
	chatCmd.Flags().BoolVar(&chatWS, "ws", false, "Use the WebSocket endpoint instead of SSE")
}

func runChat(cmd *cobra.Command, args []string) error {
	client, err := newClientFromFlags()
	if err != nil {
		return err
	}
	sessionID := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	send := func(content string) error {
		req := domain.ChatRequest{Content: content, Style: chatStyle, Model: chatModel}
		renderer := newTurnRenderer(cmd.OutOrStdout())
		if chatWS {
			return client.ChatWS(ctx, sessionID, req, renderer.Render)
		}
		return client.Chat(ctx, sessionID, req, renderer.Render)
	}

	if len(args) == 2 {
		return send(args[1])
	}

	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Type a message and press Enter to send. /quit to exit."))
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			fmt.Fprintln(cmd.OutOrStdout(), "Bye!")
			return nil
		}

		if err := send(input); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Error:"), err)
		}
	}
}
