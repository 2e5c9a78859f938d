package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionTitle string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create [character_id...]",
	Short: "Create a session with the given characters, in speaking order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClientFromFlags()
		if err != nil {
			return err
		}
		session, err := client.CreateSession(context.Background(), args, sessionTitle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", session.ID, session.Title)
		return nil
	},
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClientFromFlags()
		if err != nil {
			return err
		}
		sessions, err := client.ListSessions(context.Background())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No sessions."))
			return nil
		}
		for _, s := range sessions {
			names := make([]string, 0, len(s.Characters))
			for _, c := range s.Characters {
				names = append(names, c.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", s.ID, s.Title, mutedStyle.Render(strings.Join(names, ", ")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd, sessionsListCmd)
	sessionsCreateCmd.Flags().StringVar(&sessionTitle, "title", "", "Session title")
}
