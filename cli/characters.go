package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the character catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClientFromFlags()
		if err != nil {
			return err
		}
		characters, err := client.ListCharacters(context.Background())
		if err != nil {
			return err
		}
		r := newTurnRenderer(cmd.OutOrStdout())
		for _, c := range characters {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", c.ID, r.style(c.ID).Render(c.Name), mutedStyle.Render(c.Description))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(charactersCmd)
}
