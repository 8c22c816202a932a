package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aliyabuddy/aliyabuddy/internal/chat"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Run one message through the pipeline and print the reply",
	Long: `Runs a single message through the same pipeline as POST /chat.

With OFFER_STORE=bolt and a fixed --session, a later "ask yes" resolves the
follow-up offered by the previous call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.pipeline.Handle(cmd.Context(), askSession, strings.Join(args, " "))
		if err != nil {
			kind, status, msg := chat.Classify(err)
			return fmt.Errorf("%s (%d): %s", kind, status, msg)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Reply)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "cli", "conversation id for pending offers")
}
