package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
)

var chatWhatIf string

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the fleet assistant a question",
	Long: `Sends a message to the RailSpark assistant and prints its reply.

With --what-if the message is sent as the parameters of a scenario of the
given type instead, e.g.:
  railctl chat --what-if train_unavailable "train 4 out for two days"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatWhatIf, "what-if", "", "Run a what-if scenario of this type")
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		env.println(ui.EmptyState(env.styles, "Nothing to send.", `railctl chat "which trains need maintenance?"`))
		return nil
	}

	if chatWhatIf != "" {
		var res types.WhatIfAnalysis
		err := env.call(cmd.Context(), func(ctx context.Context) error {
			var err error
			res, err = env.api.Chatbot.WhatIf(ctx, chatWhatIf, message)
			return err
		})
		if err != nil {
			return err
		}
		env.println(env.styles.Title.Render("What-if: " + res.ScenarioType))
		env.println(ui.RenderMarkdown(env.styles, res.Analysis))
		for _, r := range res.Recommendations {
			env.println(env.styles.Badge.Render("• ") + env.styles.Body.Render(r))
		}
		return nil
	}

	var reply types.ChatReply
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		reply, err = env.api.Chatbot.Send(ctx, message)
		return err
	})
	if err != nil {
		return err
	}
	env.println(env.styles.Badge.Render("assistant"))
	env.println(ui.RenderMarkdown(env.styles, reply.Message))
	return nil
}
