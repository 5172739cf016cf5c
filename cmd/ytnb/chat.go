package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/workspace"
)

func (a *app) chatCmd() *cobra.Command {
	var (
		sessionID string
		newChat   bool
	)
	cmd := &cobra.Command{
		Use:   "chat <notebook> <message>",
		Short: "Ask a question about a notebook's video",
		Long: "Sends a message to the notebook's current chat session: the one last written to,\n" +
			"or the most recently started one. Use --new to start a new session or --session\n" +
			"to continue a specific one.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, sel, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			if err := w.OpenNotebook(ctx, sel); err != nil {
				// A failed resolve leaves a new session pending.
				a.log.Debug("notebook opened with errors", "notebook_id", sel.NotebookID, "error", err)
			}

			switch {
			case newChat:
				if err := w.StartNewChat(ctx); err != nil {
					return userError(err)
				}
			case sessionID != "":
				err := w.SelectSession(ctx, sessionID)
				if errors.Is(err, workspace.ErrUnknownSession) {
					return fmt.Errorf("session %s does not belong to this notebook", sessionID)
				}
				if err != nil {
					return userError(err)
				}
			}

			conv := w.Conversation()
			answer, err := conv.Send(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			if id, ok := w.Reconciler.Current(); ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "continue this chat session")
	cmd.Flags().BoolVar(&newChat, "new", false, "start a new chat session")
	cmd.MarkFlagsMutuallyExclusive("session", "new")
	return cmd
}

// printTurns prints the visible conversation.
func printTurns(cmd *cobra.Command, conv *workspace.Conversation) {
	if conv == nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, t := range conv.Turns() {
		label := "Assistant"
		if t.Role == domain.RoleUser {
			label = "You"
		}
		fmt.Fprintf(out, "%s: %s\n", label, t.Content)
	}
}
