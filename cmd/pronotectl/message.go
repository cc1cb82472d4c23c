package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) messageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Send and read direct messages",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "send <user-id> <text...>",
			Short: "Send a message",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				m, err := a.client.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Sent at %s\n", m.SentAt)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "Show the conversation with a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				msgs, err := a.client.Conversation(ctx, args[0])
				if err != nil {
					return err
				}
				var me string
				if s := a.client.Session(); s != nil && s.User != nil {
					me = s.User.ID
				}
				renderConversation(a.out, msgs, me)
				return nil
			},
		},
	)
	return cmd
}
