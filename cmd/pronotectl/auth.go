package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
)

func (a *app) registerCmd() *cobra.Command {
	req := &pronotev1.RegisterRequest{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			s, err := a.client.Register(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", displayName(s.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Job, "job", "", "job title")
	for _, f := range []string{"email", "password", "first-name", "last-name", "job"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			s, err := a.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", displayName(s.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.client.Logout(ctx); err != nil {
				printWarning(a.out, "server logout failed: "+err.Error())
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			u, err := a.client.Profile(ctx)
			if err != nil {
				return err
			}
			renderUsers(a.out, []*pronotev1.User{u})
			return nil
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	var email, firstName, lastName, job, password string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			current, err := a.client.Profile(ctx)
			if err != nil {
				return err
			}
			req := &pronotev1.UpdateProfileRequest{
				Email:     current.Email,
				FirstName: current.FirstName,
				LastName:  current.LastName,
				Job:       current.Job,
				Password:  password,
			}
			flags := cmd.Flags()
			if flags.Changed("email") {
				req.Email = email
			}
			if flags.Changed("first-name") {
				req.FirstName = firstName
			}
			if flags.Changed("last-name") {
				req.LastName = lastName
			}
			if flags.Changed("job") {
				req.Job = job
			}

			u, err := a.client.UpdateProfile(ctx, req)
			if err != nil {
				return err
			}
			renderUsers(a.out, []*pronotev1.User{u})
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	cmd.Flags().StringVar(&job, "job", "", "new job title")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func (a *app) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List everyone a task can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			users, err := a.client.Users(ctx)
			if err != nil {
				return err
			}
			renderUsers(a.out, users)
			return nil
		},
	}
}
