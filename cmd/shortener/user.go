package main

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/atinyakov/shortlinks/internal/app/service"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserAddCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account that can log in and own links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := validator.New()
			if err := v.Var(email, "required,email,max=254"); err != nil {
				return fmt.Errorf("invalid --email %q: %w", email, err)
			}
			if err := v.Var(password, "required,min=8,max=72"); err != nil {
				return fmt.Errorf("invalid --password: %w", err)
			}

			ctx := cmd.Context()
			st, err := openStorage(ctx, a.cfg, a.log.Log)
			if err != nil {
				return err
			}
			defer st.Close()

			user, err := service.NewAuth(st, a.cfg.JWTSecret, a.cfg.TokenTTL, a.log.Log).Register(ctx, email, password)
			if errors.Is(err, service.ErrEmailTaken) {
				return fmt.Errorf("email %q is already registered", email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
