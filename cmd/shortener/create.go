package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/atinyakov/shortlinks/internal/metrics"
	"github.com/atinyakov/shortlinks/internal/storage"
)

func newCreateCmd(a *app) *cobra.Command {
	var longURL, ownerEmail string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shorten a URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Var(longURL, "required,http_url,max=2048"); err != nil {
				return fmt.Errorf("invalid --url %q: %w", longURL, err)
			}

			ctx := cmd.Context()
			st, err := openStorage(ctx, a.cfg, a.log.Log)
			if err != nil {
				return err
			}
			defer st.Close()

			var owner uuid.NullUUID
			if ownerEmail != "" {
				user, err := st.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(ownerEmail)))
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no user with email %q", ownerEmail)
				}
				if err != nil {
					return err
				}
				owner = uuid.NullUUID{UUID: user.ID, Valid: true}
			}

			links, release := a.linkService(st, metrics.NewRegistry())
			defer release()

			link, err := links.CreateLink(ctx, longURL, owner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Short code: %s\n", link.ShortCode)
			fmt.Fprintf(out, "Short URL: %s\n", links.ShortURL(link.ShortCode))
			fmt.Fprintf(out, "Original URL: %s\n", link.OriginalURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&longURL, "url", "", "URL to shorten")
	cmd.Flags().StringVar(&ownerEmail, "owner", "", "email of the user owning the link")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
