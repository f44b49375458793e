package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"interiorai/internal/infra"
	"interiorai/internal/infra/credentials"
)

func (c *cli) credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage provider keys stored in the database",
	}

	var key string
	set := &cobra.Command{
		Use:       "set PROVIDER",
		Short:     "Store an API key for a provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: credentials.Known,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.ToLower(strings.TrimSpace(args[0]))
			if key == "" {
				key = strings.TrimSpace(os.Getenv(strings.ToUpper(provider) + "_API_KEY"))
			}
			if key == "" {
				return fmt.Errorf("%s API key is required via --key or environment", strings.ToUpper(provider))
			}
			return c.withStore(cmd.Context(), func(ctx context.Context, store *credentials.Store) error {
				if err := store.Set(ctx, provider, key); err != nil {
					return fmt.Errorf("persist %s api key: %w", provider, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s API key stored successfully\n", strings.ToUpper(provider))
				return nil
			})
		},
	}
	set.Flags().StringVar(&key, "key", "", "API key (falls back to <PROVIDER>_API_KEY)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, store *credentials.Store) error {
				entries, err := store.List(ctx)
				if err != nil {
					return err
				}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{e.Provider, e.UpdatedAt.Format(time.DateTime)})
				}
				renderTable(cmd.OutOrStdout(), []string{"PROVIDER", "UPDATED"}, rows)
				return nil
			})
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}

func (c *cli) withStore(parent context.Context, fn func(context.Context, *credentials.Store) error) error {
	if c.cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()
	pool, err := infra.NewDBPool(ctx, c.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, credentials.NewStore(infra.NewSQLRunner(pool, &c.logger)))
}
