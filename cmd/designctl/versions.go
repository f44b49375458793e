package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"interiorai/internal/providers/replicate"
)

func (c *cli) replicateClient() (*replicate.Client, error) {
	if c.cfg.ReplicateAPIKey == "" {
		return nil, errors.New("REPLICATE_API_KEY is required")
	}
	return replicate.NewClient(replicate.Options{
		APIKey:  c.cfg.ReplicateAPIKey,
		BaseURL: c.cfg.ReplicateBaseURL,
		Logger:  &c.logger,
	}), nil
}

func (c *cli) versionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Inspect model versions on the registry",
	}

	latest := &cobra.Command{
		Use:   "latest OWNER/NAME",
		Short: "Print the latest version id of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitModel(args[0])
			if err != nil {
				return err
			}
			client, err := c.replicateClient()
			if err != nil {
				return err
			}
			id, err := client.LatestVersion(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list OWNER/NAME",
		Short: "List the version history of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitModel(args[0])
			if err != nil {
				return err
			}
			client, err := c.replicateClient()
			if err != nil {
				return err
			}
			versions, err := client.ListVersions(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			pinned := ""
			if ref, ok := replicate.LookupRef(owner + "/" + name); ok {
				pinned = ref.Pinned
			}
			var rows [][]string
			for _, v := range versions {
				mark := ""
				if v.ID == pinned {
					mark = "pinned"
				}
				rows = append(rows, []string{v.ID, v.CreatedAt.Format(time.DateTime), mark})
			}
			renderTable(cmd.OutOrStdout(), []string{"VERSION", "CREATED", ""}, rows)
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Compare pinned versions with the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.replicateClient()
			if err != nil {
				return err
			}
			var rows [][]string
			drifted := 0
			for _, d := range replicate.CheckDrift(cmd.Context(), client, replicate.Catalog) {
				state := "current"
				switch {
				case d.Err != nil:
					state = "error: " + d.Err.Error()
				case d.Drifted():
					state = "behind"
					drifted++
				}
				rows = append(rows, []string{d.Ref.Key(), short(d.Ref.Pinned), short(d.Latest), state})
			}
			renderTable(cmd.OutOrStdout(), []string{"MODEL", "PINNED", "LATEST", "STATE"}, rows)
			if drifted > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d pinned version(s) behind the registry\n", drifted)
			}
			return nil
		},
	}

	cmd.AddCommand(latest, list, check)
	return cmd
}

func splitModel(arg string) (string, string, error) {
	owner, name, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("model must be OWNER/NAME, got %q", arg)
	}
	return owner, name, nil
}

func short(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}
