package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology/sqlite"
)

func newOntologyCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Manage the ontology database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite ontology path (default: ontology.sqlite from config)")

	importCmd := &cobra.Command{
		Use:   "import <feed.yaml>",
		Short: "Import a YAML feed into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, resolveDB(cmd, dbPath), args[0])
		},
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, resolveDB(cmd, dbPath))
		},
	}

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}

func resolveDB(cmd *cobra.Command, flag string) string {
	if flag != "" {
		return flag
	}
	return appFrom(cmd).Config.Ontology.SQLite
}

func runImport(cmd *cobra.Command, dbPath, feedPath string) error {
	if dbPath == "" {
		return fmt.Errorf("%w: --db is required", internalerr.ErrInvalidInput)
	}
	a := appFrom(cmd)
	ctx := cmd.Context()

	records, err := ontology.LoadYAML(feedPath)
	if err != nil {
		return err
	}
	src, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Import(ctx, records); err != nil {
		return err
	}
	n, err := src.Count(ctx)
	if err != nil {
		return err
	}
	a.Logger.Info("ontology imported",
		logging.String("feed", feedPath),
		logging.Int("records", len(records)),
		logging.Int("total", n))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d total)\n", len(records), n)
	return nil
}

func runList(cmd *cobra.Command, dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("%w: --db is required", internalerr.ErrInvalidInput)
	}
	ctx := cmd.Context()

	src, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	records, err := src.Records(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, r := range records {
		slots := make([]string, 0, len(r.Slots))
		for _, s := range r.Slots {
			slots = append(slots, s.Name+"="+s.Value)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", r.Kind, r.Term, strings.Join(slots, " "))
	}
	return nil
}
