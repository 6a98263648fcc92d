package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/cognicore/nerkit/pkg/nerkit"
	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

type extractOptions struct {
	HTML   bool
	Format string
	Short  bool
}

type extractReport struct {
	ID        string               `json:"id"`
	Referents []*referent.Referent `json:"referents"`
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract referents from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.HTML, "html", false, "treat input as HTML and extract its visible text")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&opts.Short, "short", false, "print short display strings")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("%w: unknown format %q", internalerr.ErrInvalidInput, opts.Format)
	}
	a := appFrom(cmd)
	ctx := cmd.Context()

	text, err := readInput(cmd, args, opts.HTML)
	if err != nil {
		return err
	}

	comp, err := a.Config.Loader().Load(ctx)
	if err != nil {
		return err
	}
	engine, err := nerkit.New(comp.EngineOptions(a.Logger))
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	res, err := engine.Process(ctx, text)
	if err != nil {
		return err
	}
	a.Logger.Info("extraction complete",
		logging.String("run", res.ID),
		logging.Int("referents", res.Data.Len()))

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(extractReport{ID: res.ID, Referents: res.Referents()})
	}
	for _, r := range res.Referents() {
		fmt.Fprintf(out, "%s\t%s\t%s\n", r.Type(), r.DisplayString(opts.Short, language.English), spans(r))
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string, html bool) (string, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if !html {
		return string(data), nil
	}
	return ingest.ExtractHTML(bytes.NewReader(data))
}

func spans(r *referent.Referent) string {
	parts := make([]string, 0, len(r.Occurrences()))
	for _, o := range r.Occurrences() {
		parts = append(parts, fmt.Sprintf("%d-%d", o.Begin, o.End))
	}
	return strings.Join(parts, ",")
}
