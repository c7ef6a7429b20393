// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"ethicsadmin/internal/editor"
	"ethicsadmin/internal/editplan"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			ed, err := loadEditor(ctx, opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ed.BuildPayload())
			}
			printCatalog(cmd.OutOrStdout(), ed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog in save form as JSON")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan.yaml]",
		Short: "Check the catalog, optionally with a plan applied, without saving",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			ed, err := loadEditor(ctx, opts)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if _, err := applyPlanFile(ed, args[0]); err != nil {
					return err
				}
			}
			if err := ed.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog is valid")
			return nil
		},
	}
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply plan.yaml",
		Short: "Apply an edit plan and save the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			ed, err := loadEditor(ctx, opts)
			if err != nil {
				return err
			}
			defer ed.Close()

			summary, err := applyPlanFile(ed, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary)

			if !ed.Dirty() {
				fmt.Fprintln(out, "nothing to save")
				return nil
			}
			if dryRun {
				if err := ed.Validate(); err != nil {
					return err
				}
				fmt.Fprintln(out, "dry run: catalog is valid, not saved")
				return nil
			}
			if err := ed.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "catalog saved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the result without saving")
	return cmd
}

func applyPlanFile(ed *editor.Editor, path string) (editplan.Summary, error) {
	plan, err := editplan.Load(path)
	if err != nil {
		return editplan.Summary{}, err
	}
	summary, err := editplan.Apply(ed, plan)
	if err != nil {
		return summary, fmt.Errorf("apply plan: %w", err)
	}
	slog.Debug("plan applied", "path", path, "summary", summary.String())
	return summary, nil
}

// printCatalog writes categories, their questions and options as an
// indented outline. Archived rows are marked.
func printCatalog(w io.Writer, ed *editor.Editor) {
	questions := ed.QuestionsByCategoryKey()
	options := ed.OptionsByQuestionKey()

	for _, c := range ed.Categories() {
		fmt.Fprintf(w, "%s (%s)\n", c.Label, c.Key)
		for _, q := range questions[c.Key] {
			fmt.Fprintf(w, "  %-30s %-8s %s%s\n", q.Key, q.AnswerType, q.Label, archivedMark(q.State()))
			for _, o := range options[q.Key] {
				fmt.Fprintf(w, "    %-28s %6.2f  %s%s\n", o.Key, o.Score, o.Label, archivedMark(o.State()))
			}
		}
	}
}

func archivedMark(s editor.RowState) string {
	if s == editor.RowArchived {
		return " [archived]"
	}
	return ""
}
