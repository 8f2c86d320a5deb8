package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/linelist/internal/app"
	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/state"
)

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		all     bool
		fields  []string
	)
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Print the project's linelist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if err := s.LoadAndSettle(ctx); err != nil {
					return err
				}
				snap := s.Store.Snapshot()
				if jsonOut {
					return writeJSON(cmd, snap.Entries)
				}
				columns := selectFields(snap, fields, all, s.Prefs.IsHidden)
				fmt.Fprint(cmd.OutOrStdout(), renderEntries(snap.Entries, columns, shouldColorize(cmd.OutOrStdout())))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output entries as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Include columns hidden in preferences")
	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "Only show these fields")
	return cmd
}

// selectFields picks the columns to print. Explicit fields win over
// preferences; unknown explicit fields are kept so they print empty.
func selectFields(snap state.Snapshot, explicit []string, all bool, hidden func(string) bool) []string {
	if len(explicit) > 0 {
		out := make([]string, 0, len(explicit))
		for _, f := range explicit {
			if f = strings.TrimSpace(f); f != "" && f != metadata.SampleIDKey {
				out = append(out, f)
			}
		}
		return out
	}
	out := make([]string, 0, len(snap.Fields))
	for _, f := range snap.Fields {
		if all || !hidden(f) {
			out = append(out, f)
		}
	}
	return out
}

func renderEntries(entries []metadata.Entry, fields []string, colorize bool) string {
	headers := make([]string, 0, len(fields)+1)
	headers = append(headers, metadata.FieldLabel(metadata.SampleIDKey))
	aligns := make([]columnAlignment, 0, len(fields)+1)
	aligns = append(aligns, alignLeft)
	for _, f := range fields {
		headers = append(headers, metadata.FieldLabel(f))
		aligns = append(aligns, alignmentFor(entries, f))
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, 0, len(headers))
		row = append(row, e.SampleID)
		for _, f := range fields {
			v, _ := e.Value(f)
			row = append(row, metadata.FormatValue(v))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns, colorize)
}

// alignmentFor right-aligns columns whose values are all numeric.
func alignmentFor(entries []metadata.Entry, field string) columnAlignment {
	seen := false
	for _, e := range entries {
		v, ok := e.Value(field)
		if !ok || v == nil {
			continue
		}
		if _, isNum := v.(float64); !isNum {
			return alignLeft
		}
		seen = true
	}
	if seen {
		return alignRight
	}
	return alignLeft
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var (
		label     string
		valueType string
	)
	cmd := &cobra.Command{
		Use:   "set <sample> <field> <value>",
		Short: "Save one cell of the linelist",
		Long: "Save one cell of the linelist.\n\n" +
			"By default the value keeps the type the cell already has: number and\n" +
			"true/false cells are parsed, every other cell is saved as the exact\n" +
			"text given. --type forces string, number, bool or null.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sampleID, field, input := args[0], args[1], args[2]
			kind := metadata.ValueKind(strings.ToLower(strings.TrimSpace(valueType)))
			var forced any
			if kind != "auto" {
				v, err := metadata.ParseValueAs(input, kind)
				if err != nil {
					return fmt.Errorf("--type %s: %w", valueType, err)
				}
				forced = v
			}
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				value := forced
				if kind == "auto" {
					if err := s.LoadAndSettle(ctx); err != nil {
						return err
					}
					var current any
					if entry, ok := s.Store.Snapshot().Entry(sampleID); ok {
						current, _ = entry.Value(field)
					}
					value = metadata.EditValue(input, current)
				}
				return s.DispatchAndSettle(ctx, linelist.EntryEdited{
					SampleID: sampleID,
					Field:    field,
					Value:    value,
					Label:    label,
				})
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Field label sent with the save (defaults to a label derived from the field)")
	kinds := make([]string, 0, len(metadata.ValueKinds()))
	for _, k := range metadata.ValueKinds() {
		kinds = append(kinds, string(k))
	}
	cmd.Flags().StringVar(&valueType, "type", "auto", "Value type: auto (keep the cell's type), "+strings.Join(kinds, ", "))
	return cmd
}

func newRemoveFieldCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-field <field>",
		Short: "Remove a field from every sample in the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if err := s.DispatchAndSettle(ctx, linelist.FieldRemovalRequested{Field: args[0]}); err != nil {
					return err
				}
				snap := s.Store.Snapshot()
				if snap.Status == state.StatusReady {
					fmt.Fprintf(cmd.OutOrStdout(), "%d samples, %d fields after reload\n", len(snap.Entries), len(snap.Fields))
				}
				return nil
			})
		},
	}
}

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the linelist and report what the service returned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if err := s.DispatchAndSettle(ctx, linelist.LoadRequested{}); err != nil {
					return err
				}
				snap := s.Store.Snapshot()
				if snap.Status != state.StatusReady {
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d samples with %d fields\n", len(snap.Entries), len(snap.Fields))
				return nil
			})
		},
	}
}
