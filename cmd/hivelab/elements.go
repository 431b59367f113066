package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/hivelab/internal/element"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

type elementsOptions struct {
	Category string
	JSON     bool
}

func newElementsCmd(root *rootFlags) *cobra.Command {
	opts := elementsOptions{}

	cmd := &cobra.Command{
		Use:   "elements",
		Short: "List the registered element catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElements(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "Only list one category (input, display, filter, action, layout)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func runElements(cmd *cobra.Command, root *rootFlags, opts elementsOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defs := app.Registry.ListAll()
	if opts.Category != "" {
		category := element.Category(opts.Category)
		if !category.Valid() {
			return hiveerrors.NewValidationError("category", fmt.Sprintf("unknown category %q", opts.Category), nil)
		}
		defs = app.Registry.ListByCategory(category)
	}

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(defs)
	}

	if len(defs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No elements registered in this category.")
		return nil
	}

	rows := make([][]string, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, []string{
			def.ID,
			def.DisplayName(),
			string(def.Category),
			valueOrDash(strings.Join(def.Outputs, ", ")),
			valueOrDash(strings.Join(def.Inputs, ", ")),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "NAME", "CATEGORY", "OUTPUTS", "INPUTS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
