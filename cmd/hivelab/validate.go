package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
)

type validateOptions struct {
	CompositionPath string
	JSON            bool
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <composition>",
		Short: "Check a composition for structural problems, cycles and suspicious wiring",
		Long: `Validate reports structural errors and dependency cycles as errors, and
dangling connections, duplicate targets and unknown element types as warnings.
Returns exit code 0 when the composition is valid, 1 when it has errors.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.CompositionPath = args[0]
			return runValidate(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the report as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, opts validateOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	comp, err := composition.Read(opts.CompositionPath)
	if err != nil {
		return err
	}

	report := app.engine().Check(comp)

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(cmd.OutOrStdout(), opts.CompositionPath, report)
	}

	if !report.Valid {
		return errInvalidComposition
	}
	return nil
}

func renderReport(w io.Writer, source string, report engine.Report) {
	fmt.Fprintln(w, titleStyle.Render(source))

	if report.Valid {
		fmt.Fprintln(w, successStyle.Render("✓ valid"))
	} else {
		fmt.Fprintln(w, failureStyle.Render("✗ invalid"))
	}
	if len(report.Order) > 0 {
		fmt.Fprintf(w, "Order: %s\n", strings.Join(report.Order, " -> "))
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Errors (%d)", len(report.Errors))))
		for _, issue := range report.Errors {
			fmt.Fprintf(w, "  %s %s\n", failureStyle.Render("✗"), describeIssue(issue))
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Warnings (%d)", len(report.Warnings))))
		for _, issue := range report.Warnings {
			fmt.Fprintf(w, "  %s %s\n", warningStyle.Render("!"), describeIssue(issue))
		}
	}
}

func describeIssue(issue engine.Issue) string {
	var b strings.Builder
	if issue.Field != "" {
		fmt.Fprintf(&b, "%s: ", issue.Field)
	}
	b.WriteString(issue.Message)
	return b.String()
}
