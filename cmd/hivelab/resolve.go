package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

type resolveOptions struct {
	CompositionPath string
	StatePath       string
	LocalPath       string
	JSON            bool
}

func newResolveCmd(root *rootFlags) *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <composition>",
		Short: "Resolve a composition's connections against a state snapshot",
		Long: `Resolve orders the composition's instances, runs element hooks, and prints
the inputs each instance receives from its connections. Without --state the
composition is resolved against an empty snapshot.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.CompositionPath = args[0]
			return runResolve(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.StatePath, "state", "", "Shared state snapshot (YAML or JSON)")
	cmd.Flags().StringVar(&opts.LocalPath, "local", "", "Per-instance local state (YAML or JSON)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the result as JSON")

	return cmd
}

func runResolve(cmd *cobra.Command, root *rootFlags, opts resolveOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	comp, err := composition.Load(opts.CompositionPath)
	if err != nil {
		return err
	}

	snap := state.NewSnapshot()
	if opts.StatePath != "" {
		if snap, err = state.LoadSnapshot(opts.StatePath); err != nil {
			return err
		}
	}

	var local state.LocalState
	if opts.LocalPath != "" {
		if local, err = state.LoadLocalState(opts.LocalPath); err != nil {
			return err
		}
	}

	result, err := app.engine().Execute(comp, snap, local)
	if err != nil {
		return err
	}

	app.Log.WithFields(map[string]any{
		"composition": comp.ID,
		"instances":   len(result.Order),
		"skipped":     len(result.SkippedConnections),
	}).Debug("composition resolved")

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	return renderResolveText(cmd.OutOrStdout(), comp, result)
}

func renderResolveText(w io.Writer, comp *composition.Composition, result *engine.Result) error {
	title := comp.Name
	if title == "" {
		title = comp.ID
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "Order: %s\n", strings.Join(result.Order, " -> "))

	fmt.Fprintln(w, sectionStyle.Render("Inputs"))
	if len(result.Inputs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (none)"))
	}
	for _, id := range result.Order {
		ports, ok := result.Inputs[id]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s\n", id)

		names := make([]string, 0, len(ports))
		for name := range ports {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			encoded, err := json.Marshal(ports[name])
			if err != nil {
				return fmt.Errorf("encode %s.%s: %w", id, name, err)
			}
			fmt.Fprintf(w, "    %s: %s\n", name, encoded)
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Unknown element types"))
		for _, s := range result.Skipped {
			fmt.Fprintf(w, "  %s %s (%s)\n", warningStyle.Render("!"), s.InstanceID, s.ElementID)
		}
	}

	if len(result.SkippedConnections) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Skipped connections"))
		for _, s := range result.SkippedConnections {
			c := s.Connection
			fmt.Fprintf(w, "  %s #%d %s.%s -> %s.%s (%s)\n",
				mutedStyle.Render("-"), s.Index,
				c.From.InstanceID, c.From.Output, c.To.InstanceID, c.To.Input, s.Reason)
		}
	}

	return nil
}
