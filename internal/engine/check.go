package engine

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// Issue is one authoring finding.
type Issue struct {
	Field      string   `json:"field,omitempty"`
	InstanceID string   `json:"instanceId,omitempty"`
	Path       []string `json:"path,omitempty"`
	Message    string   `json:"message"`
}

// Report collects authoring findings for a composition. Errors block
// execution; warnings describe wiring that resolves to nothing.
type Report struct {
	Valid    bool     `json:"valid"`
	Order    []string `json:"order,omitempty"`
	Errors   []Issue  `json:"errors"`
	Warnings []Issue  `json:"warnings"`
}

// Check inspects comp without resolving values: structure, cycles,
// dangling connections, duplicate targets, unknown element types, and
// ports the element definitions do not declare.
func (e *Engine) Check(comp *composition.Composition) Report {
	report := Report{Errors: []Issue{}, Warnings: []Issue{}}

	if err := comp.Validate(); err != nil {
		report.Errors = append(report.Errors, issueFor(err))
		return report
	}

	order, err := e.Order(comp)
	if err != nil {
		report.Errors = append(report.Errors, issueFor(err))
	} else {
		report.Order = order
	}

	for _, d := range comp.DanglingConnections() {
		for _, missing := range d.Missing {
			report.Warnings = append(report.Warnings, Issue{
				Field:      fmt.Sprintf("connections[%d]", d.Index),
				InstanceID: missing,
				Message:    fmt.Sprintf("connection references unknown instance %q and will be skipped", missing),
			})
		}
	}

	for _, dup := range comp.DuplicateTargets() {
		issue := Issue{
			Field:      fmt.Sprintf("connections[%d]", dup.Indexes[len(dup.Indexes)-1]),
			InstanceID: dup.Target.InstanceID,
			Message:    fmt.Sprintf("input %s.%s is fed by %d connections", dup.Target.InstanceID, dup.Target.Port, len(dup.Indexes)),
		}
		if e.resolver.Policy() == resolver.RejectDuplicates {
			report.Errors = append(report.Errors, issue)
		} else {
			issue.Message += "; the last one wins"
			report.Warnings = append(report.Warnings, issue)
		}
	}

	instances := comp.InstanceMap()
	for i, inst := range comp.Elements {
		if _, ok := e.registry.Get(inst.ElementID); !ok {
			report.Warnings = append(report.Warnings, Issue{
				Field:      fmt.Sprintf("elements[%d].elementId", i),
				InstanceID: inst.InstanceID,
				Message:    fmt.Sprintf("element type %q is not registered", inst.ElementID),
			})
		}
	}

	for i, conn := range comp.Connections {
		if src, ok := instances[conn.From.InstanceID]; ok {
			if def, known := e.registry.Get(src.ElementID); known && len(def.Outputs) > 0 && !def.HasOutput(conn.From.Output) {
				report.Warnings = append(report.Warnings, Issue{
					Field:      fmt.Sprintf("connections[%d].from.output", i),
					InstanceID: src.InstanceID,
					Message:    fmt.Sprintf("%s does not declare output %q", src.ElementID, conn.From.Output),
				})
			}
		}
		if dst, ok := instances[conn.To.InstanceID]; ok {
			if def, known := e.registry.Get(dst.ElementID); known && len(def.Inputs) > 0 && !def.HasInput(conn.To.Input) {
				report.Warnings = append(report.Warnings, Issue{
					Field:      fmt.Sprintf("connections[%d].to.input", i),
					InstanceID: dst.InstanceID,
					Message:    fmt.Sprintf("%s does not declare input %q", dst.ElementID, conn.To.Input),
				})
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func issueFor(err error) Issue {
	var cycleErr *hiveerrors.CycleError
	if errors.As(err, &cycleErr) {
		return Issue{Field: "connections", InstanceID: cycleErr.InstanceID, Path: cycleErr.Path, Message: err.Error()}
	}
	var validationErr *hiveerrors.ValidationError
	if errors.As(err, &validationErr) {
		return Issue{Field: validationErr.Field, Message: validationErr.Message}
	}
	return Issue{Message: err.Error()}
}
