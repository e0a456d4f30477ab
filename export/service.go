package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"p6export/output"
	"p6export/p6"
	"p6export/table"
	"strings"

	"go.uber.org/zap"
)

// Policy decides what a failure does to the rest of the run.
type Policy string

const (
	// PolicyAbort stops at the first failure. Reads all happen before any
	// write, so a failed read leaves no artifact behind.
	PolicyAbort Policy = "abort"
	// PolicyContinue attempts every entity type and reports each failure.
	PolicyContinue Policy = "continue"
)

func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyContinue:
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("unsupported failure policy %q (supported: abort, continue)", value)
	}
}

type Phase string

const (
	PhaseSkipped Phase = "skipped"
	PhaseRead    Phase = "read"
	PhaseExport  Phase = "export"
)

// Outcome is where one entity type got to. Phase is the last phase attempted;
// Err is set when that phase failed.
type Outcome struct {
	Kind    p6.Kind
	Phase   Phase
	Records int
	Path    string
	Err     error
}

func (o Outcome) Succeeded() bool {
	return o.Phase == PhaseExport && o.Err == nil
}

type Report struct {
	Outcomes []Outcome
}

// Err joins every failure, or returns nil when nothing failed.
func (r Report) Err() error {
	var errs []error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}
	return errors.Join(errs...)
}

func (r Report) Written() []string {
	var paths []string
	for _, outcome := range r.Outcomes {
		if outcome.Succeeded() {
			paths = append(paths, outcome.Path)
		}
	}
	return paths
}

type Service struct {
	Reader    p6.Reader
	Writer    output.Writer
	OutputDir string
	// Kinds defaults to p6.AllKinds. Order is always the p6.AllKinds order.
	Kinds  []p6.Kind
	Policy Policy
	Logger *zap.Logger
}

type fetched struct {
	records int
	project func() (table.Table, error)
}

type step func(ctx context.Context) (fetched, error)

func stepFor[T any](entity p6.Entity[T], read func(context.Context) ([]T, error)) step {
	return func(ctx context.Context) (fetched, error) {
		records, err := read(ctx)
		if err != nil {
			return fetched{}, err
		}
		return fetched{
			records: len(records),
			project: func() (table.Table, error) {
				tbl, err := entity.Project(records)
				if err != nil {
					return table.Table{}, fmt.Errorf("project %s: %w", entity.Kind, err)
				}
				return tbl, nil
			},
		}, nil
	}
}

func (s *Service) steps() map[p6.Kind]step {
	return map[p6.Kind]step{
		p6.KindResourceHour:                   stepFor(p6.ResourceHours, s.Reader.ReadResourceHours),
		p6.KindResource:                       stepFor(p6.Resources, s.Reader.ReadResources),
		p6.KindResourceRate:                   stepFor(p6.ResourceRates, s.Reader.ReadResourceRates),
		p6.KindTimesheet:                      stepFor(p6.Timesheets, s.Reader.ReadTimesheets),
		p6.KindResourceAssignment:             stepFor(p6.ResourceAssignments, s.Reader.ReadResourceAssignments),
		p6.KindResourceAssignmentPeriodActual: stepFor(p6.ResourceAssignmentPeriodActuals, s.Reader.ReadResourceAssignmentPeriodActuals),
	}
}

// Run reads every selected entity type, one call at a time, and only then
// projects and writes them. The returned error equals report.Err().
func (s *Service) Run(ctx context.Context) (Report, error) {
	if s.Reader == nil {
		return Report{}, fmt.Errorf("export service requires a reader")
	}
	if s.Writer == nil {
		return Report{}, fmt.Errorf("export service requires a writer")
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := s.Policy
	if policy == "" {
		policy = PolicyAbort
	}
	dir := s.OutputDir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	kinds, err := orderedKinds(s.Kinds)
	if err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	report := Report{Outcomes: make([]Outcome, len(kinds))}
	for i, kind := range kinds {
		report.Outcomes[i] = Outcome{Kind: kind, Phase: PhaseSkipped}
	}

	steps := s.steps()
	results := make([]*fetched, len(kinds))
	for i, kind := range kinds {
		outcome := &report.Outcomes[i]
		outcome.Phase = PhaseRead

		logger.Info("reading entity", zap.String("entity", string(kind)))
		result, err := steps[kind](ctx)
		if err != nil {
			outcome.Err = err
			logger.Error("read failed", zap.String("entity", string(kind)), zap.Error(err))
			if policy == PolicyAbort {
				return report, report.Err()
			}
			continue
		}
		outcome.Records = result.records
		results[i] = &result
		logger.Info("read entity", zap.String("entity", string(kind)), zap.Int("records", result.records))
	}

	for i, kind := range kinds {
		if results[i] == nil {
			continue
		}
		outcome := &report.Outcomes[i]
		outcome.Phase = PhaseExport

		tbl, err := results[i].project()
		if err == nil {
			outcome.Path, err = output.WriteTable(s.Writer, dir, tbl)
		}
		if err != nil {
			outcome.Err = err
			logger.Error("export failed", zap.String("entity", string(kind)), zap.Error(err))
			if policy == PolicyAbort {
				return report, report.Err()
			}
			continue
		}
		logger.Info("exported entity",
			zap.String("entity", string(kind)),
			zap.Int("rows", tbl.Len()),
			zap.String("path", outcome.Path))
	}

	return report, report.Err()
}

func orderedKinds(selected []p6.Kind) ([]p6.Kind, error) {
	if len(selected) == 0 {
		return append([]p6.Kind(nil), p6.AllKinds...), nil
	}
	wanted := make(map[p6.Kind]bool, len(selected))
	for _, kind := range selected {
		if _, ok := p6.DescriptorFor(kind); !ok {
			return nil, fmt.Errorf("unknown entity kind %q", kind)
		}
		wanted[kind] = true
	}
	kinds := make([]p6.Kind, 0, len(wanted))
	for _, kind := range p6.AllKinds {
		if wanted[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}
