package metacmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmir-tools/acekit/internal/entries"
	"github.com/jmir-tools/acekit/internal/recordings"
	"github.com/jmir-tools/acekit/internal/results"
	"github.com/jmir-tools/acekit/internal/storage"
)

// Pipeline step names recorded in reports.
const (
	StepLowerCase      = "lower-case"
	StepDiacritics     = "strip-diacritics"
	StepLeadingNumbers = "strip-leading-numbers"
	StepReplace        = "replace"
	StepIdentical      = "identical"
	StepWordOrdering   = "word-ordering"
	StepWordSubset     = "word-subset"
	StepEditDistance   = "edit-distance"
)

// Replacement is one find-and-replace rule.
type Replacement struct {
	Pattern     string
	Replacement string
}

// ParseReplacement splits "pattern=replacement" at the first "=".
func ParseReplacement(s string) (Replacement, error) {
	pattern, replacement, ok := strings.Cut(s, "=")
	if !ok || pattern == "" {
		return Replacement{}, fmt.Errorf("invalid replacement %q (want pattern=replacement)", s)
	}
	return Replacement{Pattern: pattern, Replacement: replacement}, nil
}

// ReconcileOptions selects the steps run on every field.
type ReconcileOptions struct {
	Fields               []recordings.Field
	LowerCase            bool
	StripDiacritics      bool
	StripLeadingNumbers  bool
	Replacements         []Replacement
	WordOrderingFraction float64
	WordSubsetFraction   float64
	EditDistance         *entries.EditDistanceOptions
	Parallelism          int
}

func (o *ReconcileOptions) transforms() []string {
	var steps []string
	if o.LowerCase {
		steps = append(steps, StepLowerCase)
	}
	if o.StripDiacritics {
		steps = append(steps, StepDiacritics)
	}
	if o.StripLeadingNumbers {
		steps = append(steps, StepLeadingNumbers)
	}
	for _, r := range o.Replacements {
		steps = append(steps, fmt.Sprintf("%s %s=%s", StepReplace, r.Pattern, r.Replacement))
	}
	return steps
}

// Reconcile runs the pipeline over every requested field concurrently.
func Reconcile(ctx context.Context, dataset string, records []recordings.Recording, opts ReconcileOptions) (*results.Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no records", dataset)
	}
	fields := opts.Fields
	if len(fields) == 0 {
		fields = recordings.Fields()
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}

	slog.Info("Starting reconciliation", "dataset", dataset, "records", len(records), "fields", len(fields))

	store := storage.New()
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	for _, field := range fields {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := reconcileField(records, field, &opts)
			if err != nil {
				return fmt.Errorf("failed to reconcile %s: %w", field, err)
			}
			store.Set(string(field), res)
			slog.Debug("Reconciled field", "field", field, "groups", len(res.Groups), "unknown", len(res.Unknown))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fieldResults, err := store.Ordered(names)
	if err != nil {
		return nil, err
	}

	report := &results.Report{
		Config: results.ReportConfig{
			Dataset:              dataset,
			Records:              len(records),
			Fields:               names,
			Transforms:           opts.transforms(),
			WordOrderingFraction: opts.WordOrderingFraction,
			WordSubsetFraction:   opts.WordSubsetFraction,
			EditDistance:         opts.EditDistance,
			Timestamp:            time.Now().Format(results.TimestampFormat),
		},
		Summary: results.Summarize(fieldResults),
		Fields:  fieldResults,
	}
	slog.Info("Reconciliation finished", "dataset", dataset, "fields", len(fieldResults))
	return report, nil
}

func reconcileField(records []recordings.Recording, field recordings.Field, opts *ReconcileOptions) (results.FieldResult, error) {
	es, err := recordings.BuildEntries(records, field)
	if err != nil {
		return results.FieldResult{}, err
	}

	var changes []results.Change
	rewritten := func(step string, pairs [][2]string) {
		for _, p := range pairs {
			changes = append(changes, results.Change{Step: step, From: p[0], To: p[1]})
		}
	}
	merged := func(step string, values []string) {
		for _, v := range values {
			changes = append(changes, results.Change{Step: step, From: v})
		}
	}

	if opts.LowerCase {
		rewritten(StepLowerCase, es.ToLower())
	}
	if opts.StripDiacritics {
		rewritten(StepDiacritics, es.StripDiacritics())
	}
	if opts.StripLeadingNumbers {
		rewritten(StepLeadingNumbers, es.StripLeadingNumbersAndSpaces())
	}
	for _, r := range opts.Replacements {
		pairs, err := es.FindAndReplace(r.Pattern, r.Replacement)
		if err != nil {
			return results.FieldResult{}, err
		}
		rewritten(StepReplace, pairs)
	}

	values, err := es.MergeIdentical(true, "Identical "+string(field))
	if err != nil {
		return results.FieldResult{}, err
	}
	merged(StepIdentical, values)

	values, err = es.MergeIgnoringWordOrder(opts.WordOrderingFraction, true, false, true)
	if err != nil {
		return results.FieldResult{}, err
	}
	merged(StepWordOrdering, values)

	values, err = es.MergeIgnoringWordOrder(opts.WordSubsetFraction, true, true, true)
	if err != nil {
		return results.FieldResult{}, err
	}
	merged(StepWordSubset, values)

	if opts.EditDistance != nil {
		before := es.Len()
		if err := es.MergeByEditDistance(*opts.EditDistance, true); err != nil {
			return results.FieldResult{}, err
		}
		if es.Len() < before {
			changes = append(changes, results.Change{Step: StepEditDistance, From: fmt.Sprintf("%d entries merged", before-es.Len())})
		}
	}

	reports := es.Reports()
	if len(reports) > 0 {
		reports, err = entries.MergeSubsetsIntoSupersets(reports)
		if err != nil {
			return results.FieldResult{}, err
		}
		entries.RemoveDuplicateMergeKeys(reports)
	}

	es.Sort()
	return results.NewFieldResult(string(field), es, reports, changes), nil
}
