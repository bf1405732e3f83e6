package refcanon

import (
	"context"

	"github.com/refcanon/refcanon/internal/sources"
	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/logging"
)

// Per-dataset run outcomes.
const (
	OutcomeSucceeded = "SUCCESS"
	OutcomeFailed    = "FAILED"
	OutcomeSkipped   = "SKIPPED"
)

// Report collects per-dataset outcomes of one ingestion pass.
type Report struct {
	Datasets []DatasetReport
}

// Failed returns the reports of datasets whose run failed.
func (r *Report) Failed() []DatasetReport {
	var out []DatasetReport
	for _, d := range r.Datasets {
		if d.Outcome == OutcomeFailed {
			out = append(out, d)
		}
	}
	return out
}

// DatasetReport is the outcome of one dataset's run.
type DatasetReport struct {
	Dataset   string // logical dataset name
	Version   string // candidate source version
	Outcome   string // SUCCESS, FAILED or SKIPPED
	Created   int
	Updated   int
	Unchanged int
	Skipped   int   // malformed rows dropped
	Err       error // failure cause when FAILED
}

// Run executes one ingestion pass over every dataset in dependency
// order. A failed dataset is recorded and the pass moves on; only
// context cancellation stops the whole run.
func (r *refcanon) Run(ctx context.Context) (*Report, error) {
	if r.manifest == nil {
		return nil, errors.New("no source manifest configured")
	}

	deps := &sources.Deps{Stores: r.stores, DryRun: r.config.dryRun}
	report := &Report{}

	for _, ingestor := range r.ingestors() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Datasets = append(report.Datasets, r.runDataset(ctx, ingestor, deps))
	}
	return report, nil
}

// ingestors assembles the dataset pipeline in dependency order.
func (r *refcanon) ingestors() []sources.Ingestor {
	m := r.manifest
	return []sources.Ingestor{
		sources.NewRegions(m),
		sources.NewMagistrates(m),
		sources.NewMunicipalities(m),
		sources.NewHealthCareDistricts(m),
		sources.NewElectoralDistricts(m),
		sources.NewPostalCodes(m),
		sources.NewStreetAddresses(m),
		sources.NewBusinessIDs(m, r.ledger),
		sources.NewCodeRegistries(m),
		sources.NewCodeSchemes(m),
		sources.NewCodes(m),
	}
}

// runDataset gates, runs and finalizes one dataset. Failures surface
// through the ledger and the report, never as a process-level fault.
func (r *refcanon) runDataset(ctx context.Context, ingestor sources.Ingestor, deps *sources.Deps) DatasetReport {
	dataset := ingestor.Dataset()
	version := ingestor.Version()
	out := DatasetReport{Dataset: dataset, Version: version}

	should, err := r.ledger.ShouldIngest(ctx, dataset, version)
	if err != nil {
		out.Outcome = OutcomeFailed
		out.Err = err
		return out
	}
	if !should {
		logging.Info().
			Str("dataset", dataset).
			Str("version", version).
			Msg("Source version already ingested, skipping")
		out.Outcome = OutcomeSkipped
		return out
	}

	if deps.DryRun {
		return r.ingestDataset(ctx, ingestor, deps, out)
	}

	run, err := r.ledger.Begin(ctx, dataset, ingestor.Source(), version)
	if err != nil {
		out.Outcome = OutcomeFailed
		out.Err = err
		return out
	}

	out = r.ingestDataset(ctx, ingestor, deps, out)
	if out.Outcome == OutcomeFailed {
		if err := r.ledger.MarkFailed(ctx, run, out.Err); err != nil {
			logging.Error().Err(err).Str("dataset", dataset).Msg("Failed to finalize run")
		}
		return out
	}
	if err := r.ledger.MarkSuccess(ctx, run); err != nil {
		logging.Error().Err(err).Str("dataset", dataset).Msg("Failed to finalize run")
	}
	return out
}

// ingestDataset runs the adapter, normalizer and reconciler path and
// folds the summary into the report entry.
func (r *refcanon) ingestDataset(ctx context.Context, ingestor sources.Ingestor, deps *sources.Deps, out DatasetReport) DatasetReport {
	logging.Info().
		Str("dataset", out.Dataset).
		Str("source", ingestor.Source()).
		Str("version", out.Version).
		Bool("dryRun", deps.DryRun).
		Msg("Ingesting dataset")

	summary, err := ingestor.Ingest(ctx, deps)
	if err != nil {
		logging.Error().Err(err).Str("dataset", out.Dataset).Msg("Dataset run failed")
		out.Outcome = OutcomeFailed
		out.Err = errors.NewIngestError(out.Dataset, ingestor.Source(), err)
		return out
	}

	logging.Info().
		Str("dataset", out.Dataset).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("unchanged", summary.Unchanged).
		Int("skipped", summary.Skipped).
		Msg("Dataset run complete")

	out.Outcome = OutcomeSucceeded
	out.Created = summary.Created
	out.Updated = summary.Updated
	out.Unchanged = summary.Unchanged
	out.Skipped = summary.Skipped
	return out
}
