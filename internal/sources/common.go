package sources

import (
	"io"
	"os"
	"path/filepath"

	"github.com/refcanon/refcanon/internal/format"
	"github.com/refcanon/refcanon/internal/normalize"
	"github.com/refcanon/refcanon/pkg/logging"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Shared delimited and workbook header names.
const (
	headerCodeValue = "CODEVALUE"
	headerStatus    = "STATUS"
	headerStartDate = "STARTDATE"
	headerEndDate   = "ENDDATE"
)

// readDelimited opens the delimited file at path and feeds every row
// through fn. A missing required header is fatal for the whole file;
// a malformed row, or a row fn rejects, is logged and skipped.
func readDelimited(path string, required []string, fn func(format.Record) error) (skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	reader, err := format.NewDelimited(f)
	if err != nil {
		return 0, err
	}
	if err := reader.Require(required...); err != nil {
		return 0, err
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return skipped, nil
		}
		if err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("Skipping malformed row")
			skipped++
			continue
		}
		if err := fn(rec); err != nil {
			logging.Warn().Err(err).Str("file", path).Int("line", rec.Line()).Msg("Skipping invalid row")
			skipped++
		}
	}
}

// eachSheetRow feeds every data row of the records through fn, logging
// and counting rows fn rejects.
func eachSheetRow(source string, records []format.Record, fn func(format.Record) error) (skipped int) {
	for _, rec := range records {
		if err := fn(rec); err != nil {
			logging.Warn().Err(err).Str("file", source).Int("line", rec.Line()).Msg("Skipping invalid row")
			skipped++
		}
	}
	return skipped
}

// applyCommon normalizes the shared base fields from a headered record:
// status, provenance, labels and the validity date range.
func applyCommon(rec format.Record, base *registry.Base, source string) error {
	status, err := registry.ParseStatus(rec.Get(headerStatus))
	if err != nil {
		return err
	}

	start, err := normalize.ParseDate(rec.Get(headerStartDate))
	if err != nil {
		return err
	}
	end, err := normalize.ParseDate(rec.Get(headerEndDate))
	if err != nil {
		return err
	}
	if err := normalize.ValidateDates(start, end); err != nil {
		return err
	}

	base.Status = status
	base.Source = source
	base.Labels = normalize.Labels(rec, normalize.LabelPrefix)
	base.StartDate = start
	base.EndDate = end
	return nil
}

// sourceTag derives the provenance tag recorded on every entity a file
// produced.
func sourceTag(path string) string {
	return filepath.Base(path)
}
