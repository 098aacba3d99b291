// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/metrics"
	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/stats"
)

// Export file names. Stable across runs so consumers can poll a fixed path.
const (
	statisticsFile    = "statistics_export.json"
	performerRecsFile = "performer_recommendations.json"
	sceneRecsFile     = "scene_recommendations.json"

	csvBaseName = "statistics_export"
)

// Writer writes refresh artifacts into the configured output directory.
type Writer struct {
	enabled    bool
	csvEnabled bool
	outputDir  string
	logger     zerolog.Logger
}

// NewWriter creates an export writer from the export configuration.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewWriter(cfg *config.ExportConfig, logger zerolog.Logger) *Writer {
	return &Writer{
		enabled:    cfg.Enabled,
		csvEnabled: cfg.CSVEnabled,
		outputDir:  cfg.OutputDir,
		logger:     logger.With().Str("component", "export").Logger(),
	}
}

// Enabled returns whether exports are written at all.
func (w *Writer) Enabled() bool {
	return w.enabled
}

// WriteAll writes every artifact of one refresh run and returns a warning
// per failed artifact. Export failures never fail the run; each is logged
// here and surfaced to the caller for the run summary.
func (w *Writer) WriteAll(summary *stats.Summary, performers, scenes *recommend.Result) []string {
	if !w.enabled {
		return nil
	}

	var warnings []string
	record := func(err error) {
		if err != nil {
			w.logger.Error().Err(err).Msg("Export failed")
			warnings = append(warnings, fmt.Sprintf("export: %v", err))
		}
	}

	if summary != nil {
		record(w.WriteStatistics(summary))
		if w.csvEnabled {
			record(w.WriteStatisticsCSV(summary))
		}
	}
	if performers != nil {
		record(w.WriteRecommendations(performers))
	}
	if scenes != nil {
		record(w.WriteRecommendations(scenes))
	}

	return warnings
}

// WriteStatistics writes the statistics summary as indented JSON.
func (w *Writer) WriteStatistics(summary *stats.Summary) error {
	return w.writeJSON(statisticsFile, summary)
}

// WriteRecommendations writes an engine result as indented JSON. The file
// name follows the result's variant.
func (w *Writer) WriteRecommendations(result *recommend.Result) error {
	name := performerRecsFile
	if result.Variant == recommend.VariantScene {
		name = sceneRecsFile
	}
	return w.writeJSON(name, result)
}

// WriteStatisticsCSV writes the distribution tables as one CSV file per
// table. Empty tables produce no file. A failed table does not stop the
// remaining ones; the failures are joined into the returned error.
func (w *Writer) WriteStatisticsCSV(summary *stats.Summary) error {
	if err := w.ensureDir(); err != nil {
		metrics.RecordExport("csv", err)
		return err
	}

	var failures []error
	for _, table := range statisticsTables(summary) {
		if len(table.rows) == 0 {
			continue
		}
		err := w.writeCSV(table)
		metrics.RecordExport("csv", err)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		w.logger.Debug().Str("file", table.filename()).Int("rows", len(table.rows)).Msg("CSV export written")
	}

	return errors.Join(failures...)
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	if err := w.ensureDir(); err != nil {
		metrics.RecordExport("json", err)
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.RecordExport("json", err)
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil { //nolint:gosec // 0640 is acceptable for export output
		metrics.RecordExport("json", err)
		return fmt.Errorf("write %s: %w", name, err)
	}

	metrics.RecordExport("json", nil)
	w.logger.Info().Str("path", path).Int("bytes", len(data)).Msg("Export written")
	return nil
}

func (w *Writer) writeCSV(table csvTable) error {
	name := table.filename()
	path := filepath.Join(w.outputDir, name)

	f, err := os.Create(path) //nolint:gosec // path is built from the configured directory and fixed names
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after write is logged via return

	cw := csv.NewWriter(f)
	if err := cw.Write(table.header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := cw.WriteAll(table.rows); err != nil {
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	return nil
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.outputDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for export output
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}

// csvTable is one distribution flattened to rows.
type csvTable struct {
	name   string
	header []string
	rows   [][]string
}

func (t csvTable) filename() string {
	return fmt.Sprintf("%s_%s.csv", csvBaseName, t.name)
}

// statisticsTables flattens the summary's distributions into CSV tables.
func statisticsTables(summary *stats.Summary) []csvTable {
	p := summary.Performers
	sc := summary.Scenes

	return []csvTable{
		{
			name:   "cup_sizes",
			header: []string{"cup_size", "count"},
			rows:   bucketRows(p.CupDistribution),
		},
		{
			name:   "bmi_categories",
			header: []string{"bmi_category", "count"},
			rows:   bucketRows(p.BMIDistribution),
		},
		{
			name:   "age_groups",
			header: []string{"age_group", "count"},
			rows:   bucketRows(p.AgeDistribution),
		},
		{
			name:   "rating_distribution",
			header: []string{"stars", "count"},
			rows:   valueBucketRows(p.RatingDistribution),
		},
		{
			name:   "studios",
			header: []string{"studio", "count"},
			rows:   bucketRows(sc.StudioDistribution),
		},
		{
			name:   "years",
			header: []string{"year", "count"},
			rows:   bucketRows(sc.YearDistribution),
		},
	}
}

func bucketRows(buckets []stats.Bucket) [][]string {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.Label, strconv.Itoa(b.Count)})
	}
	return rows
}

func valueBucketRows(buckets []stats.ValueBucket) [][]string {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{strconv.Itoa(b.Value), strconv.Itoa(b.Count)})
	}
	return rows
}
