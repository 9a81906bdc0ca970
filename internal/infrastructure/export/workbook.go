// Package export writes topic reports to Excel workbooks.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
)

const (
	articlesSheet = "Articles"
	summarySheet  = "Summary"
)

var slugExpr = regexp.MustCompile(`[^a-z0-9]+`)

// WorkbookSink stores one .xlsx file per topic and week.
type WorkbookSink struct {
	dir    string
	logger *slog.Logger
}

var _ ports.ReportSink = (*WorkbookSink)(nil)

// NewWorkbookSink writes into dir, creating it on first publish.
func NewWorkbookSink(dir string, log *slog.Logger) *WorkbookSink {
	if log == nil {
		log = slog.Default()
	}
	return &WorkbookSink{dir: dir, logger: log.With("component", "export")}
}

// Slug turns a ticker such as "^GSPC" or "EURUSD=X" into a file-name fragment.
func Slug(key string) string {
	s := strings.Trim(slugExpr.ReplaceAllString(strings.ToLower(key), "-"), "-")
	if s == "" {
		return "topic"
	}
	return s
}

// Path is where the workbook for report is written.
func (s *WorkbookSink) Path(report domain.TopicReport) string {
	name := fmt.Sprintf("%s_%s.xlsx", report.Friday.Format("2006-01-02"), Slug(report.Topic.Key))
	return filepath.Join(s.dir, name)
}

// Publish replaces any workbook already written for the same topic and week.
func (s *WorkbookSink) Publish(ctx context.Context, report domain.TopicReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", articlesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeArticles(f, report.DisplayRows(0)); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}

	path := s.Path(report)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	s.logger.Info("workbook written", "topic", report.Topic.Key, "path", path)
	return nil
}

func writeArticles(f *excelize.File, rows []domain.DisplayRow) error {
	header := make([]interface{}, 0, len(domain.DisplayColumns))
	for _, col := range domain.DisplayColumns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(articlesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		values := []interface{}{
			r.Source,
			r.Date.Format("2006-01-02"),
			r.Title,
			r.Link,
			r.Lexical,
			r.Topical,
			r.Recency,
			r.Score,
			nil,
			nil,
		}
		if r.Summarized {
			values[8] = r.Polarity
			values[9] = r.Subjectivity
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(articlesSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, report domain.TopicReport) error {
	lines := [][]interface{}{
		{"Topic", report.Topic.Key},
		{"Phrase", report.Phrase},
		{"Week", report.Monday.Format("2006-01-02") + " - " + report.Friday.Format("2006-01-02")},
		{"Run", report.RunID},
		{"Summary", report.Corpus.Summary},
		{},
		{"Source", "Title", "Link", "Summary"},
	}
	for _, a := range report.Corpus.Articles {
		lines = append(lines, []interface{}{a.Article.Source, a.Article.Title, a.Article.Link, a.Summary})
	}

	for i := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &lines[i]); err != nil {
			return fmt.Errorf("write summary line %d: %w", i+1, err)
		}
	}
	return nil
}
