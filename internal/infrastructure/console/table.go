// Package console prints topic reports as tables.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
)

const (
	// DefaultRows is how many ranked articles the table shows.
	DefaultRows  = 11
	titleWidth   = 60
	summaryWidth = 100
)

// Sink renders the ranked table and the corpus summary to a writer.
type Sink struct {
	mu   sync.Mutex
	out  io.Writer
	rows int
}

var _ ports.ReportSink = (*Sink)(nil)

// New returns a console sink; rows <= 0 uses DefaultRows.
func New(out io.Writer, rows int) *Sink {
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Sink{out: out, rows: rows}
}

// Publish writes one topic report.
func (s *Sink) Publish(_ context.Context, report domain.TopicReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	heading := fmt.Sprintf("%s (%s) | %s - %s",
		report.Phrase,
		report.Topic.Key,
		dates.Format(report.Monday, dates.StyleShort),
		dates.Format(report.Friday, dates.StyleTitleWeek),
	)
	if _, err := fmt.Fprintln(s.out, heading); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	t := RankedTable(report.DisplayRows(s.rows))
	t.SetOutputMirror(s.out)
	t.Render()

	summary := report.Corpus.Summary
	if summary == "" {
		summary = "(no summary)"
	}
	if _, err := fmt.Fprintf(s.out, "\nSummary:\n%s\n\n", text.WrapSoft(summary, summaryWidth)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// RankedTable builds the display table without rendering it.
func RankedTable(rows []domain.DisplayRow) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(domain.DisplayColumns)+1)
	header = append(header, "#")
	for _, col := range domain.DisplayColumns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for i, r := range rows {
		polarity, subjectivity := "-", "-"
		if r.Summarized {
			polarity = fmt.Sprintf("%.1f", r.Polarity)
			subjectivity = fmt.Sprintf("%.1f", r.Subjectivity)
		}
		t.AppendRow(table.Row{
			i + 1,
			r.Source,
			dates.Format(r.Date, dates.StyleShort),
			strings.TrimSpace(r.Title),
			r.Link,
			r.Lexical,
			r.Topical,
			r.Recency,
			fmt.Sprintf("%.2f", r.Score),
			polarity,
			subjectivity,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: titleWidth},
		{Name: "Score", Align: text.AlignRight},
	})
	return t
}
