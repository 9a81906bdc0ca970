// Package lexicon loads Loughran-McDonald style term lists from a URL or a
// local CSV file.
package lexicon

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
)

// Default Loughran-McDonald term lists.
const (
	DefaultPositiveURL = "https://raw.githubusercontent.com/AmeriFinn/NLP-Projects/main/LoughranMcDonald_Positive.csv"
	DefaultNegativeURL = "https://raw.githubusercontent.com/AmeriFinn/NLP-Projects/main/LoughranMcDonald_Negative.csv"
)

// Loader reads one term per row from the first CSV column, skipping the header.
type Loader struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.LexiconSource = (*Loader)(nil)

// NewLoader wires an HTTP client; a nil client gets a 30 second timeout.
func NewLoader(client *http.Client, userAgent string, log *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{client: client, userAgent: userAgent, logger: log}
}

// Load fetches http(s) locations and opens anything else as a file path.
func (l *Loader) Load(ctx context.Context, location string) ([]string, error) {
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLexiconUnavailable, err)
	}
	defer rc.Close()

	terms, err := parseTerms(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLexiconUnavailable, location, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrLexiconUnavailable, location)
	}
	l.logger.Debug("lexicon loaded", "location", location, "terms", len(terms))
	return terms, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open lexicon: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request lexicon: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("lexicon %s returned %s", location, resp.Status)
	}
	return resp.Body, nil
}

func parseTerms(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var terms []string
	header := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(row) == 0 {
			continue
		}
		if term := strings.ToUpper(strings.TrimSpace(row[0])); term != "" {
			terms = append(terms, term)
		}
	}
	return terms, nil
}
