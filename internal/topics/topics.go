// Package topics maps ticker keys to the human-readable phrases used to query
// news sources, and asset classes to the publishers visited for them.
package topics

import (
	"fmt"
	"sort"
	"strings"

	"WeeklyArticles/internal/domain"
)

var builtinNames = map[string]string{
	"^GSPC":    "S&P 500 US Markets",
	"^DJI":     "Dow Jones Industrial Average",
	"^IXIC":    "NASDAQ",
	"VTI":      "US Total Stock Market",
	"VEU":      "Global Markets",
	"VDE":      "Energy Markets",
	"^VIX":     "Market Volatility VIX",
	"GC=F":     "Gold Futures",
	"CL=F":     "Crude Oil Futures",
	"ZC=F":     "Corn Futures",
	"EURUSD=X": "EUR-USD EuroZone European Markets",
	"GBPUSD=X": "GBP-USD Brexit London Markets",
	"CNYUSD=X": "CNY-USD China Markets",
	"BTC-USD":  "Bitcoin",
	"YIELD":    "US Yield Curve",
}

var builtinPublishers = map[domain.AssetClass][]string{
	domain.AssetCrypto:      {"coindesk", "coindesk", "coindesk", "seeking_alpha", "google"},
	domain.AssetEquity:      {"seeking_alpha", "seeking_alpha", "google", "google", "google"},
	domain.AssetFixedIncome: {"bloomberg", "seeking_alpha", "wsj", "google", "google"},
}

// Table is the read-only topic and publisher lookup for a run.
type Table struct {
	names      map[string]string
	publishers map[domain.AssetClass][]string
}

// NewTable layers configured names and publisher lists over the builtins.
func NewTable(names map[string]string, publishers map[domain.AssetClass][]string) *Table {
	t := &Table{
		names:      make(map[string]string, len(builtinNames)+len(names)),
		publishers: make(map[domain.AssetClass][]string, len(builtinPublishers)),
	}
	for k, v := range builtinNames {
		t.names[k] = v
	}
	for k, v := range names {
		t.names[k] = v
	}
	for k, v := range builtinPublishers {
		t.publishers[k] = v
	}
	for k, v := range publishers {
		if len(v) > 0 {
			t.publishers[k] = v
		}
	}
	return t
}

// Default returns the builtin table.
func Default() *Table {
	return NewTable(nil, nil)
}

// Name returns the descriptive phrase for a topic key. A missing key is a
// configuration error.
func (t *Table) Name(key string) (string, error) {
	name, ok := t.names[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTopic, key)
	}
	return name, nil
}

// SearchPhrase is the topic name as sent to search pages.
func (t *Table) SearchPhrase(key string) (string, error) {
	name, err := t.Name(key)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(name, "&", "")), " "), nil
}

// Publishers returns the ordered publisher keys visited for a class.
func (t *Table) Publishers(class domain.AssetClass) ([]string, error) {
	pubs, ok := t.publishers[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAssetClass, class)
	}
	out := make([]string, len(pubs))
	copy(out, pubs)
	return out, nil
}

// Keys lists every known topic key in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.names))
	for k := range t.names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
