package lexicon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/domain"
)

func TestLoadFromHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "weeklyarticles-test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/pos.csv":
			_, _ = w.Write([]byte("Positive,Extra\nable,1\nabundance,2\n\n  gain ,3\n"))
		case "/neg.csv":
			_, _ = w.Write([]byte("Negative\nloss\nfears\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewLoader(srv.Client(), "weeklyarticles-test", nil)
	terms, err := loader.Load(context.Background(), srv.URL+"/pos.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"ABLE", "ABUNDANCE", "GAIN"}, terms)

	terms, err = loader.Load(context.Background(), srv.URL+"/neg.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"LOSS", "FEARS"}, terms)

	_, err = loader.Load(context.Background(), srv.URL+"/missing.csv")
	assert.True(t, errors.Is(err, domain.ErrLexiconUnavailable))
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Positive\nsurges\naccelerates\n"), 0o600))

	terms, err := NewLoader(nil, "", nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SURGES", "ACCELERATES"}, terms)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("Positive\n"), 0o600))
	_, err = NewLoader(nil, "", nil).Load(context.Background(), empty)
	assert.True(t, errors.Is(err, domain.ErrLexiconUnavailable))

	_, err = NewLoader(nil, "", nil).Load(context.Background(), filepath.Join(dir, "nope.csv"))
	assert.True(t, errors.Is(err, domain.ErrLexiconUnavailable))
}
