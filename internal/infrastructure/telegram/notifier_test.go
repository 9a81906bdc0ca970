package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/domain"
)

func digestReport() domain.TopicReport {
	friday := time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC)
	return domain.TopicReport{
		Topic:  domain.Topic{Key: "BTC-USD", AssetClass: domain.AssetCrypto},
		Phrase: "Bitcoin USD",
		Friday: friday,
		Ranked: []domain.ScoredArticle{
			{Article: domain.ArticleRecord{Source: "Reuters", Title: "Bitcoin surges", Date: friday, Link: "https://reuters.com/a"}},
		},
		Corpus: domain.CorpusSummary{Summary: "Bitcoin rose"},
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()

	msg := Digest(digestReport())
	assert.Equal(t,
		"Bitcoin USD (BTC-USD), week ending Fri 16-Feb-24\n\nBitcoin rose\n\n1. Bitcoin surges (Reuters)\nhttps://reuters.com/a\n",
		msg)

	long := digestReport()
	long.Corpus.Summary = strings.Repeat("x", maxMessageRunes+10)
	assert.Len(t, []rune(Digest(long)), maxMessageRunes)
}

func TestPublishPostsMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("chat_id") != "42" ||
			!strings.Contains(r.PostForm.Get("text"), "Bitcoin rose") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42").WithAPIBase(srv.URL + "/")
	require.NoError(t, n.Publish(context.Background(), digestReport()))

	bad := NewNotifier("TOKEN", "7").WithAPIBase(srv.URL)
	assert.ErrorContains(t, bad.Publish(context.Background(), digestReport()), "400")
}

func TestPublishMisconfigured(t *testing.T) {
	t.Parallel()

	assert.Error(t, NewNotifier("", "42").Publish(context.Background(), digestReport()))
}
