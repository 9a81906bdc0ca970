// Package browser provides the page session used to visit listing and article
// pages. It keeps cookies and the last loaded page between calls.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"WeeklyArticles/internal/ports"
)

// Config tunes the underlying collector.
type Config struct {
	UserAgent       string
	Timeout         time.Duration
	Delay           time.Duration
	IgnoreRobotsTxt bool
}

// Session is a synchronous colly collector that remembers the last page.
// It is not safe for concurrent use.
type Session struct {
	collector *colly.Collector
	logger    *slog.Logger

	markup       string
	currentURL   string
	title        string
	cookieDomain string
}

var _ ports.PageSession = (*Session)(nil)

// New builds a session; the caller owns its lifetime.
func New(cfg Config, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.IgnoreRobotsTxt = cfg.IgnoreRobotsTxt
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: cfg.Delay}); err != nil {
		return nil, fmt.Errorf("set rate limit: %w", err)
	}

	s := &Session{collector: c, logger: log}
	c.OnRequest(func(r *colly.Request) {
		s.logger.Debug("visiting", "url", r.URL.String())
	})
	c.OnResponse(s.capture)
	return s, nil
}

func (s *Session) capture(r *colly.Response) {
	s.markup = string(r.Body)
	s.currentURL = r.Request.URL.String()
	s.title = ""
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.markup)); err == nil {
		s.title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	s.cookieDomain = r.Request.URL.Hostname()
	if r.Headers != nil {
		for _, ck := range (&http.Response{Header: *r.Headers}).Cookies() {
			if ck.Domain != "" {
				s.cookieDomain = strings.TrimPrefix(ck.Domain, ".")
				break
			}
		}
	}
	s.logger.Debug("visited", "url", s.currentURL, "status", r.StatusCode)
}

// Navigate loads a page. On failure the previous page state is cleared.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.markup, s.currentURL, s.title, s.cookieDomain = "", "", "", ""
	s.collector.Context = ctx
	if err := s.collector.Visit(url); err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	if s.currentURL == "" {
		return fmt.Errorf("visit %s: no response captured", url)
	}
	return nil
}

// Markup returns the raw HTML of the current page.
func (s *Session) Markup() string { return s.markup }

// CurrentURL is the final URL after redirects.
func (s *Session) CurrentURL() string { return s.currentURL }

// Title is the text of the current page's <title>.
func (s *Session) Title() string { return s.title }

// CookieDomain is the Domain attribute of the first scoped cookie the current
// page set, or its host when none was scoped.
func (s *Session) CookieDomain() string { return s.cookieDomain }
