package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"newsdesk/internal/config"
)

// Fallback parameters for company topics that come back empty: one retry
// with a 1-year window and a small cap, tagged reduced-freshness.
const (
	fallbackDays = 365
	fallbackCap  = 3
)

// Entry is one candidate article discovered in the search feed.
type Entry struct {
	Title     string
	Link      string
	Published string // raw feed timestamp, loosely RFC-822, parsed leniently
	Summary   string // cleaned feed description, fallback summary downstream
	Stale     bool   // true when produced by the reduced-freshness fallback
}

// Discoverer queries a search-style feed endpoint per topic and applies a
// strict client-side date filter on top of the backend's imprecise
// relative-date operator.
type Discoverer struct {
	baseURL    string
	exclusions []string
	userAgent  string
	client     *http.Client
	logger     *slog.Logger
}

// NewDiscoverer creates a feed discoverer from config.
func NewDiscoverer(cfg *config.Config, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		baseURL:    cfg.Fetch.FeedBaseURL,
		exclusions: cfg.Exclusions,
		userAgent:  cfg.Fetch.UserAgent,
		client:     &http.Client{Timeout: cfg.Fetch.Timeout()},
		logger:     logger,
	}
}

// Discover returns candidate entries for a topic within the lookback
// window. Each call is a fresh query; the result is finite and ordered as
// the feed returned it. Company topics with zero post-filter results get
// one wider retry with reduced-freshness tagging.
func (d *Discoverer) Discover(ctx context.Context, topic config.Topic, days, maxItems int) ([]Entry, error) {
	entries, err := d.fetch(ctx, topic, days, maxItems)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 && topic.Kind == config.KindCompany {
		d.logger.Info("no fresh results, retrying with 1-year window",
			"topic", topic.Name, "days", days)
		entries, err = d.fetch(ctx, topic, fallbackDays, fallbackCap)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Stale = true
		}
	}

	return entries, nil
}

func (d *Discoverer) fetch(ctx context.Context, topic config.Topic, days, maxItems int) ([]Entry, error) {
	query := buildQuery(topic, d.exclusions, days)
	feedURL := fmt.Sprintf("%s?q=%s&hl=ko&gl=KR&ceid=KR:ko", d.baseURL, url.QueryEscape(query))

	parser := gofeed.NewParser()
	parser.Client = d.client
	parser.UserAgent = d.userAgent

	parsed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed for %s: %w", topic.Name, err)
	}

	items := parsed.Items
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	cutoff := cutoffFor(time.Now(), days)
	entries := filterItems(items, cutoff)
	d.logger.Debug("feed discovered",
		"topic", topic.Name, "raw", len(parsed.Items), "kept", len(entries), "days", days)
	return entries, nil
}

// buildQuery assembles the boolean search query: an OR group of quoted
// aliases, minus the noise exclusion terms for named-entity topics, plus
// the feed's coarse when: recency operator.
func buildQuery(topic config.Topic, exclusions []string, days int) string {
	terms := make([]string, len(topic.Aliases))
	for i, alias := range topic.Aliases {
		terms[i] = `"` + alias + `"`
	}

	var b strings.Builder
	b.WriteString("(" + strings.Join(terms, " OR ") + ")")

	if topic.Kind == config.KindCompany {
		for _, term := range exclusions {
			b.WriteString(" -" + term)
		}
	}

	switch {
	case days <= 1:
		b.WriteString(" when:1d")
	case days <= 30:
		fmt.Fprintf(&b, " when:%dd", days)
	default:
		b.WriteString(" when:1y")
	}

	return b.String()
}

// cutoffFor computes the strict client-side cutoff. A 1-day lookback is a
// hard 24-hour window; up to 30 days snaps to the start of the calendar
// day; anything wider falls back to a yearly cutoff.
func cutoffFor(now time.Time, days int) time.Time {
	switch {
	case days <= 1:
		return now.Add(-24 * time.Hour)
	case days <= 30:
		c := now.AddDate(0, 0, -days)
		return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, c.Location())
	default:
		c := now.AddDate(-1, 0, 0)
		return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, c.Location())
	}
}

// filterItems applies the client-side cutoff and drops exact-title
// duplicates within the raw batch. Entries without a parseable timestamp
// pass through, unknown is not proof of staleness.
func filterItems(items []*gofeed.Item, cutoff time.Time) []Entry {
	var entries []Entry
	seen := make(map[string]struct{})

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" || item.Link == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}

		if published, ok := publishedTime(item); ok && published.Before(cutoff) {
			continue
		}

		seen[title] = struct{}{}
		entries = append(entries, Entry{
			Title:     title,
			Link:      item.Link,
			Published: item.Published,
			Summary:   stripHTML(item.Description),
		})
	}

	return entries
}

func publishedTime(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	if item.Published == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(item.Published)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// stripHTML removes tags and entities from a feed description.
func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
