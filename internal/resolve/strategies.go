package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"newsdesk/internal/config"
)

// Extraction is the output of one successful tier.
type Extraction struct {
	Content  string
	Summary  string
	Link     string // URL the content was actually extracted from
	ImageURL string
	Source   string // tier/portal name, filled in by the resolver
}

// Strategy is one tier in the ordered fallback chain. An error means
// "tier failed, advance"; the resolver swallows it.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, link, title string) (*Extraction, error)
}

// --- tier 1: direct readability extraction ---

type readabilityStrategy struct {
	client    *http.Client
	userAgent string
}

func (s *readabilityStrategy) Name() string { return "readability" }

func (s *readabilityStrategy) Attempt(ctx context.Context, link, _ string) (*Extraction, error) {
	resp, err := get(ctx, s.client, s.userAgent, link)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	parsedURL, _ := url.Parse(link)
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	content := strings.TrimSpace(article.TextContent)
	if content == "" {
		return nil, fmt.Errorf("no extractable content")
	}

	return &Extraction{
		Content:  content,
		Summary:  strings.TrimSpace(article.Excerpt),
		Link:     link,
		ImageURL: article.Image,
	}, nil
}

// --- tiers 2-3: portal search ---

// portalStrategy searches a news portal's own search page for the
// article title and re-extracts from the first in-portal result. Portals
// fail for different reasons than publishers do, which is what makes
// this a useful fallback.
type portalStrategy struct {
	portal    config.Portal
	client    *http.Client
	userAgent string
}

func (s *portalStrategy) Name() string { return s.portal.Name }

func (s *portalStrategy) Attempt(ctx context.Context, _, title string) (*Extraction, error) {
	query := normalizeTitle(title)
	if query == "" {
		return nil, fmt.Errorf("empty title")
	}

	searchURL := fmt.Sprintf(s.portal.SearchURL, url.QueryEscape(query))
	doc, err := fetchDoc(ctx, s.client, s.userAgent, searchURL)
	if err != nil {
		return nil, err
	}

	target := ""
	doc.Find(s.portal.LinkSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if ok && strings.Contains(href, s.portal.LinkContains) {
			target = href
			return false
		}
		return true
	})
	if target == "" {
		return nil, fmt.Errorf("no in-portal result for %q", query)
	}

	article, err := fetchDoc(ctx, s.client, s.userAgent, target)
	if err != nil {
		return nil, err
	}

	for _, selector := range s.portal.ContentSelectors {
		text := strings.TrimSpace(article.Find(selector).First().Text())
		if text != "" {
			return &Extraction{Content: text, Link: target}, nil
		}
	}
	return nil, fmt.Errorf("no content under known selectors")
}

// --- tier 4: meta description ---

type metaStrategy struct {
	client    *http.Client
	userAgent string
}

func (s *metaStrategy) Name() string { return "meta-description" }

func (s *metaStrategy) Attempt(ctx context.Context, link, _ string) (*Extraction, error) {
	doc, err := fetchDoc(ctx, s.client, s.userAgent, link)
	if err != nil {
		return nil, err
	}

	for _, selector := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if desc, ok := doc.Find(selector).First().Attr("content"); ok {
			desc = strings.TrimSpace(desc)
			if desc != "" {
				return &Extraction{Content: desc, Summary: desc, Link: link}, nil
			}
		}
	}
	return nil, fmt.Errorf("no description meta tag")
}

// --- helpers ---

func get(ctx context.Context, client *http.Client, userAgent, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

func fetchDoc(ctx context.Context, client *http.Client, userAgent, target string) (*goquery.Document, error) {
	resp, err := get(ctx, client, userAgent, target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return goquery.NewDocumentFromReader(resp.Body)
}

var outletSuffix = regexp.MustCompile(`\s+[-–|]\s+[^-–|]+$`)

const maxQueryRunes = 60

// normalizeTitle strips a trailing " - <outlet>" style suffix and bounds
// the length so portal search queries stay precise.
func normalizeTitle(title string) string {
	t := strings.TrimSpace(outletSuffix.ReplaceAllString(title, ""))
	runes := []rune(t)
	if len(runes) > maxQueryRunes {
		t = string(runes[:maxQueryRunes])
	}
	return t
}
