package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsdesk/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resolverFor(portals []config.Portal) *Resolver {
	cfg := &config.Config{
		Fetch: config.Fetch{
			TimeoutSeconds: 5,
			UserAgent:      "newsdesk-test",
		},
		Portals:   portals,
		Validator: testValidatorConfig(),
	}
	return New(cfg, testLogger())
}

func koreanParagraph() string {
	return strings.Repeat("한국캐피탈은 삼분기 실적 발표에서 영업이익이 전년 동기 대비 크게 늘었다고 밝혔다. ", 5)
}

func articleHTML() string {
	p := koreanParagraph()
	return fmt.Sprintf(`<!DOCTYPE html><html><head><title>실적 기사</title></head>
<body><article><h1>실적 기사</h1><p>%s</p><p>%s</p><p>%s</p></article></body></html>`, p, p, p)
}

func TestResolveDirectTier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML())
	}))
	defer server.Close()

	ext := resolverFor(nil).Resolve(context.Background(), server.URL+"/article", "실적 기사")
	if ext.Source != "readability" {
		t.Fatalf("expected readability tier, got %q", ext.Source)
	}
	if !strings.Contains(ext.Content, "영업이익") {
		t.Errorf("expected article body, got %q", ext.Content[:40])
	}
	if ext.Summary == "" {
		t.Error("expected non-empty summary")
	}
}

func TestResolvePortalTierAfterDirectFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "paywall", http.StatusForbidden)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
<a class="info" href="https://elsewhere.example/x">언론사</a>
<a class="info" href="%s/portal-article">포털 기사</a>
</body></html>`, server.URL)
	})
	mux.HandleFunc("/portal-article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><div id="dic_area">%s</div></body></html>`, koreanParagraph())
	})

	portal := config.Portal{
		Name:             "naver",
		SearchURL:        server.URL + "/search?q=%s",
		LinkSelector:     "a.info",
		LinkContains:     "portal-article",
		ContentSelectors: []string{"#dic_area"},
	}

	ext := resolverFor([]config.Portal{portal}).Resolve(
		context.Background(), server.URL+"/article", "실적 기사 - 연합뉴스")
	if ext.Source != "naver" {
		t.Fatalf("expected naver tier, got %q", ext.Source)
	}
	if !strings.HasSuffix(ext.Link, "/portal-article") {
		t.Errorf("expected in-portal link, got %q", ext.Link)
	}
	if !strings.Contains(ext.Content, "영업이익") {
		t.Error("expected portal article body")
	}
}

func TestResolveMetaDescriptionTier(t *testing.T) {
	desc := strings.Repeat("실적 요약 문장이다. ", 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><meta property="og:description" content="%s"></head>
<body><div>짧음</div></body></html>`, strings.TrimSpace(desc))
	}))
	defer server.Close()

	ext := resolverFor(nil).Resolve(context.Background(), server.URL, "기사 제목")
	if ext.Source != "meta-description" {
		t.Fatalf("expected meta-description tier, got %q", ext.Source)
	}
	if !strings.Contains(ext.Content, "실적 요약") {
		t.Error("expected description content")
	}
}

func TestResolveTerminalTierNeverEmpty(t *testing.T) {
	// Unroutable target and no portals: every network tier fails.
	ext := resolverFor(nil).Resolve(context.Background(), "http://127.0.0.1:1/nope", "대표 선임 소식")

	if ext.Source != SourceTitleOnly {
		t.Fatalf("expected terminal tier, got %q", ext.Source)
	}
	if ext.Content != "대표 선임 소식" || ext.Summary != "대표 선임 소식" {
		t.Errorf("terminal tier must return the title, got (%q, %q)", ext.Content, ext.Summary)
	}
	if ext.Content == "" {
		t.Error("content must never be empty")
	}
}

func TestNormalizeTitle(t *testing.T) {
	if got := normalizeTitle("대표 선임 소식 - 연합뉴스"); got != "대표 선임 소식" {
		t.Errorf("expected outlet suffix stripped, got %q", got)
	}

	long := strings.Repeat("가", 80)
	if got := normalizeTitle(long); len([]rune(got)) != maxQueryRunes {
		t.Errorf("expected truncation to %d runes, got %d", maxQueryRunes, len([]rune(got)))
	}
}
