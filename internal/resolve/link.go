package resolve

import (
	"bytes"
	"encoding/base64"
	"net/url"
	"strings"
)

// ResolveLink decodes an aggregator redirect URL to the publisher URL.
// Best-effort only: on any decode failure the input comes back unchanged,
// and no error ever crosses this boundary; a bad link must never abort
// processing of the article.
func ResolveLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if !strings.EqualFold(u.Hostname(), "news.google.com") {
		return link
	}

	// Article IDs live in /rss/articles/<id>, /articles/<id> or /read/<id>.
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	var id string
	for i, seg := range segments {
		if (seg == "articles" || seg == "read") && i+1 < len(segments) {
			id = segments[i+1]
		}
	}
	if id == "" {
		return link
	}

	if decoded := decodeArticleID(id); decoded != "" {
		return decoded
	}
	return link
}

// decodeArticleID base64-decodes an article ID and scans the payload for
// an embedded publisher URL. Newer ID formats carry no embedded URL and
// yield "", which callers treat as "keep the redirect link".
func decodeArticleID(id string) string {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(id, "="))
	if err != nil {
		return ""
	}

	start := bytes.Index(raw, []byte("http"))
	if start < 0 {
		return ""
	}
	end := start
	for end < len(raw) && raw[end] >= 0x20 && raw[end] < 0x7f {
		end++
	}

	candidate := string(raw[start:end])
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return candidate
}
