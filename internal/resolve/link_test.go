package resolve

import (
	"encoding/base64"
	"testing"
)

// encodeArticleID builds an aggregator article ID in the old embedded-URL
// format: a length-prefixed URL inside a base64url payload.
func encodeArticleID(target string) string {
	payload := []byte{0x08, 0x13, 0x22, byte(len(target))}
	payload = append(payload, []byte(target)...)
	payload = append(payload, 0xd2, 0x01, 0x00)
	return base64.RawURLEncoding.EncodeToString(payload)
}

func TestResolveLinkDecodesEmbeddedURL(t *testing.T) {
	publisher := "https://n.news.naver.com/article/001/0001"
	link := "https://news.google.com/rss/articles/" + encodeArticleID(publisher) + "?oc=5"

	if got := ResolveLink(link); got != publisher {
		t.Errorf("ResolveLink = %q, want %q", got, publisher)
	}
}

func TestResolveLinkReadPath(t *testing.T) {
	publisher := "https://example.com/economy/2026/article"
	link := "https://news.google.com/read/" + encodeArticleID(publisher)

	if got := ResolveLink(link); got != publisher {
		t.Errorf("ResolveLink = %q, want %q", got, publisher)
	}
}

func TestResolveLinkPassthrough(t *testing.T) {
	tests := []string{
		"https://example.com/plain/article",              // not an aggregator link
		"https://news.google.com/rss/articles/%%%bad%%%", // undecodable ID
		"https://news.google.com/rss/articles/" + base64.RawURLEncoding.EncodeToString([]byte("AU_yqLnothinghere")), // no embedded URL
		"https://news.google.com/home",                   // no article segment
		"::not a url::",
	}
	for _, link := range tests {
		if got := ResolveLink(link); got != link {
			t.Errorf("ResolveLink(%q) = %q, want input unchanged", link, got)
		}
	}
}
