package resolve

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"newsdesk/internal/config"
)

// SourceTitleOnly marks items whose content is the terminal
// title-as-content tier; downstream consumers render these gracefully
// instead of treating them as failures.
const SourceTitleOnly = "title-only"

const summaryRunes = 200

// Resolver runs the ordered extraction fallback chain. The first tier
// whose output the validator accepts wins; the terminal title-as-content
// tier makes the chain total, so Resolve never returns empty content.
type Resolver struct {
	strategies []Strategy
	validator  *Validator
	logger     *slog.Logger
}

// New builds the resolver chain from config: direct readability
// extraction, one search tier per configured portal, then the meta
// description fallback. Tiers share one bounded-timeout client.
func New(cfg *config.Config, logger *slog.Logger) *Resolver {
	client := &http.Client{
		Timeout: cfg.Fetch.Timeout(),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	ua := cfg.Fetch.UserAgent

	strategies := []Strategy{&readabilityStrategy{client: client, userAgent: ua}}
	for _, portal := range cfg.Portals {
		strategies = append(strategies, &portalStrategy{portal: portal, client: client, userAgent: ua})
	}
	strategies = append(strategies, &metaStrategy{client: client, userAgent: ua})

	return &Resolver{
		strategies: strategies,
		validator:  NewValidator(cfg.Validator),
		logger:     logger,
	}
}

// Resolve extracts article content for (link, title). Tiers are tried
// strictly in order with no retry within a tier; a timeout, connection
// error or parse error just advances the chain. The result always has
// non-empty Content, worst case equal to the title.
func (r *Resolver) Resolve(ctx context.Context, link, title string) *Extraction {
	for _, strategy := range r.strategies {
		ext, err := strategy.Attempt(ctx, link, title)
		if err != nil {
			r.logger.Debug("tier failed", "tier", strategy.Name(), "link", link, "err", err)
			continue
		}
		if ext == nil || !r.validator.Valid(ext.Content) {
			r.logger.Debug("tier rejected by validator", "tier", strategy.Name(), "link", link)
			continue
		}

		ext.Source = strategy.Name()
		if ext.Summary == "" {
			ext.Summary = excerpt(ext.Content)
		}
		return ext
	}

	// Terminal tier: the title is always renderable.
	return &Extraction{
		Content: title,
		Summary: title,
		Link:    link,
		Source:  SourceTitleOnly,
	}
}

func excerpt(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	runes := []rune(s)
	if len(runes) > summaryRunes {
		return string(runes[:summaryRunes])
	}
	return s
}
