package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"newsdesk/internal/config"
	"newsdesk/internal/dedup"
	"newsdesk/internal/feed"
	"newsdesk/internal/resolve"
	"newsdesk/internal/sentiment"
	"newsdesk/internal/store"
)

// TopicResult summarizes ingestion for one topic.
type TopicResult struct {
	Topic    string
	Found    int
	Resolved int
	Unique   int
	Inserted int
	Stale    bool // results came from the reduced-freshness fallback
	Err      error
}

// Result holds the results of a full ingestion run. Partial results are
// the normal case: topics that failed carry an Err, the rest are stored.
type Result struct {
	Topics   []TopicResult
	Inserted int
}

// Pipeline runs feed discovery, content resolution, deduplication and
// storage for the configured topics.
//
// Discovery and resolution for different topics run in parallel on a
// bounded worker pool; deduplication and store writes always happen on
// the single collector goroutine, since neither is safe under
// unsynchronized concurrent mutation of the same topic.
type Pipeline struct {
	cfg        *config.Config
	db         *store.DB
	discoverer *feed.Discoverer
	resolver   *resolve.Resolver
	deduper    *dedup.Deduper
	analyzer   *sentiment.Analyzer
	logger     *slog.Logger
}

// New creates a pipeline with all components built from the config.
func New(cfg *config.Config, db *store.DB, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		db:         db,
		discoverer: feed.NewDiscoverer(cfg, logger),
		resolver:   resolve.New(cfg, logger),
		deduper:    dedup.New(cfg.Dedup),
		analyzer:   sentiment.New(),
		logger:     logger,
	}
}

type topicBatch struct {
	topic config.Topic
	items []store.NewsItem
	found int
	stale bool
	err   error
}

// Run ingests the given topics. A failing topic never aborts the run.
func (p *Pipeline) Run(ctx context.Context, topics []config.Topic, days, maxItems int) *Result {
	if days <= 0 {
		days = p.cfg.Fetch.LookbackDays
	}
	if maxItems <= 0 {
		maxItems = p.cfg.Fetch.MaxItems
	}
	workers := p.cfg.Fetch.Workers
	if workers <= 0 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	batches := make(chan topicBatch)
	var wg sync.WaitGroup

	for _, topic := range topics {
		wg.Add(1)
		go func(topic config.Topic) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			batches <- p.fetchTopic(ctx, topic, days, maxItems)
		}(topic)
	}

	go func() {
		wg.Wait()
		close(batches)
	}()

	// Single writer: merge, dedupe and store one topic at a time.
	result := &Result{}
	for batch := range batches {
		tr := p.storeBatch(batch)
		result.Topics = append(result.Topics, tr)
		result.Inserted += tr.Inserted
	}

	sort.Slice(result.Topics, func(i, j int) bool {
		return result.Topics[i].Topic < result.Topics[j].Topic
	})

	if err := p.db.SetMetadata(store.MetaLastIngested, time.Now().UTC().Format(time.RFC3339)); err != nil {
		p.logger.Warn("recording ingestion time failed", "err", err)
	}

	return result
}

// fetchTopic does the network half of one topic: discovery plus
// per-article resolution, sequential with a politeness delay. The delay
// is skipped in reduced-freshness mode to bound total latency.
func (p *Pipeline) fetchTopic(ctx context.Context, topic config.Topic, days, maxItems int) topicBatch {
	entries, err := p.discoverer.Discover(ctx, topic, days, maxItems)
	if err != nil {
		return topicBatch{topic: topic, err: err}
	}

	limiter := rate.NewLimiter(rate.Every(p.cfg.Fetch.Politeness()), 1)

	batch := topicBatch{topic: topic, found: len(entries)}
	for _, entry := range entries {
		if entry.Stale {
			batch.stale = true
		} else if err := limiter.Wait(ctx); err != nil {
			batch.err = err
			return batch
		}

		canonical := resolve.ResolveLink(entry.Link)
		ext := p.resolver.Resolve(ctx, canonical, entry.Title)

		summary := ext.Summary
		if ext.Source == resolve.SourceTitleOnly && entry.Summary != "" {
			summary = entry.Summary
		}

		batch.items = append(batch.items, store.NewsItem{
			Topic:        topic.Name,
			Title:        entry.Title,
			Link:         ext.Link,
			OriginalLink: entry.Link,
			Published:    entry.Published,
			Summary:      summary,
			FullContent:  ext.Content,
			Source:       ext.Source,
			ImageURL:     ext.ImageURL,
			Stale:        entry.Stale,
		})
	}

	return batch
}

// storeBatch merges a fresh batch with the topic's stored archive,
// dedupes the union, tags sentiment and writes the survivors. Duplicate
// (topic, title) rows are silent no-ops in the store.
func (p *Pipeline) storeBatch(batch topicBatch) TopicResult {
	tr := TopicResult{Topic: batch.topic.Name, Found: batch.found, Stale: batch.stale, Err: batch.err}
	if batch.err != nil {
		p.logger.Warn("topic ingestion failed", "topic", batch.topic.Name, "err", batch.err)
		return tr
	}
	tr.Resolved = len(batch.items)
	if len(batch.items) == 0 {
		return tr
	}

	archive, err := p.db.ItemsForTopic(batch.topic.Name)
	if err != nil {
		tr.Err = err
		return tr
	}

	union := append(batch.items, archive...)
	unique := p.deduper.Unique(union)
	tr.Unique = len(unique)

	for i := range unique {
		if unique[i].Sentiment == "" {
			unique[i].Sentiment = p.analyzer.Label(unique[i].Title + " " + unique[i].Summary)
		}
	}

	inserted, err := p.db.UpsertBatch(unique)
	if err != nil {
		tr.Err = err
		return tr
	}
	tr.Inserted = inserted

	p.logger.Info("topic ingested",
		"topic", batch.topic.Name,
		"found", tr.Found,
		"resolved", tr.Resolved,
		"unique", tr.Unique,
		"inserted", tr.Inserted,
		"stale", tr.Stale)
	return tr
}
