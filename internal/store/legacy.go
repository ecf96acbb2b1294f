package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LegacySnapshotName is the flat JSON snapshot produced by earlier
// versions: a mapping from topic to a list of item records plus a
// "_last_updated" timestamp string.
const LegacySnapshotName = "news_history.json"

// legacyRecord is the shape of one historical snapshot entry. Older
// snapshots mixed well-formed objects with bare strings; only objects
// with a title survive the import.
type legacyRecord struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"original_link"`
	Published    string `json:"published"`
	Summary      string `json:"summary"`
	FullContent  string `json:"full_content"`
	ImageURL     string `json:"image"`
	Source       string `json:"source"`
	Sentiment    string `json:"sentiment"`
}

// ImportResult summarizes a legacy snapshot import.
type ImportResult struct {
	Topics   int
	Imported int
	Skipped  int
}

// ImportLegacySnapshot imports a legacy JSON snapshot into the relational
// schema. This is a one-time startup migration: it runs only when the
// store holds no news rows, and is a no-op otherwise. Malformed records
// are discarded with a logged reason; nothing untyped reaches the store.
func (db *DB) ImportLegacySnapshot(path string, logger *slog.Logger) (*ImportResult, error) {
	count, err := db.CountItems()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		logger.Debug("store not empty, skipping legacy import", "rows", count)
		return &ImportResult{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	result := &ImportResult{}
	for key, raw := range snapshot {
		if strings.HasPrefix(key, "_") {
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				logger.Warn("skipping non-string metadata entry", "key", key)
				continue
			}
			if err := db.SetMetadata(strings.TrimPrefix(key, "_"), value); err != nil {
				return nil, fmt.Errorf("importing metadata %q: %w", key, err)
			}
			continue
		}

		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			logger.Warn("skipping topic with non-list value", "topic", key)
			continue
		}

		items := make([]NewsItem, 0, len(records))
		for _, rec := range records {
			item, reason := parseLegacyRecord(key, rec)
			if item == nil {
				result.Skipped++
				logger.Warn("discarding legacy record", "topic", key, "reason", reason)
				continue
			}
			items = append(items, *item)
		}

		inserted, err := db.UpsertBatch(items)
		if err != nil {
			return nil, fmt.Errorf("importing topic %q: %w", key, err)
		}
		result.Topics++
		result.Imported += inserted
	}

	logger.Info("legacy snapshot imported",
		"topics", result.Topics, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// parseLegacyRecord converts one raw snapshot entry into a validated
// NewsItem, or returns the reason it was discarded.
func parseLegacyRecord(topic string, raw json.RawMessage) (*NewsItem, string) {
	var rec legacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, "not an object"
	}
	if strings.TrimSpace(rec.Title) == "" {
		return nil, "missing title"
	}

	content := rec.FullContent
	if content == "" {
		content = rec.Summary
	}
	if content == "" {
		content = rec.Title
	}

	source := rec.Source
	if source == "" {
		source = "legacy-import"
	}

	return &NewsItem{
		Topic:        topic,
		Title:        strings.TrimSpace(rec.Title),
		Link:         rec.Link,
		OriginalLink: rec.OriginalLink,
		Published:    rec.Published,
		Summary:      rec.Summary,
		FullContent:  content,
		Source:       source,
		ImageURL:     rec.ImageURL,
		Sentiment:    rec.Sentiment,
	}, ""
}
