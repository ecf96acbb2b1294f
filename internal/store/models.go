package store

// NewsItem is a single resolved article. It is created once by the
// resolver and never mutated after insertion; "latest wins" happens in
// the deduplicator before storage, not as updates to stored rows.
//
// FullContent is never empty, worst case it equals Title.
// (Topic, Title) is the natural key.
type NewsItem struct {
	ID           int64
	Topic        string
	Title        string
	Link         string // canonical publisher link, best-effort
	OriginalLink string // aggregator redirect link as seen in the feed
	Published    string // free-form timestamp string from the feed
	PublishedTS  int64  // lenient parse of Published as unix seconds, 0 if unparseable
	Summary      string
	FullContent  string
	Source       string // which resolution tier/portal produced the content
	ImageURL     string
	Sentiment    string // positive / negative / neutral, may be empty
	Stale        bool   // reduced-freshness fallback result, not persisted
	CreatedAt    string
}

// PageFilter narrows a paginated listing. Zero values mean "no filter".
type PageFilter struct {
	Topic  string
	Year   int
	Month  int // 1-12, only honored together with Year
	Limit  int
	Offset int
}
