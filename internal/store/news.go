package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/araddon/dateparse"
)

const newsColumns = `id, topic, title, link, original_link, published, published_ts,
	summary, full_content, source, image_url, sentiment, created_at`

// UpsertBatch inserts a resolved-and-deduplicated batch in one transaction.
// A row whose (topic, title) already exists is silently skipped: the
// duplicate-key constraint is the idempotence mechanism, not an error.
// Returns the number of rows actually inserted.
func (db *DB) UpsertBatch(items []NewsItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO news (topic, title, link, original_link, published, published_ts,
			summary, full_content, source, image_url, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic, title) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range items {
		content := item.FullContent
		if content == "" {
			content = item.Title // the non-empty invariant holds even here
		}
		res, err := stmt.Exec(
			item.Topic, item.Title, item.Link, item.OriginalLink,
			item.Published, publishedUnix(item.Published),
			item.Summary, content, item.Source, item.ImageURL, item.Sentiment,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", item.Title, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return inserted, nil
}

// ItemsForTopic returns all items for a topic, published-descending.
// Items with an unparseable published string sort last.
func (db *DB) ItemsForTopic(topic string) ([]NewsItem, error) {
	rows, err := db.conn.Query(
		`SELECT `+newsColumns+` FROM news
		WHERE topic = ? ORDER BY published_ts DESC, id DESC`, topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// Topics returns the distinct topics present in the store.
func (db *DB) Topics() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT topic FROM news ORDER BY topic")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Search runs a full-text query over title, content and summary, ranked by
// relevance. An empty topic searches across all topics.
func (db *DB) Search(query, topic string, limit int) ([]NewsItem, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	q := `SELECT n.id, n.topic, n.title, n.link, n.original_link, n.published,
		n.published_ts, n.summary, n.full_content, n.source, n.image_url,
		n.sentiment, n.created_at
		FROM news_fts JOIN news n ON n.id = news_fts.rowid
		WHERE news_fts MATCH ?`
	args := []any{match}
	if topic != "" {
		q += " AND n.topic = ?"
		args = append(args, topic)
	}
	q += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// Page returns a paginated listing, optionally filtered by topic and by
// publication year/month.
func (db *DB) Page(filter PageFilter) ([]NewsItem, error) {
	q := sq.Select(
		"id", "topic", "title", "link", "original_link", "published", "published_ts",
		"summary", "full_content", "source", "image_url", "sentiment", "created_at",
	).From("news")

	if filter.Topic != "" {
		q = q.Where(sq.Eq{"topic": filter.Topic})
	}
	if filter.Year > 0 {
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		if filter.Month >= 1 && filter.Month <= 12 {
			from = time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		}
		q = q.Where(sq.GtOrEq{"published_ts": from.Unix()}).
			Where(sq.Lt{"published_ts": to.Unix()})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	q = q.OrderBy("published_ts DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(filter.Offset))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building page query: %w", err)
	}

	rows, err := db.conn.Query(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// CountItems returns the total number of stored news rows.
func (db *DB) CountItems() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM news").Scan(&n)
	return n, err
}

// CountForTopic returns the number of stored rows for one topic.
func (db *DB) CountForTopic(topic string) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM news WHERE topic = ?", topic).Scan(&n)
	return n, err
}

// publishedUnix parses a free-form published string leniently.
// Unparseable timestamps become 0 and sort last; the raw string is kept.
func publishedUnix(published string) int64 {
	if published == "" {
		return 0
	}
	t, err := dateparse.ParseAny(published)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// buildMatchQuery turns free user input into a safe FTS5 MATCH expression
// by quoting each token (implicit AND between tokens).
func buildMatchQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

func scanItems(rows *sql.Rows) ([]NewsItem, error) {
	var items []NewsItem
	for rows.Next() {
		var it NewsItem
		if err := rows.Scan(&it.ID, &it.Topic, &it.Title, &it.Link, &it.OriginalLink,
			&it.Published, &it.PublishedTS, &it.Summary, &it.FullContent,
			&it.Source, &it.ImageURL, &it.Sentiment, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
