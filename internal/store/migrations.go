package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
//
// The news_fts table is an external-content FTS5 index over news; the
// three triggers keep it synchronized inside the same transaction as
// every insert/update/delete, so no read ever observes a news row
// without its index entry or vice versa.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS news (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic TEXT NOT NULL,
    title TEXT NOT NULL,
    link TEXT NOT NULL DEFAULT '',
    original_link TEXT NOT NULL DEFAULT '',
    published TEXT NOT NULL DEFAULT '',
    published_ts INTEGER NOT NULL DEFAULT 0,
    summary TEXT NOT NULL DEFAULT '',
    full_content TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    sentiment TEXT NOT NULL DEFAULT '',
    created_at TEXT DEFAULT (datetime('now')),
    UNIQUE(topic, title)
);

CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS news_fts USING fts5(
    title, full_content, summary,
    content='news', content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS news_ai AFTER INSERT ON news BEGIN
    INSERT INTO news_fts(rowid, title, full_content, summary)
    VALUES (new.id, new.title, new.full_content, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS news_ad AFTER DELETE ON news BEGIN
    INSERT INTO news_fts(news_fts, rowid, title, full_content, summary)
    VALUES ('delete', old.id, old.title, old.full_content, old.summary);
END;

CREATE TRIGGER IF NOT EXISTS news_au AFTER UPDATE ON news BEGIN
    INSERT INTO news_fts(news_fts, rowid, title, full_content, summary)
    VALUES ('delete', old.id, old.title, old.full_content, old.summary);
    INSERT INTO news_fts(rowid, title, full_content, summary)
    VALUES (new.id, new.title, new.full_content, new.summary);
END;

CREATE INDEX IF NOT EXISTS idx_news_topic ON news(topic);
CREATE INDEX IF NOT EXISTS idx_news_topic_published ON news(topic, published_ts);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
