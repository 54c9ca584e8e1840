package protocol

// SchemaDDL defines the SQLite schema for the tigre state database.
// Each row holds one complete JSON document; writes replace the whole value.
// Execute against a SQLite database with: db.Exec(SchemaDDL)
const SchemaDDL = `
-- Durable documents: events, unlocked_symbols
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
