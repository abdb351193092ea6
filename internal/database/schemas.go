package database

// schemas maps database names to their DDL. Statements use IF NOT EXISTS so
// migration is idempotent across restarts.
var schemas = map[string]string{
	"client_data": clientDataSchema,
	"history":     historySchema,
}

// clientDataSchema backs the external API response cache. Each table stores
// JSON blobs keyed by the client's natural lookup key, with a Unix expiry.
const clientDataSchema = `
CREATE TABLE IF NOT EXISTS gemini_advice (
    profile_hash TEXT PRIMARY KEY,
    data         TEXT NOT NULL,
    expires_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_search (
    location   TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exchangerate (
    pair       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
`

// historySchema backs the optional persistent advice history store.
const historySchema = `
CREATE TABLE IF NOT EXISTS advice_records (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    data       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
