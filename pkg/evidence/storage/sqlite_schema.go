package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the evidence database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS evidence (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,

    -- Timestamps (Unix nanoseconds)
    request_time INTEGER NOT NULL,
    recorded_time INTEGER NOT NULL,

    -- Request
    model TEXT NOT NULL,
    provider TEXT NOT NULL,
    prompt_hash TEXT NOT NULL,

    -- Response
    provider_model TEXT,
    reply_hash TEXT,
    finish_reason TEXT,

    -- Usage
    prompt_tokens INTEGER,
    completion_tokens INTEGER,
    total_tokens INTEGER,
    provider_latency_ms INTEGER,

    -- Result
    outcome TEXT NOT NULL,
    error_code TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_request_time ON evidence(request_time);
CREATE INDEX IF NOT EXISTS idx_evidence_request_id ON evidence(request_id);
CREATE INDEX IF NOT EXISTS idx_evidence_model ON evidence(model);
CREATE INDEX IF NOT EXISTS idx_evidence_outcome ON evidence(outcome);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const selectColumns = `id, request_id, request_time, recorded_time,
    model, provider, prompt_hash,
    provider_model, reply_hash, finish_reason,
    prompt_tokens, completion_tokens, total_tokens, provider_latency_ms,
    outcome, error_code`
