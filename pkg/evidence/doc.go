// Package evidence records an audit trail of completions served by relay.
//
// # Architecture
//
// The evidence system consists of three layers:
//
//  1. Recorder - accepts records from the completion adapter without blocking
//  2. Storage - persists records (memory or SQLite)
//  3. Retention - prunes old records on a cron schedule
//
// # Evidence Records
//
// Each record captures the request ID, model, token usage, upstream latency,
// outcome and error code of one completion. Prompt and reply text are never
// stored; only their SHA-256 hashes are kept so that a known input can be
// matched against the trail without the trail itself holding user content.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path: "data/evidence.db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := recorder.NewRecorder(store, recorder.DefaultConfig(), nil)
//	defer rec.Close()
//
//	rec.Record(ctx, &evidence.Record{RequestID: id, Model: "gpt-3.5-turbo"})
package evidence
