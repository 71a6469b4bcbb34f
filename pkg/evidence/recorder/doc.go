// Package recorder writes evidence records to storage in the background.
//
// Record never blocks the caller. Records are queued on a buffered channel
// and written by a single worker goroutine with a per-write timeout. When
// the buffer is full the record is dropped and logged; the HTTP response is
// never delayed or failed by evidence recording.
//
// Close stops accepting records, drains the queue and waits for the worker.
//
// # Basic Usage
//
//	rec := recorder.NewRecorder(store, &recorder.Config{
//	    BufferSize:   1000,
//	    WriteTimeout: 5 * time.Second,
//	}, collector)
//	defer rec.Close()
//
//	rec.Record(ctx, &evidence.Record{
//	    RequestID:  requestID,
//	    Model:      "gpt-3.5-turbo",
//	    PromptHash: recorder.HashText(message),
//	    ReplyHash:  recorder.HashReply(reply),
//	})
package recorder
