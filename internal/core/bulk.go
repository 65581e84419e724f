package core

import "context"

// DefaultChunkSize is the batch size used when callers pass chunkSize <= 0.
// 200 rows keeps each insert comfortably under store-side payload limits.
const DefaultChunkSize = 200

// SubmitChunked splits records into consecutive chunks of at most chunkSize
// and submits them strictly in order: chunk N+1 is never sent before chunk
// N's result is known.
//
// On the first failing chunk the remaining chunks are abandoned and the
// returned *WriteError reports how many records were committed before the
// failure, at chunk-boundary granularity. Already-committed chunks stand.
// No retry is attempted here; retry is a caller (user re-action) concern.
func SubmitChunked(ctx context.Context, store RecordStore, records []NewRecord, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	committed := 0
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}

		if err := store.Insert(ctx, records[start:end]); err != nil {
			return committed, &WriteError{Committed: committed, Err: err}
		}
		committed = end
	}

	return committed, nil
}
