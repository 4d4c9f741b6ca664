package artifacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStoreRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	store.BeginRun(ctx, "run-1", "user-1", "form")
	store.Save(ctx, "run-1", "user-1", "filtered_layout", "filtered.json", []byte(`{"texts": []}`))
	store.Save(ctx, "run-1", "user-1", "chunk_response", "chunk_000.txt", []byte("raw"))
	store.FinishRun(ctx, "run-1", true, nil)

	n, err := store.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStorePing(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.Ping(context.Background(), time.Second))
}

func TestNilStoreIsNoOp(t *testing.T) {
	ctx := context.Background()
	var store *Store

	// Persistence is optional; a nil store swallows everything.
	store.BeginRun(ctx, "run-1", "user-1", "document")
	store.Save(ctx, "run-1", "user-1", "ocr_text", "english.txt", []byte("text"))
	store.FinishRun(ctx, "run-1", false, []string{"boom"})
	store.Close()

	rec := &RunRecorder{Store: nil, RunID: "run-1", UserID: "user-1"}
	rec.Record(ctx, "kind", "name", []byte("content"))
}

func TestRunRecorderBindsRun(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.BeginRun(ctx, "run-2", "user-2", "form")

	rec := &RunRecorder{Store: store, RunID: "run-2", UserID: "user-2"}
	rec.Record(ctx, "extraction_result", "form_fields.json", []byte("{}"))

	var n int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artifacts WHERE run_id = 'run-2'`).Scan(&n))
	assert.Equal(t, 1, n)
}
