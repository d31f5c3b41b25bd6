package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileSource_JSON(t *testing.T) {
	path := writeFile(t, "snap.json", `{"scanned": 10}`)
	data, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"scanned": 10}`, string(data))
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "snap.yaml", "scanned: 10\nbreakdown:\n  deepfakes: 3\nseries:\n  - label: a\n    value: 2\n")
	data, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)

	got, err := ApplyOverride(Default(), data)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Scanned)
	assert.Equal(t, int64(3), got.Breakdown.Deepfakes)
	assert.Equal(t, []domain.SeriesPoint{{Label: "a", Value: 2}}, got.Series)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "none.json")).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStaticSource(t *testing.T) {
	_, err := StaticSource(nil).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)

	data, err := StaticSource(`{}`).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

type fakeGetter struct {
	val string
	err error
}

func (f fakeGetter) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult(f.val, f.err)
}

func TestRedisSource(t *testing.T) {
	data, err := NewRedisSource(fakeGetter{val: `{"scanned":1}`}, "k").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"scanned":1}`, string(data))

	_, err = NewRedisSource(fakeGetter{err: redis.Nil}, "k").Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)

	boom := errors.New("connection refused")
	_, err = NewRedisSource(fakeGetter{err: boom}, "k").Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

type flakySource struct {
	calls    atomic.Int32
	failures int32
	err      error
	data     []byte
}

func (f *flakySource) Load(ctx context.Context) ([]byte, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, f.err
	}
	return f.data, nil
}

func TestReliableSource_RetriesTransientFailure(t *testing.T) {
	src := &flakySource{failures: 1, err: errors.New("timeout"), data: []byte(`{}`)}
	data, err := NewReliableSource("test", src, nil).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestReliableSource_NoSnapshotIsNotRetried(t *testing.T) {
	src := &flakySource{failures: 100, err: ErrNoSnapshot}
	_, err := NewReliableSource("test", src, nil).Load(context.Background())

	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestReliableSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReliableSource("test", &flakySource{}, nil).Load(ctx)
	assert.Error(t, err)
}

func TestLoader(t *testing.T) {
	logger := zap.NewNop()

	got, err := NewLoader(StaticSource(`{"flagged": 5}`), logger).Load(context.Background(), Default())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Flagged)

	base := Default()
	got, err = NewLoader(StaticSource(`[]`), logger).Load(context.Background(), base)
	assert.ErrorIs(t, err, ErrNotObject)
	assert.Equal(t, base, got)

	got, err = NewLoader(nil, logger).Load(context.Background(), base)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Equal(t, base, got)
}
