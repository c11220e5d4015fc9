package corpus

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// countingSource blocks every Load until release is closed and counts calls.
type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	failN   int32
	data    map[string]string
}

func (s *countingSource) Load(ctx context.Context) (map[string]string, error) {
	n := s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if n <= s.failN {
		return nil, errors.New("network down")
	}
	return s.data, nil
}

func (s *countingSource) String() string { return "counting" }

func TestLoader_ConcurrentCallersShareOneLoad(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), data: sampleData()}
	loader := NewLoader(src, nil)

	const callers = 20
	var wg sync.WaitGroup
	results := make([]*Index, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loader.Index(context.Background())
		}(i)
	}

	// Give every goroutine a chance to attach to the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}

	// Subsequent calls hit the memo.
	again, err := loader.Index(context.Background())
	require.NoError(t, err)
	assert.Same(t, results[0], again)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	src := &countingSource{failN: 1, data: sampleData()}
	loader := NewLoader(src, nil)

	_, err := loader.Index(context.Background())
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "network down")

	index, err := loader.Index(context.Background())
	require.NoError(t, err)
	_, ok := index.Book("창")
	assert.True(t, ok)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestLoader_CallerCancellation(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), data: sampleData()}
	loader := NewLoader(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Data(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The shared load keeps running for other callers.
	close(src.release)
	data, err := loader.Data(context.Background())
	require.NoError(t, err)
	assert.Len(t, data, len(sampleData()))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bible.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"창1:1":"태초에"}`), 0o600))

	data, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "태초에", data["창1:1"])

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1,2]`), 0o600))
	_, err = FileSource{Path: bad}.Load(context.Background())
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "parse")
}

func TestFileSource_XZ(t *testing.T) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"창1:1":"태초에","창1:2":"땅이"}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dir := t.TempDir()
	path := filepath.Join(dir, "bible.json.xz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	data, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "땅이", data["창1:2"])

	// Plain JSON behind an .xz name is rejected, not parsed.
	fake := filepath.Join(dir, "plain.json.xz")
	require.NoError(t, os.WriteFile(fake, []byte(`{"창1:1":"태초에"}`), 0o600))
	_, err = FileSource{Path: fake}.Load(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "decompress")
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"창1:1":"태초에"}`))
	}))
	defer server.Close()

	loader := NewLoader(HTTPSource{URL: server.URL + "/assets/bible.json"}, nil)
	index, err := loader.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, index.Len())

	_, err = HTTPSource{URL: server.URL + "/missing"}.Load(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestMapSource(t *testing.T) {
	loader := NewLoader(MapSource(sampleData()), nil)
	index, err := loader.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"옵", "창"}, index.BookKeys())
}
