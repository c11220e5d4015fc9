package corpus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonathan/lifeofword/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Loader memoizes the corpus data and its index. Concurrent first callers share
// one underlying load; a failed load is not cached, so the next call retries.
type Loader struct {
	source Source
	logger *logging.Logger
	group  singleflight.Group

	mu    sync.Mutex
	data  map[string]string
	index *Index
}

// NewLoader creates a Loader over a source.
func NewLoader(source Source, logger *logging.Logger) *Loader {
	return &Loader{source: source, logger: logging.OrNop(logger)}
}

// Data returns the raw corpus mapping, loading it on first use.
func (l *Loader) Data(ctx context.Context) (map[string]string, error) {
	if data := l.cachedData(); data != nil {
		return data, nil
	}

	v, err := l.do(ctx, "data", func(ctx context.Context) (any, error) {
		if data := l.cachedData(); data != nil {
			return data, nil
		}
		start := time.Now()
		l.logger.Info("loading corpus", "source", l.source.String())

		data, err := l.source.Load(ctx)
		if err != nil {
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				err = &LoadError{Source: l.source.String(), Message: "source failed", Cause: err}
			}
			l.logger.Error("corpus load failed", "source", l.source.String(), "error", err)
			return nil, err
		}
		if data == nil {
			data = map[string]string{}
		}

		l.mu.Lock()
		l.data = data
		l.mu.Unlock()

		l.logger.Info("corpus loaded", "entries", len(data), "duration", time.Since(start))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// Index returns the book/chapter index, building it on first use.
func (l *Loader) Index(ctx context.Context) (*Index, error) {
	if index := l.cachedIndex(); index != nil {
		return index, nil
	}

	v, err := l.do(ctx, "index", func(ctx context.Context) (any, error) {
		if index := l.cachedIndex(); index != nil {
			return index, nil
		}
		data, err := l.Data(ctx)
		if err != nil {
			return nil, err
		}
		index := Build(data)

		l.mu.Lock()
		l.index = index
		l.mu.Unlock()

		l.logger.Debug("corpus indexed", "books", len(index.books), "digest", index.Digest())
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// do runs fn once per key across concurrent callers. The shared call is
// detached from the first caller's cancellation; each caller still stops
// waiting when its own context is done.
func (l *Loader) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Loaded returns the index if it has already been built, without loading.
func (l *Loader) Loaded() (*Index, bool) {
	index := l.cachedIndex()
	return index, index != nil
}

func (l *Loader) cachedData() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data
}

func (l *Loader) cachedIndex() *Index {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}
