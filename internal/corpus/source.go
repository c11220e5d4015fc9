package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jonathan/lifeofword/internal/fetch"
)

// Source provides the raw key -> text mapping.
type Source interface {
	Load(ctx context.Context) (map[string]string, error)
	String() string
}

// FileSource reads the corpus from a JSON file on disk. Paths ending in
// ".xz" are decompressed while reading.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(_ context.Context) (map[string]string, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.String(), Message: "failed to read corpus file", Cause: err}
	}
	if strings.HasSuffix(s.Path, ".xz") {
		raw, err = decompressXZ(raw)
		if err != nil {
			return nil, &LoadError{Source: s.String(), Message: "failed to decompress corpus file", Cause: err}
		}
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &LoadError{Source: s.String(), Message: "failed to parse corpus JSON", Cause: err}
	}
	return data, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

func decompressXZ(raw []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// HTTPSource fetches the corpus as a single JSON object.
type HTTPSource struct {
	URL     string
	Options *fetch.Options
}

// Load implements Source.
func (s HTTPSource) Load(ctx context.Context) (map[string]string, error) {
	var data map[string]string
	if _, err := fetch.JSON(ctx, s.URL, s.Options, &data); err != nil {
		return nil, &LoadError{Source: s.String(), Message: "failed to fetch corpus", Cause: err}
	}
	return data, nil
}

func (s HTTPSource) String() string { return s.URL }

// MapSource serves an in-memory mapping.
type MapSource map[string]string

// Load implements Source.
func (m MapSource) Load(_ context.Context) (map[string]string, error) {
	return m, nil
}

func (m MapSource) String() string { return "memory" }
