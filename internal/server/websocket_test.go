package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/types"
)

func dialWS(t *testing.T, ts *httptest.Server, path string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, nil)
}

// wsFrame mirrors WSMessage with items left undecoded, since MergedItem
// variants only marshal.
type wsFrame struct {
	Type    string `json:"type"`
	Segment *struct {
		Index  int `json:"index"`
		Total  int `json:"total"`
		Result struct {
			Title string            `json:"title"`
			Items []json.RawMessage `json:"items"`
		} `json:"result"`
	} `json:"segment"`
	Total int    `json:"total"`
	Error string `json:"error"`
}

func TestReadWS(t *testing.T) {
	s := newTestServer(t, Config{
		Loader: corpus.NewLoader(testCorpus, nil),
		Fetcher: stubFetcher{passage: &types.Passage{
			Canonical: "Genesis 1:1–2",
			Passages:  []string{"[1] In the beginning [2] The earth"},
		}},
		Concurrency: 2,
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := dialWS(t, ts, "/api/read/ws?reference=Genesis+1-2")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var kinds []string
	var indexes []int
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg wsFrame
		require.NoError(t, json.Unmarshal(data, &msg), string(data))
		kinds = append(kinds, msg.Type)
		if msg.Type == "segment" {
			require.NotNil(t, msg.Segment)
			assert.Equal(t, 2, msg.Segment.Total)
			assert.NotEmpty(t, msg.Segment.Result.Items)
			indexes = append(indexes, msg.Segment.Index)
		}
		if msg.Type == "complete" {
			assert.Equal(t, 2, msg.Total)
		}
	}

	assert.Equal(t, []string{"plan", "segment", "segment", "complete"}, kinds)
	sort.Ints(indexes)
	assert.Equal(t, []int{0, 1}, indexes)
}

func TestReadWS_BadReferenceIsPlainHTTP(t *testing.T) {
	s := newTestServer(t, Config{Loader: corpus.NewLoader(testCorpus, nil)})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	_, resp, err := dialWS(t, ts, "/api/read/ws?reference=Hezekiah+1")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
