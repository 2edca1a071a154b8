package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policychat/internal/ai"
	"policychat/internal/retrieval"
	"policychat/internal/store"
)

type testEnv struct {
	server   *Server
	http     *httptest.Server
	store    *store.Store
	provider *ai.MockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	_, err = st.AddDocument(ctx, "Leave", "Employees get 30 days annual leave")
	require.NoError(t, err)
	_, err = st.AddDocument(ctx, "Hours", "Standard work hours are 9 to 5")
	require.NoError(t, err)

	indexer := retrieval.NewIndexer(st)
	ranker := retrieval.NewRanker(indexer, retrieval.DefaultTopN, retrieval.DefaultMinScore)
	provider := ai.NewMockProvider("mock")
	answerer := ai.NewAnswerer(provider, "")

	s := New(0, st, indexer, ranker, answerer)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{server: s, http: ts, store: st, provider: provider}
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.http.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)
	env.provider.SetResponses(ai.MockResponse{Content: "You get 30 days."})

	resp := env.postJSON(t, "/api/chat", map[string]string{
		"message": "how many annual leave days",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "You get 30 days.", out.Response)
	require.NotEmpty(t, out.RelevantDocs)
	assert.Equal(t, "Leave", out.RelevantDocs[0].Title)
	assert.Greater(t, out.RelevantDocs[0].Score, 0.1)

	// The exchange is logged to chat history.
	recent, err := env.store.RecentInteractions(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "how many annual leave days", recent[0].UserMessage)
	assert.Equal(t, "You get 30 days.", recent[0].BotResponse)
}

func TestChatProviderFailureReturnsFallback(t *testing.T) {
	env := newTestEnv(t)
	env.provider.SetResponses(ai.MockResponse{Error: assert.AnError})

	resp := env.postJSON(t, "/api/chat", map[string]string{"message": "سؤال"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, ai.FallbackMessage, out.Response)
}

func TestChatValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	r, err := http.Get(env.http.URL + "/api/chat")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, r.StatusCode)
	r.Body.Close()

	resp2, err := http.Post(env.http.URL+"/api/chat", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	resp2.Body.Close()
}

func TestChatNoRelevantDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.provider.SetResponses(ai.MockResponse{Content: "لم أجد إجابة محددة."})

	resp := env.postJSON(t, "/api/chat", map[string]string{
		"message": "completely unrelated quantum physics question",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponse
	decodeBody(t, resp, &out)
	// Empty match list is "no relevant policy found", not a failure.
	assert.Empty(t, out.RelevantDocs)
	assert.NotEmpty(t, out.Response)
}

func TestListDocuments(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.http.URL + "/api/documents")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Documents []retrieval.Document `json:"documents"`
		Count     int                  `json:"count"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Documents, 2)
	assert.Equal(t, "Leave", out.Documents[0].Title)
}

func TestAddDocumentReindexes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/documents", map[string]string{
		"title":   "Parental",
		"content": "Parental leave lasts ten weeks for new parents",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "created", created.Status)
	assert.NotZero(t, created.ID)

	// The new document is immediately retrievable.
	env.provider.SetResponses(ai.MockResponse{Content: "Ten weeks."})
	chatResp := env.postJSON(t, "/api/chat", map[string]string{
		"message": "how long is parental leave",
	})
	require.Equal(t, http.StatusOK, chatResp.StatusCode)

	var out ChatResponse
	decodeBody(t, chatResp, &out)
	require.NotEmpty(t, out.RelevantDocs)
	assert.Equal(t, "Parental", out.RelevantDocs[0].Title)
}

func TestAddDocumentValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/documents", map[string]string{"title": "no content"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.postJSON(t, "/api/documents", map[string]string{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReindex(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/reindex", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	decodeBody(t, resp, &out)
	assert.Equal(t, "reindexed", out["status"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.http.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out HealthResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, 2, out.Documents)
}
