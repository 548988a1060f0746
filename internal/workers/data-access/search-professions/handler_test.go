// internal/workers/data-access/search-professions/handler_test.go
package searchprofessions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	commonerrors "careercompass-workers/internal/common/errors"
	"careercompass-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esStub struct {
	status    int
	body      string
	lastPath  string
	lastQuery string
	lastBody  []byte
}

func (s *esStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.lastPath = r.URL.Path
		s.lastQuery = r.URL.RawQuery
		s.lastBody, _ = io.ReadAll(r.Body)
		// The v8 client rejects responses without the product header.
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}
}

func newTestHandler(t *testing.T, stub *esStub) *Handler {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewHandler(LoadConfig(), client, logger.NewNoOpLogger())
}

const searchResponse = `{
	"took": 4,
	"hits": {
		"total": {"value": 2},
		"max_score": 7.5,
		"hits": [
			{"_source": {"id": "prof-engineer", "category": "engineering"}},
			{"_source": {"id": "prof-mechanic", "category": "engineering"}}
		]
	}
}`

func TestExecute_ReturnsHits(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	output, err := h.Execute(context.Background(), &Input{Query: "инженер", Locale: "ru"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.TotalHits)
	assert.Equal(t, 7.5, output.MaxScore)
	require.Len(t, output.Professions, 2)
	assert.Equal(t, "prof-engineer", output.Professions[0]["id"])
	assert.Contains(t, stub.lastPath, "/professions/_search")
}

func TestExecute_BoostsLocaleFields(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "engineer", Locale: "en", Category: "engineering"})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(stub.lastBody, &body))
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name.en^3")
	assert.Contains(t, string(raw), "description.en")
	assert.Contains(t, string(raw), `"category":"engineering"`)
}

func TestExecute_LegacyLocaleFallsBackToKazakh(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "инженер", Locale: "kz"})
	require.NoError(t, err)
	assert.Contains(t, string(stub.lastBody), "name.kk^3")
}

func TestExecute_EmptyQueryRejected(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchQueryFailed)
}

func TestExecute_IndexNotFound(t *testing.T) {
	stub := &esStub{status: http.StatusNotFound, body: `{"error":{"type":"index_not_found_exception"}}`}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "engineer"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexNotFound)
	assert.Equal(t, "INDEX_NOT_FOUND", h.mapErrorToCode(err))
	assert.Equal(t, 0, commonerrors.GetRetryCount(commonerrors.ErrorCode(h.mapErrorToCode(err))))
}

func TestExecute_ServerErrorIsQueryFailure(t *testing.T) {
	stub := &esStub{status: http.StatusInternalServerError, body: `{"error":{"type":"search_phase_execution_exception"}}`}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "engineer"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchQueryFailed)
	assert.Equal(t, "SEARCH_QUERY_FAILED", h.mapErrorToCode(err))
}

func TestExecute_ConnectionFailureIsRetryable(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	srv := httptest.NewServer(stub.handler())
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	srv.Close()

	h := NewHandler(LoadConfig(), client, logger.NewNoOpLogger())
	_, err = h.Execute(context.Background(), &Input{Query: "engineer"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElasticsearchConnectionFailed)
	assert.Equal(t, 3, commonerrors.GetRetryCount(commonerrors.ErrorCode(h.mapErrorToCode(err))))
}

func TestExecute_SizeClamping(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "engineer", Size: 500})
	require.NoError(t, err)
	// Size rides in the query string for esapi.SearchRequest.
	assert.Contains(t, stub.lastQuery, "size=100")
}

func TestExecute_DefaultSize(t *testing.T) {
	stub := &esStub{status: http.StatusOK, body: searchResponse}
	h := newTestHandler(t, stub)

	_, err := h.Execute(context.Background(), &Input{Query: "engineer"})
	require.NoError(t, err)
	assert.Contains(t, stub.lastQuery, "size=20")
}
