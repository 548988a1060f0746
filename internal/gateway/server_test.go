// internal/gateway/server_test.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStarter struct {
	processID string
	variables map[string]interface{}
	err       error
	calls     int
}

func (s *stubStarter) StartProcess(_ context.Context, processID string, variables map[string]interface{}) (int64, error) {
	s.calls++
	s.processID = processID
	s.variables = variables
	if s.err != nil {
		return 0, s.err
	}
	return 42, nil
}

type testEnv struct {
	server  *Server
	dbMock  sqlmock.Sqlmock
	redis   *miniredis.Miniredis
	starter *stubStarter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{}
	cfg.App.Name = "careercompass"
	cfg.Assessment.SectionSize = 2
	cfg.Assessment.DefaultLocale = "ru"
	cfg.Camunda.ScoringProcess = "assessment-scoring"

	store := catalog.NewStore(db, rdb, 10*time.Minute, logger.NewNoOpLogger())
	progress := session.NewProgressStore(rdb, 30*24*time.Hour)
	starter := &stubStarter{}
	server := NewServer(cfg, store, progress, results.NewStore(db), starter, logger.NewNoOpLogger())

	return &testEnv{server: server, dbMock: dbMock, redis: mr, starter: starter}
}

// seedCatalog loads a 4-question assessment (3 scored likert, 1 survey)
// through sqlmock once; later requests hit the redis cache.
func (e *testEnv) seedCatalog(t *testing.T) {
	t.Helper()
	e.dbMock.ExpectQuery("SELECT id, title, description, active").
		WithArgs("career-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "active"}).
			AddRow("career-2026", []byte(`{"ru":"Тест"}`), nil, true))

	options := `[
		{"key":"1","label":{"ru":"Нет"},"weight":0},
		{"key":"3","label":{"ru":"Да"},"weight":2}
	]`
	e.dbMock.ExpectQuery("SELECT id, ord, text, type, options, trait_code, params").
		WithArgs("career-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ord", "text", "type", "options", "trait_code", "params"}).
			AddRow("q1", 1, []byte(`{"ru":"В1"}`), "likert", []byte(options), "R", nil).
			AddRow("q2", 2, []byte(`{"ru":"В2"}`), "likert", []byte(options), "I", nil).
			AddRow("q3", 3, []byte(`{"ru":"В3"}`), "likert", []byte(options), "A", nil).
			AddRow("q4", 4, []byte(`{"ru":"В4"}`), "single_choice", []byte(`[{"key":"a","label":{"ru":"Да"}}]`), nil, []byte(`{"type":"survey"}`)))
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(w, req)
	return w
}

func (e *testEnv) answer(t *testing.T, questionID string) {
	t.Helper()
	w := e.do(http.MethodPut, "/api/v1/assessments/career-2026/session/answers", map[string]interface{}{
		"userId":       "user-1",
		"questionId":   questionID,
		"selectedKeys": []string{"3"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSection_NewSession(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	w := e.do(http.MethodGet, "/api/v1/assessments/career-2026/session?userId=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	section := body["section"].(map[string]interface{})
	assert.Equal(t, float64(0), section["index"])
	assert.Equal(t, float64(2), section["total"])
	assert.Len(t, section["questions"], 2)
	assert.Equal(t, "not_started", body["status"])
}

func TestSection_MissingUserID(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/v1/assessments/career-2026/session", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSection_AssessmentNotFound(t *testing.T) {
	e := newTestEnv(t)
	e.dbMock.ExpectQuery("SELECT id, title, description, active").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "active"}))

	w := e.do(http.MethodGet, "/api/v1/assessments/missing/session?userId=user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ASSESSMENT_NOT_FOUND")
}

func TestSection_InactiveAssessment(t *testing.T) {
	e := newTestEnv(t)
	e.dbMock.ExpectQuery("SELECT id, title, description, active").
		WithArgs("career-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "active"}).
			AddRow("career-2026", []byte(`{"ru":"Тест"}`), nil, false))

	w := e.do(http.MethodGet, "/api/v1/assessments/career-2026/session?userId=user-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ASSESSMENT_INACTIVE")
}

func TestAnswer_PersistsProgress(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	e.answer(t, "q1")

	// Durable state lands under the session key.
	assert.True(t, e.redis.Exists("progress:career-2026:user-1"))
}

func TestAnswer_UnknownOptionKey(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	w := e.do(http.MethodPut, "/api/v1/assessments/career-2026/session/answers", map[string]interface{}{
		"userId":       "user-1",
		"questionId":   "q1",
		"selectedKeys": []string{"99"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ANSWER")
}

func TestAnswer_UnknownQuestion(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	w := e.do(http.MethodPut, "/api/v1/assessments/career-2026/session/answers", map[string]interface{}{
		"userId":       "user-1",
		"questionId":   "nope",
		"selectedKeys": []string{"3"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_QUESTION")
}

func TestAdvance_GatedOnCompleteness(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	w := e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/advance", map[string]interface{}{"userId": "user-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SECTION_INCOMPLETE")

	e.answer(t, "q1")
	e.answer(t, "q2")

	w = e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/advance", map[string]interface{}{"userId": "user-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	section := decode(t, w)["section"].(map[string]interface{})
	assert.Equal(t, float64(1), section["index"])
}

func TestRetreat_AtFirstSection(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)

	w := e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/retreat", map[string]interface{}{"userId": "user-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "OUT_OF_RANGE")
}

func TestSubmit_IncompleteRejected(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	e.answer(t, "q1")

	w := e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/submit", map[string]interface{}{"userId": "user-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SUBMISSION_INCOMPLETE")
	assert.Contains(t, w.Body.String(), "q2")
	assert.Equal(t, 0, e.starter.calls)
}

func TestSubmit_StartsScoringProcess(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	e.answer(t, "q1")
	e.answer(t, "q2")
	e.answer(t, "q3")
	// Survey question q4 stays unanswered; it never gates submission.

	w := e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/submit", map[string]interface{}{
		"userId": "user-1",
		"locale": "kz",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	body := decode(t, w)
	resultID := body["resultId"].(string)
	assert.NotEmpty(t, resultID)
	assert.Equal(t, "processing", body["status"])

	assert.Equal(t, "assessment-scoring", e.starter.processID)
	assert.Equal(t, "career-2026", e.starter.variables["assessmentId"])
	assert.Equal(t, resultID, e.starter.variables["resultId"])
	assert.Equal(t, "kk", e.starter.variables["locale"])
	assert.NotNil(t, e.starter.variables["answers"])

	// Answers survive until persist-result clears them.
	assert.True(t, e.redis.Exists("progress:career-2026:user-1"))
}

func TestSubmit_ProcessStartFailure(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	e.answer(t, "q1")
	e.answer(t, "q2")
	e.answer(t, "q3")
	e.starter.err = fmt.Errorf("zeebe unavailable")

	w := e.do(http.MethodPost, "/api/v1/assessments/career-2026/session/submit", map[string]interface{}{"userId": "user-1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESS_START_FAILED")
}

func TestResult_NotReady(t *testing.T) {
	e := newTestEnv(t)
	e.dbMock.ExpectQuery("SELECT id, assessment_id, user_id").
		WithArgs("r-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := e.do(http.MethodGet, "/api/v1/results/r-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESULT_NOT_FOUND")
}

func TestResult_Found(t *testing.T) {
	e := newTestEnv(t)
	e.dbMock.ExpectQuery("SELECT id, assessment_id, user_id").
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assessment_id", "user_id", "raw_scores", "normalized_scores", "riasec_codes", "profile", "matches", "created_at"}).
			AddRow("r-1", "career-2026", "user-1",
				[]byte(`{"R":6}`), []byte(`{"R":75}`), []byte(`["R","I","A","S","E","C"]`),
				[]byte(`{"riasecCodes":["R","I"],"vectors":{"interests":{"mechanical":75}}}`),
				[]byte(`[{"professionId":"prof-engineer","score":90,"breakdown":{"interests":90,"skills":null,"personality":null,"values":null},"rank":1}]`),
				time.Now()))

	w := e.do(http.MethodGet, "/api/v1/results/r-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "r-1", body["resultId"])
	assert.Equal(t, "career-2026", body["assessmentId"])
}
