// internal/catalog/store_test.go
package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, redismock.ClientMock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	store := NewStore(db, rdb, 10*time.Minute, logger.NewNoOpLogger())
	return store, dbMock, redisMock
}

func TestAssessment_CacheMiss(t *testing.T) {
	store, dbMock, redisMock := newTestStore(t)

	title := []byte(`{"kk":"Мамандық тесті","ru":"Тест профессий","en":"Career test"}`)
	description := []byte(`{"ru":"Описание"}`)

	redisMock.ExpectGet("catalog:assessment:career-2026").RedisNil()
	dbMock.ExpectQuery("SELECT id, title, description, active").
		WithArgs("career-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "active"}).
			AddRow("career-2026", title, description, true))
	redisMock.Regexp().ExpectSet("catalog:assessment:career-2026", `.*`, 10*time.Minute).SetVal("OK")

	a, err := store.Assessment(context.Background(), "career-2026")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "career-2026", a.ID)
	assert.True(t, a.Active)
	assert.Equal(t, "Тест профессий", a.Title.In(models.LocaleRU))
	assert.Equal(t, "Career test", a.Title.In(models.LocaleEN))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAssessment_CacheHit(t *testing.T) {
	store, dbMock, redisMock := newTestStore(t)

	cached := models.Assessment{ID: "career-2026", Active: true}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	redisMock.ExpectGet("catalog:assessment:career-2026").SetVal(string(data))

	a, err := store.Assessment(context.Background(), "career-2026")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "career-2026", a.ID)

	// No database round trip on a cache hit.
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAssessment_NotFound(t *testing.T) {
	store, dbMock, redisMock := newTestStore(t)

	redisMock.ExpectGet("catalog:assessment:missing").RedisNil()
	dbMock.ExpectQuery("SELECT id, title, description, active").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "active"}))

	a, err := store.Assessment(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestQuestions_DecodesLegacyLocaleKey(t *testing.T) {
	store, dbMock, redisMock := newTestStore(t)

	options := []byte(`[
		{"key":"1","label":{"ru":"Не нравится"},"weight":0},
		{"key":"5","label":{"ru":"Очень нравится"},"weight":4}
	]`)

	redisMock.ExpectGet("catalog:questions:career-2026").RedisNil()
	dbMock.ExpectQuery("SELECT id, ord, text, type, options, trait_code, params").
		WithArgs("career-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ord", "text", "type", "options", "trait_code", "params"}).
			AddRow("q1", 1, []byte(`{"kz":"Сұрақ","ru":"Вопрос"}`), "likert", options, "R", nil).
			AddRow("q2", 2, []byte(`{"ru":"Опрос"}`), "single_choice", []byte(`[{"key":"a","label":{"ru":"Да"}}]`), nil, []byte(`{"topic":"background"}`)))
	redisMock.Regexp().ExpectSet("catalog:questions:career-2026", `.*`, 10*time.Minute).SetVal("OK")

	questions, err := store.Questions(context.Background(), "career-2026")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	// Legacy "kz" key lands in the kk field.
	assert.Equal(t, "Сұрақ", questions[0].Text.In(models.LocaleKK))
	assert.Equal(t, models.TraitRealistic, questions[0].TraitCode)
	assert.True(t, questions[0].Scored())

	assert.Equal(t, models.TraitCode(""), questions[1].TraitCode)
	assert.False(t, questions[1].Scored())
	assert.Equal(t, "background", questions[1].Params["topic"])

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProfessions(t *testing.T) {
	store, dbMock, redisMock := newTestStore(t)

	archetype := []byte(`{
		"interests":{"mechanical":80,"technical":70},
		"skills":{"manual_dexterity":75},
		"personality":{"practical":85},
		"values":{"stability":60}
	}`)

	redisMock.ExpectGet("catalog:professions").RedisNil()
	dbMock.ExpectQuery("SELECT id, name, description, category, archetype").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "category", "archetype"}).
			AddRow("prof-engineer", []byte(`{"ru":"Инженер","en":"Engineer"}`), nil, "engineering", archetype))
	redisMock.Regexp().ExpectSet("catalog:professions", `.*`, 10*time.Minute).SetVal("OK")

	professions, err := store.Professions(context.Background())
	require.NoError(t, err)
	require.Len(t, professions, 1)

	p := professions[0]
	assert.Equal(t, "prof-engineer", p.ID)
	assert.Equal(t, "engineering", p.Category)
	assert.Equal(t, 80.0, p.Archetype.Interests["mechanical"])
	assert.Equal(t, 60.0, p.Archetype.Values["stability"])

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	store, _, redisMock := newTestStore(t)

	redisMock.ExpectDel("catalog:professions", "catalog:assessment:career-2026", "catalog:questions:career-2026").SetVal(3)

	err := store.Invalidate(context.Background(), "career-2026")
	require.NoError(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
