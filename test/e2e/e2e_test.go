// test/e2e/e2e_test.go

// End to end run of the scoring pipeline against real backends. Requires
// postgres, redis, elasticsearch and a Zeebe broker on their default local
// ports; set E2E_TESTS=1 to enable.
package e2e

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/database"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/models"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"

	buildprofile "careercompass-workers/internal/workers/assessment/build-profile"
	matchprofessions "careercompass-workers/internal/workers/assessment/match-professions"
	persistresult "careercompass-workers/internal/workers/assessment/persist-result"
	scoretraits "careercompass-workers/internal/workers/assessment/score-traits"
	validatesubmission "careercompass-workers/internal/workers/assessment/validate-submission"
	loadassessment "careercompass-workers/internal/workers/data-access/load-assessment"
)

const (
	e2eAssessmentID = "e2e-riasec"
	e2eUserID       = "e2e-user-1"
)

func TestScoringPipelineE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("set E2E_TESTS=1 to run against real backends")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"

	zapLog, _ := zap.NewDevelopment()
	log := logger.NewZapAdapter(zapLog)

	pg, rdb := connectBackends(t, ctx, cfg)
	defer pg.Close()
	defer rdb.Close()

	createTables(t, ctx, pg)
	seedCatalog(t, ctx, pg)

	catalogStore := catalog.NewStore(pg.DB, rdb.Client, time.Minute, log)
	progressStore := session.NewProgressStore(rdb.Client, time.Hour)
	resultStore := results.NewStore(pg.DB)

	resultID := fmt.Sprintf("e2e-result-%d", time.Now().UnixNano())

	// A submitted session must survive in redis until persist-result clears it.
	progress := models.NewTestProgress(e2eAssessmentID, e2eUserID)
	progress.Answers = fullAnswerSet()
	progress.Status = models.StatusSubmitted
	require.NoError(t, progressStore.Save(ctx, progress))

	// 1. load-assessment
	loaded, err := loadassessment.NewHandler(&loadassessment.Config{Timeout: 10 * time.Second}, catalogStore, log).
		Execute(ctx, &loadassessment.Input{
			AssessmentID: e2eAssessmentID,
			UserID:       e2eUserID,
			ResultID:     resultID,
		})
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 6)
	assert.Equal(t, 6, loaded.ScoredCount)

	// 2. validate-submission
	validated, err := validatesubmission.NewHandler(&validatesubmission.Config{}, log).
		Execute(ctx, &validatesubmission.Input{
			AssessmentID: e2eAssessmentID,
			UserID:       e2eUserID,
			Questions:    loaded.Questions,
			Answers:      progress.Answers,
		})
	require.NoError(t, err)
	assert.True(t, validated.Valid)

	// 3. score-traits
	scored, err := scoretraits.NewHandler(&scoretraits.Config{}, log).
		Execute(ctx, &scoretraits.Input{
			AssessmentID: e2eAssessmentID,
			UserID:       e2eUserID,
			Questions:    loaded.Questions,
			Answers:      progress.Answers,
		})
	require.NoError(t, err)
	require.Len(t, scored.RiasecCodes, 6)
	assert.Equal(t, models.TraitRealistic, scored.RiasecCodes[0])

	// 4. build-profile
	profiled, err := buildprofile.NewHandler(&buildprofile.Config{}, log).
		Execute(ctx, &buildprofile.Input{
			AssessmentID:     e2eAssessmentID,
			UserID:           e2eUserID,
			NormalizedScores: scored.NormalizedScores,
		})
	require.NoError(t, err)
	assert.Equal(t, "RI", profiled.RiasecCode)

	// 5. match-professions
	matched, err := matchprofessions.NewHandler(&matchprofessions.Config{TopN: 10}, catalogStore, log).
		Execute(ctx, &matchprofessions.Input{
			AssessmentID: e2eAssessmentID,
			UserID:       e2eUserID,
			Profile:      profiled.Profile,
		})
	require.NoError(t, err)
	require.NotEmpty(t, matched.Matches)
	assert.Equal(t, 1, matched.Matches[0].Rank)

	// 6. persist-result
	persisted, err := persistresult.NewHandler(&persistresult.Config{}, resultStore, progressStore, log).
		Execute(ctx, &persistresult.Input{
			ResultID:         resultID,
			AssessmentID:     e2eAssessmentID,
			UserID:           e2eUserID,
			RawScores:        scored.RawScores,
			NormalizedScores: scored.NormalizedScores,
			RiasecCodes:      scored.RiasecCodes,
			Profile:          profiled.Profile,
			Matches:          matched.Matches,
		})
	require.NoError(t, err)
	assert.True(t, persisted.Persisted)

	// The bundle is readable and the progress key is gone.
	bundle, err := resultStore.Get(ctx, resultID)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, scored.RiasecCodes, bundle.RiasecCodes)

	remaining, err := progressStore.Load(ctx, e2eAssessmentID, e2eUserID)
	require.NoError(t, err)
	assert.Nil(t, remaining)
}

func TestBrokerConnectivity(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("set E2E_TESTS=1 to run against real backends")
	}

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.NewTopologyCommand().Send(context.Background())
	require.NoError(t, err)

	deployProcesses(t, client)
}

func TestSearchIndexConnectivity(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("set E2E_TESTS=1 to run against real backends")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	})
	require.NoError(t, err)

	res, err := es.Info()
	require.NoError(t, err)
	defer res.Body.Close()
	assert.False(t, res.IsError())
}

func connectBackends(t *testing.T, ctx context.Context, cfg *config.Config) (*database.PostgresClient, *database.RedisClient) {
	t.Helper()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	require.NoError(t, pg.Ping(ctx))

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	require.NoError(t, rdb.Ping(ctx))

	return pg, rdb
}

func createTables(t *testing.T, ctx context.Context, pg *database.PostgresClient) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id VARCHAR(255) PRIMARY KEY,
			title JSONB NOT NULL,
			description JSONB,
			active BOOLEAN DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id VARCHAR(255) PRIMARY KEY,
			assessment_id VARCHAR(255) REFERENCES assessments(id),
			ord INTEGER NOT NULL,
			text JSONB NOT NULL,
			type VARCHAR(50) NOT NULL,
			options JSONB NOT NULL,
			trait_code VARCHAR(10),
			params JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS professions (
			id VARCHAR(255) PRIMARY KEY,
			name JSONB NOT NULL,
			description JSONB,
			category VARCHAR(100),
			archetype JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id VARCHAR(255) PRIMARY KEY,
			assessment_id VARCHAR(255) NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			raw_scores JSONB NOT NULL,
			normalized_scores JSONB NOT NULL,
			riasec_codes JSONB NOT NULL,
			profile JSONB NOT NULL,
			matches JSONB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255),
			phone VARCHAR(50)
		)`,
	}
	for _, stmt := range statements {
		_, err := pg.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, pg *database.PostgresClient) {
	t.Helper()

	_, err := pg.DB.ExecContext(ctx, `
		INSERT INTO assessments (id, title, description, active)
		VALUES ($1, '{"ru":"РИАСЕК"}', '{}', true)
		ON CONFLICT (id) DO UPDATE SET active = true`, e2eAssessmentID)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `DELETE FROM questions WHERE assessment_id = $1`, e2eAssessmentID)
	require.NoError(t, err)

	options := `[
		{"key":"1","label":{"ru":"Нет"},"weight":0},
		{"key":"3","label":{"ru":"Иногда"},"weight":2},
		{"key":"5","label":{"ru":"Да"},"weight":4}
	]`
	for i, trait := range models.CanonicalTraitOrder {
		_, err = pg.DB.ExecContext(ctx, `
			INSERT INTO questions (id, assessment_id, ord, text, type, options, trait_code)
			VALUES ($1, $2, $3, $4, 'likert', $5, $6)`,
			fmt.Sprintf("e2e-q%d", i+1), e2eAssessmentID, i+1,
			fmt.Sprintf(`{"ru":"Вопрос %d"}`, i+1), options, string(trait))
		require.NoError(t, err)
	}

	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO professions (id, name, category, archetype)
		VALUES ('e2e-prof-engineer', '{"ru":"Инженер"}', 'engineering',
			'{"interests":{"mechanical":85,"technical":75},"skills":{"mechanical":80}}')
		ON CONFLICT (id) DO NOTHING`)
	require.NoError(t, err)
}

// fullAnswerSet answers all six questions, strongest agreement on the
// realistic question so the top code is deterministic.
func fullAnswerSet() models.AnswerSet {
	answers := models.AnswerSet{
		"e2e-q1": {"5": 4},
	}
	for i := 2; i <= 6; i++ {
		answers[fmt.Sprintf("e2e-q%d", i)] = models.Answer{"3": 2}
	}
	return answers
}

func deployProcesses(t *testing.T, client zbc.Client) {
	t.Helper()

	entries, err := os.ReadDir("../../bpmn")
	if err != nil {
		t.Log("bpmn directory not found, skipping deployment")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".bpmn") {
			continue
		}
		_, err := client.NewDeployResourceCommand().
			AddResourceFile("../../bpmn/" + entry.Name()).
			Send(context.Background())
		require.NoError(t, err, "deploy %s", entry.Name())
	}
}
