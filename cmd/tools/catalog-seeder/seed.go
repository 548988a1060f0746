// cmd/tools/catalog-seeder/seed.go
package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"careercompass-workers/internal/models"
)

const professionsIndex = "professions"

// seedSchema rejects malformed seed files before any backend is touched.
// Option weights and archetype vectors are checked structurally here and
// semantically by the scoring pipeline.
const seedSchema = `{
	"type": "object",
	"properties": {
		"assessments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title", "questions"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "object"},
					"description": {"type": "object"},
					"active": {"type": "boolean"},
					"questions": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["id", "order", "text", "type", "options"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"order": {"type": "integer", "minimum": 1},
								"text": {"type": "object"},
								"type": {"enum": ["likert", "single_choice", "multiple_choice"]},
								"options": {"type": "array", "minItems": 1},
								"traitCode": {"type": "string"},
								"params": {"type": "object"}
							}
						}
					}
				}
			}
		},
		"professions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "archetype"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"name": {"type": "object"},
					"description": {"type": "object"},
					"category": {"type": "string"},
					"archetype": {"type": "object"}
				}
			}
		}
	}
}`

type seedAssessment struct {
	models.Assessment
	Questions []models.Question `json:"questions"`
}

type seedData struct {
	Assessments []seedAssessment    `json:"assessments"`
	Professions []models.Profession `json:"professions"`
}

func loadSeedFile(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}
	if !result.Valid() {
		var details string
		for _, e := range result.Errors() {
			details += fmt.Sprintf("\n  - %s: %s", e.Field(), e.Description())
		}
		return nil, fmt.Errorf("seed file invalid:%s", details)
	}

	var seed seedData
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &seed, nil
}

type importer struct {
	db  *sql.DB
	log *zap.Logger
}

func newImporter(db *sql.DB, log *zap.Logger) *importer {
	return &importer{db: db, log: log}
}

// importSeed upserts all seed content in a single transaction so a partial
// import never leaves a half-updated catalog behind.
func (i *importer) importSeed(ctx context.Context, seed *seedData) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, a := range seed.Assessments {
		if err := i.upsertAssessment(ctx, tx, a); err != nil {
			return err
		}
	}
	for _, p := range seed.Professions {
		if err := i.upsertProfession(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (i *importer) upsertAssessment(ctx context.Context, tx *sql.Tx, a seedAssessment) error {
	title, _ := json.Marshal(a.Title)
	description, _ := json.Marshal(a.Description)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO assessments (id, title, description, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			active = EXCLUDED.active`,
		a.ID, title, description, a.Active)
	if err != nil {
		return fmt.Errorf("upsert assessment %s: %w", a.ID, err)
	}

	// Republishing replaces the full question set; stale questions from an
	// earlier revision must not linger.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM questions WHERE assessment_id = $1`, a.ID); err != nil {
		return fmt.Errorf("clear questions for %s: %w", a.ID, err)
	}

	for _, q := range a.Questions {
		text, _ := json.Marshal(q.Text)
		options, _ := json.Marshal(q.Options)
		var params []byte
		if q.Params != nil {
			params, _ = json.Marshal(q.Params)
		}
		var traitCode sql.NullString
		if q.TraitCode != "" {
			traitCode = sql.NullString{String: string(q.TraitCode), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO questions (id, assessment_id, ord, text, type, options, trait_code, params)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			q.ID, a.ID, q.Order, text, string(q.Type), options, traitCode, params)
		if err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}

	i.log.Info("Assessment imported",
		zap.String("assessment_id", a.ID),
		zap.Int("questions", len(a.Questions)))
	return nil
}

func (i *importer) upsertProfession(ctx context.Context, tx *sql.Tx, p models.Profession) error {
	name, _ := json.Marshal(p.Name)
	description, _ := json.Marshal(p.Description)
	archetype, _ := json.Marshal(p.Archetype)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO professions (id, name, description, category, archetype)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			archetype = EXCLUDED.archetype`,
		p.ID, name, description, p.Category, archetype)
	if err != nil {
		return fmt.Errorf("upsert profession %s: %w", p.ID, err)
	}
	return nil
}

// indexProfessions mirrors the profession catalog into the search index.
// Documents keep per-locale name and description fields so full text
// queries can target a single locale.
func indexProfessions(ctx context.Context, es *elasticsearch.Client, professions []models.Profession, log *zap.Logger) error {
	for _, p := range professions {
		doc := map[string]interface{}{
			"name": map[string]string{
				"kk": p.Name.KK,
				"ru": p.Name.RU,
				"en": p.Name.EN,
			},
			"description": map[string]string{
				"kk": p.Description.KK,
				"ru": p.Description.RU,
				"en": p.Description.EN,
			},
			"category": p.Category,
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode profession %s: %w", p.ID, err)
		}

		req := esapi.IndexRequest{
			Index:      professionsIndex,
			DocumentID: p.ID,
			Body:       bytes.NewReader(body),
			Refresh:    "false",
		}
		res, err := req.Do(ctx, es)
		if err != nil {
			return fmt.Errorf("index profession %s: %w", p.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index profession %s: %s", p.ID, res.Status())
		}
	}

	log.Info("Professions indexed", zap.Int("count", len(professions)))
	return nil
}
