// internal/catalog/store.go

// Package catalog loads assessment and profession reference data from
// postgres with a redis cache-aside layer. The catalog is read-mostly; the
// seeder invalidates keys after an import.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	assessmentKeyPrefix = "catalog:assessment:"
	questionsKeyPrefix  = "catalog:questions:"
	professionsKey      = "catalog:professions"
)

type Store struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// Assessment returns the assessment definition, or (nil, nil) when no
// assessment with that id exists.
func (s *Store) Assessment(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	cacheKey := assessmentKeyPrefix + assessmentID
	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var a models.Assessment
		if err := json.Unmarshal([]byte(val), &a); err == nil {
			return &a, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, active
		FROM assessments WHERE id = $1`, assessmentID)

	var a models.Assessment
	var title, description []byte
	err := row.Scan(&a.ID, &title, &description, &a.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load assessment %s: %w", assessmentID, err)
	}

	if err := json.Unmarshal(title, &a.Title); err != nil {
		return nil, fmt.Errorf("decode assessment %s title: %w", assessmentID, err)
	}
	if len(description) > 0 {
		if err := json.Unmarshal(description, &a.Description); err != nil {
			return nil, fmt.Errorf("decode assessment %s description: %w", assessmentID, err)
		}
	}

	s.cache(ctx, cacheKey, &a)
	return &a, nil
}

// Questions returns the assessment's questions in presentation order.
func (s *Store) Questions(ctx context.Context, assessmentID string) ([]models.Question, error) {
	cacheKey := questionsKeyPrefix + assessmentID
	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var questions []models.Question
		if err := json.Unmarshal([]byte(val), &questions); err == nil {
			return questions, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ord, text, type, options, trait_code, params
		FROM questions WHERE assessment_id = $1 ORDER BY ord`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("load questions for %s: %w", assessmentID, err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var text, options, params []byte
		var traitCode sql.NullString
		if err := rows.Scan(&q.ID, &q.Order, &text, &q.Type, &options, &traitCode, &params); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(text, &q.Text); err != nil {
			return nil, fmt.Errorf("decode question %s text: %w", q.ID, err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode question %s options: %w", q.ID, err)
		}
		if traitCode.Valid {
			q.TraitCode = models.TraitCode(traitCode.String)
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &q.Params); err != nil {
				return nil, fmt.Errorf("decode question %s params: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions for %s: %w", assessmentID, err)
	}

	s.cache(ctx, cacheKey, questions)
	return questions, nil
}

// Professions returns the full profession catalog with archetype vectors.
func (s *Store) Professions(ctx context.Context) ([]models.Profession, error) {
	if val, err := s.redis.Get(ctx, professionsKey).Result(); err == nil {
		var professions []models.Profession
		if err := json.Unmarshal([]byte(val), &professions); err == nil {
			return professions, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category, archetype
		FROM professions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load professions: %w", err)
	}
	defer rows.Close()

	var professions []models.Profession
	for rows.Next() {
		var p models.Profession
		var name, description, archetype []byte
		if err := rows.Scan(&p.ID, &name, &description, &p.Category, &archetype); err != nil {
			return nil, fmt.Errorf("scan profession: %w", err)
		}
		if err := json.Unmarshal(name, &p.Name); err != nil {
			return nil, fmt.Errorf("decode profession %s name: %w", p.ID, err)
		}
		if len(description) > 0 {
			if err := json.Unmarshal(description, &p.Description); err != nil {
				return nil, fmt.Errorf("decode profession %s description: %w", p.ID, err)
			}
		}
		if err := json.Unmarshal(archetype, &p.Archetype); err != nil {
			return nil, fmt.Errorf("decode profession %s archetype: %w", p.ID, err)
		}
		professions = append(professions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professions: %w", err)
	}

	s.cache(ctx, professionsKey, professions)
	return professions, nil
}

// Invalidate drops the cached catalog entries. Called after a seeder import.
func (s *Store) Invalidate(ctx context.Context, assessmentIDs ...string) error {
	keys := []string{professionsKey}
	for _, id := range assessmentIDs {
		keys = append(keys, assessmentKeyPrefix+id, questionsKeyPrefix+id)
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// cache failures only lose the cache-aside benefit, never the read.
func (s *Store) cache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}
