// internal/session/store_test.go
package session

import (
	"context"
	"testing"
	"time"

	"careercompass-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ProgressStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProgressStore(client, 30*24*time.Hour), mr
}

func TestProgressStore_SaveLoad(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	progress := models.NewTestProgress("career-2026", "user-1")
	progress.CurrentSectionIndex = 2
	progress.Status = models.StatusInProgress
	progress.Answers = models.AnswerSet{
		"q13": {"4": 3},
		"q14": {"2": 1},
		"q15": {"a": 2, "c": 3},
	}

	require.NoError(t, store.Save(ctx, progress))
	assert.True(t, mr.Exists("progress:career-2026:user-1"))

	loaded, err := store.Load(ctx, "career-2026", "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.CurrentSectionIndex)
	assert.Equal(t, models.StatusInProgress, loaded.Status)
	assert.Equal(t, progress.Answers, loaded.Answers)
}

func TestProgressStore_LoadAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(context.Background(), "career-2026", "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestProgressStore_SaveSetsTTL(t *testing.T) {
	store, mr := newTestStore(t)

	progress := models.NewTestProgress("career-2026", "user-1")
	require.NoError(t, store.Save(context.Background(), progress))
	assert.Equal(t, 30*24*time.Hour, mr.TTL("progress:career-2026:user-1"))
}

func TestProgressStore_Clear(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	progress := models.NewTestProgress("career-2026", "user-1")
	require.NoError(t, store.Save(ctx, progress))
	require.NoError(t, store.Clear(ctx, "career-2026", "user-1"))
	assert.False(t, mr.Exists("progress:career-2026:user-1"))

	// Clearing an absent key is not an error.
	require.NoError(t, store.Clear(ctx, "career-2026", "user-1"))
}

// Reloading mid-section restores the exact answers saved so far and the
// section is still reported incomplete until the rest are answered.
func TestProgressStore_ResumeMidSection(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	questions := makeQuestions(12)

	progress := models.NewTestProgress("career-2026", "user-1")
	answerSection(t, progress, questions, 0, 3)
	require.NoError(t, store.Save(ctx, progress))

	resumed, err := store.Load(ctx, "career-2026", "user-1")
	require.NoError(t, err)
	require.NotNil(t, resumed)
	assert.Equal(t, 0, resumed.CurrentSectionIndex)
	assert.Len(t, resumed.Answers, 3)

	complete, err := IsComplete(questions, resumed, DefaultSectionSize)
	require.NoError(t, err)
	assert.False(t, complete)

	var incomplete *SectionIncompleteError
	require.ErrorAs(t, Advance(questions, resumed, DefaultSectionSize), &incomplete)
	assert.Equal(t, []string{"q4", "q5", "q6"}, incomplete.Unanswered)
}
