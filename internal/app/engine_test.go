package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"mbti-quiz-service/internal/app"
	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/content"
	"mbti-quiz-service/internal/domain"
	"mbti-quiz-service/internal/infra/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 22, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...app.Option) (*app.Service, *memory.HistoryStore) {
	t.Helper()
	history := memory.NewHistoryStore()
	catalogs := memory.NewCatalogRepository(memory.NewDefaultCatalogLoader(), 5*time.Minute)
	ids := 0
	base := []app.Option{
		app.WithClock(func() time.Time { return fixedNow }),
		app.WithSampler(catalog.NewSamplerWithSource(rand.New(rand.NewSource(1)))),
		app.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("result-%d", ids)
		}),
	}
	return app.NewService(catalogs, history, content.Default(), append(base, opts...)...), history
}

func TestStartSessionSamplesTier(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	assert.Equal(t, app.StateIdle, engine.State())

	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))
	assert.Equal(t, app.StateInProgress, engine.State())
	assert.Len(t, engine.Questions(), 20)

	progress := engine.Progress()
	assert.Equal(t, domain.Progress{Tier: domain.TierBasic, Cursor: 0, Answered: 0, Total: 20}, progress)

	require.NoError(t, engine.StartSession(ctx, domain.TierProfessional))
	assert.Len(t, engine.Questions(), 93)
}

func TestStartSessionUnknownTier(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.NewEngine().StartSession(context.Background(), "easy")
	assert.ErrorIs(t, err, domain.ErrUnknownTier)
}

func TestRecordAnswerUpserts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))

	id := engine.Questions()[0].ID
	require.NoError(t, engine.RecordAnswer(id, 2))
	require.NoError(t, engine.RecordAnswer(id, 5))

	assert.Equal(t, []domain.Answer{{StatementID: id, Score: 5}}, engine.Answers())
	assert.Equal(t, 1, engine.Progress().Answered)
}

func TestRecordAnswerRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))

	id := engine.Questions()[0].ID
	require.NoError(t, engine.RecordAnswer(id, 4))

	for _, score := range []int{0, 6, -1} {
		err := engine.RecordAnswer(id, score)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, []domain.Answer{{StatementID: id, Score: 4}}, engine.Answers())
}

func TestRecordAnswerRequiresSession(t *testing.T) {
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	assert.ErrorIs(t, engine.RecordAnswer(1, 3), domain.ErrNoActiveSession)

	_, err := engine.Finalize(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestNavigateClamps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()

	assert.Equal(t, 0, engine.Navigate(app.Next), "idle engine has nowhere to go")

	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))
	assert.Equal(t, 0, engine.Navigate(app.Previous))
	for i := 0; i < 30; i++ {
		engine.Navigate(app.Next)
	}
	assert.Equal(t, 19, engine.Navigate(app.Next))
	assert.Equal(t, 18, engine.Navigate(app.Previous))

	current, ok := engine.Current()
	require.True(t, ok)
	assert.Equal(t, engine.Questions()[18], current)
}

func TestFinalizeAllFirstPole(t *testing.T) {
	ctx := context.Background()
	svc, history := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))

	// Agree with first-pole statements, disagree with second-pole ones.
	for _, q := range engine.Questions() {
		score := 5
		if q.Polarity < 0 {
			score = 1
		}
		require.NoError(t, engine.RecordAnswer(q.ID, score))
	}

	result, err := engine.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ESTJ", result.Type)
	assert.Equal(t, domain.Scores{E: 100, S: 100, T: 100, J: 100}, result.Scores)
	assert.Equal(t, domain.TierBasic, result.Tier)
	assert.Equal(t, fixedNow, result.CreatedAt)
	assert.Equal(t, app.StateFinalized, engine.State())

	stored, _ := history.LoadAll(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, result, stored[0])

	assert.ErrorIs(t, engine.RecordAnswer(engine.Questions()[0].ID, 3), domain.ErrNoActiveSession)
}

func TestFinalizeWithoutAnswers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierStandard))

	result, err := engine.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ESTJ", result.Type)
	assert.Equal(t, domain.Scores{E: 100, S: 100, T: 100, J: 100}, result.Scores)
}

func TestFinalizeAgainReproducesScores(t *testing.T) {
	ctx := context.Background()
	svc, history := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierStandard))
	for i, q := range engine.Questions() {
		require.NoError(t, engine.RecordAnswer(q.ID, 1+i%5))
	}

	first, err := engine.Finalize(ctx)
	require.NoError(t, err)
	second, err := engine.Finalize(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Type, second.Type)
	assert.NotEqual(t, first.ID, second.ID)

	stored, _ := history.LoadAll(ctx)
	require.Len(t, stored, 2)
	assert.Equal(t, second.ID, stored[0].ID)
}

func TestFinalizeIgnoresAnswersOutsideSample(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))

	// Statement 93 exists only in the professional catalog.
	require.NoError(t, engine.RecordAnswer(93, 5))
	assert.Equal(t, 0, engine.Progress().Answered)

	result, err := engine.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Scores{E: 100, S: 100, T: 100, J: 100}, result.Scores)
}

func TestRestartDiscardsAnswers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))
	require.NoError(t, engine.RecordAnswer(engine.Questions()[0].ID, 1))
	engine.Navigate(app.Next)

	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))
	assert.Empty(t, engine.Answers())
	assert.Equal(t, 0, engine.Progress().Cursor)
}

func TestFinalizeSurvivesHistoryFailure(t *testing.T) {
	ctx := context.Background()
	catalogs := memory.NewCatalogRepository(memory.NewDefaultCatalogLoader(), time.Minute)
	svc := app.NewService(catalogs, failingHistory{}, nil)
	engine := svc.NewEngine()
	require.NoError(t, engine.StartSession(ctx, domain.TierBasic))

	result, err := engine.Finalize(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Len(t, result.Type, 4)
}

func TestParseDirection(t *testing.T) {
	dir, err := app.ParseDirection("next")
	require.NoError(t, err)
	assert.Equal(t, app.Next, dir)

	_, err = app.ParseDirection("sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingHistory struct{}

var errHistoryDown = errors.New("history down")

func (failingHistory) Append(context.Context, domain.Result) error { return errHistoryDown }

func (failingHistory) LoadAll(context.Context) ([]domain.Result, error) { return nil, errHistoryDown }

func (failingHistory) Clear(context.Context) error { return errHistoryDown }
