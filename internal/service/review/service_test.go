package review_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/mocks"
	"github.com/studydeck/studydeck-api/internal/service/review"
	"github.com/studydeck/studydeck-api/internal/store"
)

type fixture struct {
	repo     store.SessionRepository
	progress *mocks.MockProgressStore
	service  review.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	collection := mocks.NewMockCollectionStore()
	repo := store.NewSessionRepository(collection, nil)
	progress := mocks.NewMockProgressStore()
	scheduler := srs.NewServiceWithRand(srs.NewDefaultParams(), rand.New(rand.NewSource(1)))

	return &fixture{
		repo:     repo,
		progress: progress,
		service:  review.NewService(repo, progress, scheduler, nil),
	}
}

func (f *fixture) createSession(t *testing.T, drafts []domain.DraftCard) *domain.Session {
	t.Helper()
	session, err := f.repo.CreateSession(context.Background(), "Biology", drafts)
	require.NoError(t, err)
	return session
}

func textDrafts() []domain.DraftCard {
	return []domain.DraftCard{
		{Question: "What is photosynthesis?", Answer: "Conversion of light to chemical energy"},
		{Question: "What is osmosis?", Answer: "Diffusion of water across a membrane"},
		{Question: "What is a cell wall?", Answer: "The rigid outer layer of a plant cell"},
	}
}

func choiceDraft() domain.DraftCard {
	return domain.DraftCard{
		Question: "Which organelle produces ATP?",
		Answer:   "Mitochondria",
		Type:     domain.CardTypeMultipleChoice,
		Options:  []string{"Mitochondria", "Ribosome", "Nucleus"},
	}
}

func TestStartFreshPass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	view, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, review.StatePresenting, view.State)
	assert.Equal(t, session.ID, view.SessionID)
	assert.Equal(t, 3, view.TotalDue, "all cards of a fresh session are due")
	assert.Equal(t, 1, view.StudySessions, "entering a pass counts it")
	assert.Equal(t, 0, view.AnsweredCount)
	require.NotNil(t, view.Card)

	// The increment is persisted, not just reflected in the view
	stored, err := f.repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StudySessions)
}

func TestStartUnknownSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.Start(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestStartWithEmptyDueSetCompletesImmediately(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	// Mark every card attempted and easy: at study-session count 4 the easy
	// cadence (every 5th pass) suppresses them all.
	answer := "done"
	easy := domain.DifficultyEasy
	for _, card := range session.Cards {
		err := f.repo.UpdateCard(ctx, session.ID, card.ID, domain.CardPatch{
			UserAnswer: &answer,
			Difficulty: &easy,
		})
		require.NoError(t, err)
	}
	passes := 3
	require.NoError(t, f.repo.UpdateSession(ctx, session.ID, domain.SessionPatch{StudySessions: &passes}))

	view, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, review.StateCompleted, view.State)
	assert.Equal(t, 0, view.TotalDue)
	assert.Nil(t, view.Card)
	assert.Equal(t, 4, view.StudySessions, "entering still counts even when nothing is due")
}

func TestMultipleChoiceAnswerScoredImmediately(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, []domain.DraftCard{choiceDraft()})

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	view, err := f.service.SubmitAnswer(ctx, session.ID, "Mitochondria")
	require.NoError(t, err)

	assert.Equal(t, review.StateAnswerRevealed, view.State)
	assert.Equal(t, 1, view.AnsweredCount)
	require.NotNil(t, view.Card)
	require.NotNil(t, view.Card.IsCorrect)
	assert.True(t, *view.Card.IsCorrect)

	// Answer state is persisted through the repository
	stored, err := f.repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	card := stored.Cards[0]
	require.NotNil(t, card.UserAnswer)
	assert.Equal(t, "Mitochondria", *card.UserAnswer)
	assert.Equal(t, 1, card.ReviewCount)
	require.NotNil(t, card.LastReviewed)
}

func TestMultipleChoiceWrongAnswer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, []domain.DraftCard{choiceDraft()})

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	view, err := f.service.SubmitAnswer(ctx, session.ID, "Ribosome")
	require.NoError(t, err)

	require.NotNil(t, view.Card.IsCorrect)
	assert.False(t, *view.Card.IsCorrect)

	// Self-assessment is rejected for scored cards
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
	assert.ErrorIs(t, err, review.ErrNotTextCard)
}

func TestTextCardFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts()[:1])

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	view, err := f.service.SubmitAnswer(ctx, session.ID, "turning light into sugar")
	require.NoError(t, err)
	assert.Equal(t, review.StateAnswerRevealed, view.State)
	assert.Nil(t, view.Card.IsCorrect, "text answers stay unscored until self-assessment")

	// Rating before self-assessment is rejected
	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyEasy)
	assert.ErrorIs(t, err, review.ErrSelfAssessmentRequired)

	view, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
	require.NoError(t, err)
	require.NotNil(t, view.Card.IsCorrect)
	assert.True(t, *view.Card.IsCorrect)

	// Assessing twice is rejected
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, false)
	assert.ErrorIs(t, err, review.ErrAlreadyAssessed)

	view, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, review.StatePresenting, view.State)
	assert.Equal(t, 0, view.CurrentIndex, "single-card pass wraps back to index zero")

	// The rating's scheduling consequences are persisted
	stored, err := f.repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	card := stored.Cards[0]
	assert.Equal(t, domain.DifficultyEasy, card.Difficulty)
	assert.Equal(t, 1, card.ConsecutiveEasy)
	require.NotNil(t, card.NextReview)
}

func TestGuardedTransitions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts()[:1])

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	// While presenting, only answering is legal
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
	assert.ErrorIs(t, err, review.ErrInvalidTransition)

	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyNormal)
	assert.ErrorIs(t, err, review.ErrInvalidTransition)

	_, err = f.service.SubmitAnswer(ctx, session.ID, "   ")
	assert.ErrorIs(t, err, review.ErrEmptyAnswer)

	// While revealed, answering again is not
	_, err = f.service.SubmitAnswer(ctx, session.ID, "an answer")
	require.NoError(t, err)

	_, err = f.service.SubmitAnswer(ctx, session.ID, "another answer")
	assert.ErrorIs(t, err, review.ErrInvalidTransition)
}

func TestOperationsWithoutActivePass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	_, err := f.service.Current(ctx, session.ID)
	assert.ErrorIs(t, err, review.ErrNoActivePass)

	_, err = f.service.SubmitAnswer(ctx, session.ID, "answer")
	assert.ErrorIs(t, err, review.ErrNoActivePass)

	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyHard)
	assert.ErrorIs(t, err, review.ErrNoActivePass)

	// Exiting with no pass is a harmless no-op
	assert.NoError(t, f.service.Exit(ctx, session.ID))
	assert.Equal(t, 0, f.progress.PutCalls)
}

func TestExitCheckpointsAndResumes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	// Work through one card: answer, assess, rate hard (stays due every pass)
	_, err = f.service.SubmitAnswer(ctx, session.ID, "an attempt")
	require.NoError(t, err)
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, false)
	require.NoError(t, err)
	view, err := f.service.RateDifficulty(ctx, session.ID, domain.DifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentIndex)

	require.NoError(t, f.service.Exit(ctx, session.ID))
	assert.Equal(t, 1, f.progress.PutCalls)

	_, err = f.service.Current(ctx, session.ID)
	assert.ErrorIs(t, err, review.ErrNoActivePass)

	// A new pass restores the checkpoint: hard + unattempted cards keep the
	// due set at full size, so the saved index is still valid.
	view, err = f.service.Start(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.StudySessions)
	assert.Equal(t, 3, view.TotalDue)
	assert.Equal(t, 1, view.CurrentIndex)
	assert.Equal(t, 1, view.AnsweredCount, "answered set is restored from the checkpoint")
}

func TestStartClampsStaleCheckpointIndex(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	// A checkpoint pointing past the end of the new, smaller due set
	require.NoError(t, f.progress.Put(ctx, session.ID, &domain.PassProgress{
		CurrentCardIndex: 7,
	}))

	view, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex, "stale index resets to the start")
}

func TestRestartResetsEverything(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts())

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)
	_, err = f.service.SubmitAnswer(ctx, session.ID, "an attempt")
	require.NoError(t, err)
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
	require.NoError(t, err)
	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyEasy)
	require.NoError(t, err)

	view, err := f.service.Restart(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, review.StatePresenting, view.State)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.Equal(t, 0, view.AnsweredCount)
	assert.Equal(t, 3, view.TotalDue, "a restarted session presents the whole deck")
	assert.Equal(t, 0, view.StudySessions)

	// Cards are reset to creation defaults, IDs preserved
	stored, err := f.repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StudySessions)
	assert.Equal(t, 0, stored.CompletedCards)
	for i, card := range stored.Cards {
		assert.Equal(t, session.Cards[i].ID, card.ID, "restart keeps card identity")
		assert.Nil(t, card.UserAnswer)
		assert.Nil(t, card.IsCorrect)
		assert.Nil(t, card.LastReviewed)
		assert.Nil(t, card.NextReview)
		assert.Equal(t, domain.DifficultyNormal, card.Difficulty)
		assert.Equal(t, 0, card.ReviewCount)
		assert.Equal(t, 0, card.ConsecutiveEasy)
	}

	assert.GreaterOrEqual(t, f.progress.DeleteCalls, 1, "restart clears the checkpoint")
}

func TestAdvanceWrapsAroundTheOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts()[:2])

	view, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, view.TotalDue)

	seen := make(map[uuid.UUID]int)
	for i := 0; i < 4; i++ {
		current, err := f.service.Current(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, current.Card)
		seen[current.Card.ID]++

		_, err = f.service.SubmitAnswer(ctx, session.ID, "an attempt")
		require.NoError(t, err)
		_, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
		require.NoError(t, err)
		_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyNormal)
		require.NoError(t, err)
	}

	// Four advances over a two-card order visit each card exactly twice
	require.Len(t, seen, 2)
	for id, count := range seen {
		assert.Equal(t, 2, count, "card %s visited %d times", id, count)
	}
}

func TestEachPresentationNeedsFreshAssessment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := f.createSession(t, textDrafts()[:1])

	_, err := f.service.Start(ctx, session.ID)
	require.NoError(t, err)

	// First presentation: full answer, assessment, rating cycle. With a
	// single card the order wraps straight back to it.
	_, err = f.service.SubmitAnswer(ctx, session.ID, "first attempt")
	require.NoError(t, err)
	_, err = f.service.ConfirmCorrectness(ctx, session.ID, true)
	require.NoError(t, err)
	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyNormal)
	require.NoError(t, err)

	_, err = f.service.SubmitAnswer(ctx, session.ID, "second attempt")
	require.NoError(t, err)

	// The earlier verdict does not carry over to the new presentation.
	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyHard)
	assert.ErrorIs(t, err, review.ErrSelfAssessmentRequired)

	view, err := f.service.ConfirmCorrectness(ctx, session.ID, false)
	require.NoError(t, err)
	require.NotNil(t, view.Card.IsCorrect)
	assert.False(t, *view.Card.IsCorrect)

	_, err = f.service.RateDifficulty(ctx, session.ID, domain.DifficultyHard)
	require.NoError(t, err)
}
