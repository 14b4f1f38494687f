package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/store"
)

// pass is the in-memory state of one active review pass. Card data itself
// always lives in the repository; the pass tracks only order and position.
type pass struct {
	sessionID uuid.UUID
	order     []uuid.UUID
	index     int
	answered  map[uuid.UUID]struct{}
	state     State

	// assessed marks whether the current presentation has a correctness
	// verdict. It resets on every advance; the persisted IsCorrect only
	// carries the most recent verdict.
	assessed bool
}

// Verify interface compliance at compile time
var _ Service = (*reviewService)(nil)

// reviewService implements the Service interface. All pass state is held in
// memory and guarded by a single mutex; only checkpoints and card mutations
// reach the stores.
type reviewService struct {
	repo      store.SessionRepository
	progress  store.ProgressStore
	scheduler srs.Service
	logger    *slog.Logger
	timeFunc  func() time.Time

	mu     sync.Mutex
	passes map[uuid.UUID]*pass
}

// NewService creates a review Service backed by the given repository,
// progress store, and scheduler. If logger is nil, a default logger is used.
func NewService(
	repo store.SessionRepository,
	progress store.ProgressStore,
	scheduler srs.Service,
	logger *slog.Logger,
) Service {
	if repo == nil {
		panic("session repository cannot be nil")
	}

	if progress == nil {
		panic("progress store cannot be nil")
	}

	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewService{
		repo:      repo,
		progress:  progress,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "review_service")),
		timeFunc:  time.Now,
		passes:    make(map[uuid.UUID]*pass),
	}
}

// Start implements Service.Start.
func (s *reviewService) Start(ctx context.Context, sessionID uuid.UUID) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "start", Message: "failed to load session", Err: err}
	}

	// The pass counts from the moment it is entered, so the incremented
	// count both persists and feeds the eligibility rule below.
	studySessions := session.StudySessions + 1
	if err := s.repo.UpdateSession(ctx, sessionID, domain.SessionPatch{
		StudySessions: &studySessions,
	}); err != nil {
		return nil, &ServiceError{Operation: "start", Message: "failed to record pass entry", Err: err}
	}
	session.StudySessions = studySessions

	due, err := s.scheduler.DueForPass(session)
	if err != nil {
		return nil, &ServiceError{Operation: "start", Message: "failed to select due cards", Err: err}
	}

	ordered := s.scheduler.PresentationOrder(due)
	order := make([]uuid.UUID, len(ordered))
	dueIDs := make(map[uuid.UUID]struct{}, len(ordered))
	for i := range ordered {
		order[i] = ordered[i].ID
		dueIDs[ordered[i].ID] = struct{}{}
	}

	p := &pass{
		sessionID: sessionID,
		order:     order,
		answered:  make(map[uuid.UUID]struct{}),
		state:     StatePresenting,
	}

	if checkpoint, err := s.progress.Get(ctx, sessionID); err == nil {
		p.index = checkpoint.CurrentCardIndex
		for _, id := range checkpoint.AnsweredCardIDs {
			if _, ok := dueIDs[id]; ok {
				p.answered[id] = struct{}{}
			}
		}
	} else if !store.IsNotFoundError(err) {
		return nil, &ServiceError{Operation: "start", Message: "failed to restore checkpoint", Err: err}
	}

	// The order is re-rolled on every entry, so a saved index can point past
	// the end of the new, possibly smaller, due set.
	if p.index < 0 || p.index >= len(order) {
		p.index = 0
	}

	if len(order) == 0 {
		p.state = StateCompleted
	}

	s.passes[sessionID] = p

	s.logger.Info("review pass started",
		slog.String("session_id", sessionID.String()),
		slog.Int("study_sessions", studySessions),
		slog.Int("due_cards", len(order)))

	return s.buildView(session, p), nil
}

// Current implements Service.Current.
func (s *reviewService) Current(ctx context.Context, sessionID uuid.UUID) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.passes[sessionID]
	if !ok {
		return nil, ErrNoActivePass
	}

	return s.view(ctx, "current", p)
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *reviewService) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	rawAnswer string,
) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.passes[sessionID]
	if !ok {
		return nil, ErrNoActivePass
	}

	if p.state != StatePresenting {
		return nil, fmt.Errorf("submit answer in state %q: %w", p.state, ErrInvalidTransition)
	}

	if strings.TrimSpace(rawAnswer) == "" {
		return nil, ErrEmptyAnswer
	}

	session, card, err := s.currentCard(ctx, "submit_answer", p)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()
	reviewCount := card.ReviewCount + 1
	patch := domain.CardPatch{
		UserAnswer:   &rawAnswer,
		LastReviewed: &now,
		ReviewCount:  &reviewCount,
	}

	// Multiple-choice cards are scored by exact match against the stored
	// answer. Text cards are left unscored until the user self-assesses.
	if card.Type == domain.CardTypeMultipleChoice {
		correct := rawAnswer == card.Answer
		patch.IsCorrect = &correct
	}

	if err := s.repo.UpdateCard(ctx, sessionID, card.ID, patch); err != nil {
		return nil, &ServiceError{Operation: "submit_answer", Message: "failed to persist answer", Err: err}
	}
	patch.Apply(card)

	p.answered[card.ID] = struct{}{}
	p.assessed = card.Type == domain.CardTypeMultipleChoice
	p.state = StateAnswerRevealed

	return s.buildView(session, p), nil
}

// ConfirmCorrectness implements Service.ConfirmCorrectness.
func (s *reviewService) ConfirmCorrectness(
	ctx context.Context,
	sessionID uuid.UUID,
	correct bool,
) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.passes[sessionID]
	if !ok {
		return nil, ErrNoActivePass
	}

	if p.state != StateAnswerRevealed {
		return nil, fmt.Errorf("self-assessment in state %q: %w", p.state, ErrInvalidTransition)
	}

	session, card, err := s.currentCard(ctx, "confirm_correctness", p)
	if err != nil {
		return nil, err
	}

	if card.Type != domain.CardTypeText {
		return nil, ErrNotTextCard
	}

	if p.assessed {
		return nil, ErrAlreadyAssessed
	}

	patch := domain.CardPatch{IsCorrect: &correct}
	if err := s.repo.UpdateCard(ctx, sessionID, card.ID, patch); err != nil {
		return nil, &ServiceError{Operation: "confirm_correctness", Message: "failed to persist assessment", Err: err}
	}
	patch.Apply(card)
	p.assessed = true

	return s.buildView(session, p), nil
}

// RateDifficulty implements Service.RateDifficulty.
func (s *reviewService) RateDifficulty(
	ctx context.Context,
	sessionID uuid.UUID,
	difficulty domain.Difficulty,
) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.passes[sessionID]
	if !ok {
		return nil, ErrNoActivePass
	}

	if p.state != StateAnswerRevealed {
		return nil, fmt.Errorf("rating in state %q: %w", p.state, ErrInvalidTransition)
	}

	session, card, err := s.currentCard(ctx, "rate_difficulty", p)
	if err != nil {
		return nil, err
	}

	if card.Type == domain.CardTypeText && !p.assessed {
		return nil, ErrSelfAssessmentRequired
	}

	now := s.timeFunc().UTC()
	update, err := s.scheduler.Rate(card, difficulty, now)
	if err != nil {
		return nil, err
	}

	patch := domain.CardPatch{
		Difficulty:      &difficulty,
		NextReview:      &update.NextReview,
		ConsecutiveEasy: &update.ConsecutiveEasy,
	}
	if err := s.repo.UpdateCard(ctx, sessionID, card.ID, patch); err != nil {
		return nil, &ServiceError{Operation: "rate_difficulty", Message: "failed to persist rating", Err: err}
	}
	patch.Apply(card)

	// Advance wraps past the end so a pass never runs out of cards; cards
	// answered this pass simply come around again until the user exits.
	// Each presentation starts with a clean assessment.
	p.index = (p.index + 1) % len(p.order)
	p.assessed = false
	p.state = StatePresenting

	return s.buildView(session, p), nil
}

// Restart implements Service.Restart.
func (s *reviewService) Restart(ctx context.Context, sessionID uuid.UUID) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "restart", Message: "failed to load session", Err: err}
	}

	reset := make([]domain.FlashCard, len(session.Cards))
	for i, card := range session.Cards {
		reset[i] = domain.FlashCard{
			ID:         card.ID,
			Question:   card.Question,
			Answer:     card.Answer,
			Type:       card.Type,
			Options:    card.Options,
			Difficulty: domain.DifficultyNormal,
			CreatedAt:  card.CreatedAt,
			Source:     card.Source,
		}
	}

	zero := 0
	if err := s.repo.UpdateSession(ctx, sessionID, domain.SessionPatch{
		Cards:          &reset,
		CompletedCards: &zero,
		StudySessions:  &zero,
	}); err != nil {
		return nil, &ServiceError{Operation: "restart", Message: "failed to reset session", Err: err}
	}
	session.Cards = reset
	session.CompletedCards = 0
	session.StudySessions = 0

	if err := s.progress.Delete(ctx, sessionID); err != nil {
		return nil, &ServiceError{Operation: "restart", Message: "failed to clear checkpoint", Err: err}
	}

	// Freshly reset cards are all unattempted, so the whole deck is due.
	ordered := s.scheduler.PresentationOrder(reset)
	order := make([]uuid.UUID, len(ordered))
	for i := range ordered {
		order[i] = ordered[i].ID
	}

	p := &pass{
		sessionID: sessionID,
		order:     order,
		answered:  make(map[uuid.UUID]struct{}),
		state:     StatePresenting,
	}
	s.passes[sessionID] = p

	s.logger.Info("session restarted",
		slog.String("session_id", sessionID.String()),
		slog.Int("total_cards", len(order)))

	return s.buildView(session, p), nil
}

// Exit implements Service.Exit.
func (s *reviewService) Exit(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.passes[sessionID]
	if !ok {
		return nil
	}

	answered := make([]uuid.UUID, 0, len(p.answered))
	for id := range p.answered {
		answered = append(answered, id)
	}

	checkpoint := &domain.PassProgress{
		CurrentCardIndex: p.index,
		AnsweredCardIDs:  answered,
		LastAccessed:     s.timeFunc().UTC(),
	}
	if err := s.progress.Put(ctx, sessionID, checkpoint); err != nil {
		return &ServiceError{Operation: "exit", Message: "failed to save checkpoint", Err: err}
	}

	delete(s.passes, sessionID)

	s.logger.Info("review pass exited",
		slog.String("session_id", sessionID.String()),
		slog.Int("card_index", p.index),
		slog.Int("answered", len(answered)))

	return nil
}

// view reloads the session and snapshots the pass. Callers must hold the mutex.
func (s *reviewService) view(ctx context.Context, op string, p *pass) (*PassView, error) {
	session, err := s.repo.GetSession(ctx, p.sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		return nil, &ServiceError{Operation: op, Message: "failed to load session", Err: err}
	}
	return s.buildView(session, p), nil
}

// currentCard reloads the session and resolves the card at the pass position.
// Callers must hold the mutex.
func (s *reviewService) currentCard(
	ctx context.Context,
	op string,
	p *pass,
) (*domain.Session, *domain.FlashCard, error) {
	session, err := s.repo.GetSession(ctx, p.sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, nil, err
		}
		return nil, nil, &ServiceError{Operation: op, Message: "failed to load session", Err: err}
	}

	card := session.Card(p.order[p.index])
	if card == nil {
		return nil, nil, store.ErrCardNotFound
	}

	return session, card, nil
}

func (s *reviewService) buildView(session *domain.Session, p *pass) *PassView {
	view := &PassView{
		SessionID:     session.ID,
		SessionName:   session.Name,
		State:         p.state,
		StudySessions: session.StudySessions,
		TotalDue:      len(p.order),
		CurrentIndex:  p.index,
		AnsweredCount: len(p.answered),
	}

	if p.state != StateCompleted {
		if card := session.Card(p.order[p.index]); card != nil {
			copied := *card
			view.Card = &copied
		}
	}

	return view
}
