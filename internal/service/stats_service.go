// Package service contains application services that sit above the domain
// model and the stores.
package service

import (
	"context"
	"log/slog"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/store"
)

// Difficulty weights for the average-difficulty aggregate.
const (
	difficultyWeightEasy   = 1
	difficultyWeightNormal = 2
	difficultyWeightHard   = 3
)

// StudyStats aggregates review state across every session in the collection.
type StudyStats struct {
	TotalSessions     int     `json:"total_sessions"`
	TotalCards        int     `json:"total_cards"`
	CompletedCards    int     `json:"completed_cards"`
	ReviewedCards     int     `json:"reviewed_cards"`
	MasteredCards     int     `json:"mastered_cards"`
	AverageDifficulty float64 `json:"average_difficulty"`
}

// StatsService computes cross-session study statistics.
type StatsService struct {
	repo      store.SessionRepository
	scheduler srs.Service
	logger    *slog.Logger
}

// NewStatsService creates a StatsService. If logger is nil, a default logger
// will be used.
func NewStatsService(repo store.SessionRepository, scheduler srs.Service, logger *slog.Logger) *StatsService {
	if repo == nil {
		panic("session repository cannot be nil")
	}

	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &StatsService{
		repo:      repo,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "stats_service")),
	}
}

// Compute walks the whole collection and aggregates per-card review state.
// A card counts as reviewed once it has been rated at least once, and as
// mastered once its consecutive-easy streak reaches the scheduler's mastery
// threshold. AverageDifficulty weighs easy/normal/hard as 1/2/3 across every
// card, so unrated cards contribute their default normal weight; zero when
// the collection is empty.
func (s *StatsService) Compute(ctx context.Context) (*StudyStats, error) {
	sessions, err := s.repo.GetSessions(ctx)
	if err != nil {
		return nil, err
	}

	stats := &StudyStats{TotalSessions: len(sessions)}
	threshold := s.scheduler.MasteryThreshold()

	weightSum := 0
	for i := range sessions {
		stats.CompletedCards += sessions[i].CompletedCards
		for _, card := range sessions[i].Cards {
			stats.TotalCards++
			weightSum += difficultyWeight(card.Difficulty)

			if card.ReviewCount > 0 {
				stats.ReviewedCards++
			}
			if card.ConsecutiveEasy >= threshold {
				stats.MasteredCards++
			}
		}
	}

	if stats.TotalCards > 0 {
		stats.AverageDifficulty = float64(weightSum) / float64(stats.TotalCards)
	}

	return stats, nil
}

func difficultyWeight(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyEasy:
		return difficultyWeightEasy
	case domain.DifficultyHard:
		return difficultyWeightHard
	default:
		return difficultyWeightNormal
	}
}
