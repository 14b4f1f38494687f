package srs

import (
	"time"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Revisit cadence per difficulty tier: an already-attempted card is only
	// eligible for a pass when the session's study-session count is a multiple
	// of its tier's cadence. Hard cards have no cadence and resurface every pass.
	RevisitEvery map[domain.Difficulty]int

	// Rating intervals: how far in the future NextReview is pushed per rating.
	ReviewInterval map[domain.Difficulty]time.Duration

	// MasteryThreshold is the consecutive-easy count at which a card counts
	// as mastered in cross-session statistics.
	MasteryThreshold int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	EasyRevisitEvery   int
	NormalRevisitEvery int

	EasyInterval   time.Duration
	NormalInterval time.Duration
	HardInterval   time.Duration

	MasteryThreshold int
}

// NewDefaultParams creates a new Params instance with default values.
// Defaults: easy cards resurface every 5th pass with a 7-day interval, normal
// cards every 2nd pass with a 1-day interval, hard cards every pass with a
// 4-hour interval.
func NewDefaultParams() *Params {
	return &Params{
		RevisitEvery: map[domain.Difficulty]int{
			domain.DifficultyEasy:   5,
			domain.DifficultyNormal: 2,
		},

		ReviewInterval: map[domain.Difficulty]time.Duration{
			domain.DifficultyEasy:   7 * 24 * time.Hour,
			domain.DifficultyNormal: 24 * time.Hour,
			domain.DifficultyHard:   4 * time.Hour,
		},

		MasteryThreshold: 5,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.EasyRevisitEvery > 0 {
		params.RevisitEvery[domain.DifficultyEasy] = config.EasyRevisitEvery
	}
	if config.NormalRevisitEvery > 0 {
		params.RevisitEvery[domain.DifficultyNormal] = config.NormalRevisitEvery
	}

	if config.EasyInterval > 0 {
		params.ReviewInterval[domain.DifficultyEasy] = config.EasyInterval
	}
	if config.NormalInterval > 0 {
		params.ReviewInterval[domain.DifficultyNormal] = config.NormalInterval
	}
	if config.HardInterval > 0 {
		params.ReviewInterval[domain.DifficultyHard] = config.HardInterval
	}

	if config.MasteryThreshold > 0 {
		params.MasteryThreshold = config.MasteryThreshold
	}

	return params
}
