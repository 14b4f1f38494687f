package srs

import (
	"time"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// isDueForPass decides whether a single card is eligible for the pass that is
// starting. studySessions must already include the increment for this pass.
//
// Selection rule:
//   - A card that has never been attempted is always eligible.
//   - A card rated easy is eligible only every RevisitEvery[easy]-th pass.
//   - A card rated normal is eligible only every RevisitEvery[normal]-th pass.
//   - A card rated hard is always eligible.
//
// Harder cards resurface every pass; easy cards are suppressed most passes to
// avoid over-drilling mastered material. NextReview deliberately plays no part
// here: pass eligibility is driven purely by the study-session count and the
// difficulty tier, while NextReview serves the separate due-at query.
func isDueForPass(card *domain.FlashCard, studySessions int, params *Params) bool {
	if !card.Attempted() {
		return true
	}

	every, ok := params.RevisitEvery[card.Difficulty]
	if !ok {
		// Hard cards (and any tier without a cadence) resurface every pass.
		return true
	}

	return studySessions%every == 0
}

// dueForPass returns the subset of the session's cards eligible for a pass,
// in card order. The result is evaluated once, when the pass begins.
func dueForPass(session *domain.Session, params *Params) []domain.FlashCard {
	due := make([]domain.FlashCard, 0, len(session.Cards))
	for i := range session.Cards {
		if isDueForPass(&session.Cards[i], session.StudySessions, params) {
			due = append(due, session.Cards[i])
		}
	}
	return due
}

// rate computes the scheduling consequences of a difficulty rating.
//
//   - easy: NextReview pushed out by the easy interval, ConsecutiveEasy
//     incremented.
//   - normal and hard: NextReview pushed out by the tier's interval,
//     ConsecutiveEasy reset to zero.
func rate(card *domain.FlashCard, difficulty domain.Difficulty, now time.Time, params *Params) ReviewUpdate {
	update := ReviewUpdate{
		NextReview: now.Add(params.ReviewInterval[difficulty]),
	}

	if difficulty == domain.DifficultyEasy {
		update.ConsecutiveEasy = card.ConsecutiveEasy + 1
	} else {
		update.ConsecutiveEasy = 0
	}

	return update
}

// dueAt returns the session's cards whose NextReview is absent or not after
// asOf. This backs the cross-session "what's due" query and is independent of
// the pass eligibility rule above.
func dueAt(session *domain.Session, asOf time.Time) []domain.FlashCard {
	due := make([]domain.FlashCard, 0, len(session.Cards))
	for i := range session.Cards {
		card := &session.Cards[i]
		if card.NextReview == nil || !card.NextReview.After(asOf) {
			due = append(due, *card)
		}
	}
	return due
}
