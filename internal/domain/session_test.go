package domain

import (
	"testing"

	"github.com/google/uuid"
)

func testDrafts() []DraftCard {
	return []DraftCard{
		{Question: "What is photosynthesis?", Answer: "Conversion of light to chemical energy"},
		{Question: "What is osmosis?", Answer: "Diffusion of water across a membrane"},
		{Question: "What is a cell wall?", Answer: "The rigid outer layer of a plant cell"},
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel() // Enable parallel execution
	drafts := testDrafts()

	session, err := NewSession("Biology", drafts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if session.ID == uuid.Nil {
		t.Error("Expected non-nil session UUID")
	}

	if session.Name != "Biology" {
		t.Errorf("Expected name %q, got %q", "Biology", session.Name)
	}

	if session.TotalCards != len(drafts) {
		t.Errorf("Expected %d total cards, got %d", len(drafts), session.TotalCards)
	}

	if session.CompletedCards != 0 || session.StudySessions != 0 {
		t.Error("Expected counters to start at zero")
	}

	if session.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Every card gets a fresh unique ID
	seen := make(map[uuid.UUID]bool)
	for _, card := range session.Cards {
		if card.ID == uuid.Nil {
			t.Error("Expected every card to get a non-nil ID")
		}
		if seen[card.ID] {
			t.Errorf("Duplicate card ID %s", card.ID)
		}
		seen[card.ID] = true
	}

	// Test empty name
	_, err = NewSession("", drafts)
	if err != ErrSessionNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrSessionNameEmpty, err)
	}

	// Test no drafts
	_, err = NewSession("Biology", nil)
	if err != ErrSessionNoCards {
		t.Errorf("Expected error %v, got %v", ErrSessionNoCards, err)
	}

	// Test invalid draft
	_, err = NewSession("Biology", []DraftCard{{Question: "q"}})
	if err != ErrCardAnswerEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardAnswerEmpty, err)
	}
}

func TestSessionCardLookup(t *testing.T) {
	t.Parallel() // Enable parallel execution
	session, err := NewSession("Biology", testDrafts())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := session.Cards[1].ID
	card := session.Card(want)
	if card == nil {
		t.Fatal("Expected to find card by ID")
	}
	if card.ID != want {
		t.Errorf("Expected card %s, got %s", want, card.ID)
	}

	// The returned pointer aliases the session's slice
	card.ReviewCount = 7
	if session.Cards[1].ReviewCount != 7 {
		t.Error("Expected Card() to return a pointer into the session")
	}

	if session.Card(uuid.New()) != nil {
		t.Error("Expected nil for a card ID not in the session")
	}
}

func TestSessionPatchApply(t *testing.T) {
	t.Parallel() // Enable parallel execution
	session, err := NewSession("Biology", testDrafts())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	name := "Biology II"
	completed := 2
	passes := 4

	SessionPatch{
		Name:           &name,
		CompletedCards: &completed,
		StudySessions:  &passes,
	}.Apply(session)

	if session.Name != name {
		t.Errorf("Expected name %q, got %q", name, session.Name)
	}
	if session.CompletedCards != completed || session.StudySessions != passes {
		t.Error("Expected counters to be patched")
	}

	// Cards replacement is wholesale
	replacement := []FlashCard{session.Cards[0]}
	SessionPatch{Cards: &replacement}.Apply(session)
	if len(session.Cards) != 1 {
		t.Errorf("Expected cards slice to be replaced, got %d cards", len(session.Cards))
	}

	// Empty patch is a no-op
	before := *session
	SessionPatch{}.Apply(session)
	if session.Name != before.Name || session.StudySessions != before.StudySessions {
		t.Error("Expected empty patch to be a no-op")
	}
}
