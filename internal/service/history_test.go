package service

import (
	"strings"
	"testing"
	"time"

	"omnicode-gateway/internal/domain"
	"omnicode-gateway/internal/llm"
)

func TestFilterHistoryDropsInformationalTypes(t *testing.T) {
	now := time.Now().UTC()
	history := []domain.Message{
		{Role: domain.RoleAgent, Text: "welcome!", Timestamp: now, Type: domain.TypeWelcomeMessage},
		{Role: domain.RoleUser, Text: "first", Timestamp: now, Type: domain.TypeText},
		{Role: domain.RoleAgent, Text: "connecting...", Timestamp: now, Type: domain.TypeStatusMessage},
		{Role: domain.RoleAgent, Text: "reply", Timestamp: now, Type: domain.TypeAIResponse},
		{Role: domain.RoleUser, Text: "second", Timestamp: now, Type: domain.TypeText},
	}

	turns := FilterHistory(history)

	if len(turns) != 3 {
		t.Fatalf("expected 3 surviving turns, got %d", len(turns))
	}
	// El orden relativo de los sobrevivientes no cambia.
	if turns[0].Text != "first" || turns[1].Text != "reply" || turns[2].Text != "second" {
		t.Fatalf("order not preserved: %+v", turns)
	}
}

func TestFilterHistoryMapsRoles(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Text: "u"},
		{Role: domain.RoleAgent, Text: "a"},
		{Role: "something-else", Text: "x"},
	}

	turns := FilterHistory(history)

	if turns[0].Role != llm.RoleUser {
		t.Fatalf("expected user role preserved, got %q", turns[0].Role)
	}
	if turns[1].Role != llm.RoleModel || turns[2].Role != llm.RoleModel {
		t.Fatalf("expected non-user roles mapped to model: %+v", turns)
	}
}

func TestFilterHistoryEmpty(t *testing.T) {
	if turns := FilterHistory(nil); len(turns) != 0 {
		t.Fatalf("expected empty result, got %+v", turns)
	}
}

func TestSeedContextUsesAllButLastTurn(t *testing.T) {
	filtered := []llm.Turn{
		{Role: llm.RoleUser, Text: "one"},
		{Role: llm.RoleModel, Text: "two"},
		{Role: llm.RoleUser, Text: "three"},
	}

	prior := SeedContext(filtered, "")

	if len(prior) != 2 {
		t.Fatalf("expected 2 prior turns, got %d", len(prior))
	}
	if prior[1].Text != "two" {
		t.Fatalf("expected last turn excluded, got %+v", prior)
	}
}

func TestSeedContextEmptyHistoryGetsPreamble(t *testing.T) {
	prior := SeedContext(nil, "")

	if len(prior) != 2 {
		t.Fatalf("expected two-turn preamble, got %d turns", len(prior))
	}
	if prior[0].Role != llm.RoleUser || !strings.HasPrefix(prior[0].Text, "Context: ") {
		t.Fatalf("expected context user turn, got %+v", prior[0])
	}
	if !strings.Contains(prior[0].Text, "OmniCode Agent") {
		t.Fatalf("expected default persona in preamble, got %q", prior[0].Text)
	}
	if prior[1].Role != llm.RoleModel || prior[1].Text != preambleAck {
		t.Fatalf("expected fixed model acknowledgement, got %+v", prior[1])
	}
}

func TestSeedContextCustomInstruction(t *testing.T) {
	prior := SeedContext(nil, "You are a pirate.")
	if prior[0].Text != "Context: You are a pirate." {
		t.Fatalf("expected configured instruction, got %q", prior[0].Text)
	}
}
