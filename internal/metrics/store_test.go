package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"nutriplan/internal/database"
	"nutriplan/internal/shared"
)

func TestStore(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	store := NewStore(db.SQL)

	t.Run("RecordAndAggregate", func(t *testing.T) {
		records := []GenerationMetric{
			{Method: "ai", Model: "test-model", PromptTokens: 1000, CompletionTokens: 400, LatencyMS: 2500},
			{Method: "ai_repaired", Model: "test-model", Repaired: true, Violations: 3, PromptTokens: 1100, CompletionTokens: 450, LatencyMS: 3100},
			{Method: "deterministic", Model: ""},
		}
		for _, m := range records {
			if err := store.Record(m); err != nil {
				t.Fatalf("Failed to record metric: %v", err)
			}
		}

		usage, err := store.GetMethodUsage(7)
		if err != nil {
			t.Fatalf("Failed to aggregate metrics: %v", err)
		}
		if len(usage) != 3 {
			t.Fatalf("Expected 3 method buckets, got %d", len(usage))
		}

		byMethod := map[string]MethodUsage{}
		for _, u := range usage {
			byMethod[u.Method] = u
		}
		if byMethod["ai"].TotalPrompt != 1000 {
			t.Errorf("Expected 1000 prompt tokens for ai, got %d", byMethod["ai"].TotalPrompt)
		}
		if byMethod["ai_repaired"].Count != 1 {
			t.Errorf("Expected 1 ai_repaired run, got %d", byMethod["ai_repaired"].Count)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		old := GenerationMetric{
			Method:    "ai",
			Model:     "test-model",
			Timestamp: time.Now().AddDate(0, 0, -90),
		}
		if err := store.Record(old); err != nil {
			t.Fatalf("Failed to record old metric: %v", err)
		}

		if err := store.Cleanup(30); err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}

		usage, err := store.GetMethodUsage(365)
		if err != nil {
			t.Fatalf("Failed to aggregate after cleanup: %v", err)
		}
		total := 0
		for _, u := range usage {
			total += u.Count
		}
		if total != 3 {
			t.Errorf("Expected the old record to be removed, leaving 3, got %d", total)
		}
	})
}

func TestMapUsage(t *testing.T) {
	m := MapUsage("ai_repaired", "gemini-2.0-flash", true, 2,
		shared.TokenUsage{PromptTokens: 1200, CompletionTokens: 300, Model: "test-model"},
		1500*time.Millisecond)

	if m.Method != "ai_repaired" || m.Model != "gemini-2.0-flash" {
		t.Errorf("Unexpected identity fields: %+v", m)
	}
	if !m.Repaired || m.Violations != 2 {
		t.Errorf("Unexpected repair fields: %+v", m)
	}
	if m.PromptTokens != 1200 || m.CompletionTokens != 300 || m.LatencyMS != 1500 {
		t.Errorf("Unexpected usage fields: %+v", m)
	}
}
