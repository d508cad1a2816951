package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	t.Run("CleanJSON", func(t *testing.T) {
		raw, err := ExtractJSON(`{"title": "Plan", "days": []}`)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("Extracted JSON does not parse: %v", err)
		}
		if parsed["title"] != "Plan" {
			t.Errorf("Expected title 'Plan', got %v", parsed["title"])
		}
	})

	t.Run("WrappedInProse", func(t *testing.T) {
		raw, err := ExtractJSON(`Here is the plan: {"title": "Plan"} Thanks!`)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("Extracted JSON does not parse: %v", err)
		}
		if parsed["title"] != "Plan" {
			t.Errorf("Expected title 'Plan', got %v", parsed["title"])
		}
	})

	t.Run("MarkdownCodeFence", func(t *testing.T) {
		input := "Sure!\n```json\n{\"title\": \"Plan\"}\n```\n"
		raw, err := ExtractJSON(input)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("Extracted JSON does not parse: %v", err)
		}
	})

	t.Run("UnquotedKey", func(t *testing.T) {
		raw, err := ExtractJSON(`{title: "Plan", "goal": "maintenance"}`)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("Repaired JSON does not parse: %v", err)
		}
		if parsed["title"] != "Plan" {
			t.Errorf("Expected title 'Plan', got %v", parsed["title"])
		}
	})

	t.Run("TrailingCommaAndSingleQuotes", func(t *testing.T) {
		raw, err := ExtractJSON(`{'title': 'Plan', 'days': [1, 2, 3,],}`)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("Repaired JSON does not parse: %v", err)
		}
	})

	t.Run("NoJSONAtAll", func(t *testing.T) {
		_, err := ExtractJSON("I could not produce a meal plan, sorry.")
		if err == nil {
			t.Fatal("Expected a ParseError, got nil")
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Expected *ParseError, got %T", err)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := ExtractJSON("   ")
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Expected *ParseError for empty input, got %v", err)
		}
	})
}
