package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError indicates that no JSON object could be recovered from a model
// response, even after all recovery strategies were attempted.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	snippet := e.Raw
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return fmt.Sprintf("could not extract valid JSON from model output: %q", snippet)
}

// recoveryStrategy produces a candidate JSON string from raw model output.
// Returning false means the strategy does not apply to this input.
type recoveryStrategy struct {
	name  string
	apply func(raw string) (string, bool)
}

var (
	codeBlockRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	unquotedKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z0-9_]+)(\s*:)`)
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// recoveryStrategies are attempted in order; the first candidate that parses
// as a JSON object wins. Models are untrusted text generators, so tolerance
// for prose wrappers, code fences and sloppy keys is deliberate and explicit.
var recoveryStrategies = []recoveryStrategy{
	{
		name: "StrictParse",
		apply: func(raw string) (string, bool) {
			return strings.TrimSpace(raw), true
		},
	},
	{
		name: "CodeBlockExtract",
		apply: func(raw string) (string, bool) {
			m := codeBlockRe.FindStringSubmatch(raw)
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	},
	{
		name: "BracketExtract",
		apply: func(raw string) (string, bool) {
			return outermostObject(raw)
		},
	},
	{
		name: "KeyRepair",
		apply: func(raw string) (string, bool) {
			block, ok := outermostObject(raw)
			if !ok {
				return "", false
			}
			return repairKeys(block), true
		},
	},
}

// ExtractJSON recovers a single JSON object from raw model output. It returns
// the first candidate that parses as an object, or *ParseError when every
// recovery strategy has been exhausted.
func ExtractJSON(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Raw: raw}
	}

	for _, strategy := range recoveryStrategies {
		candidate, ok := strategy.apply(raw)
		if !ok {
			continue
		}
		var probe map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, &ParseError{Raw: raw}
}

// outermostObject returns the text from the first '{' to the last '}'.
func outermostObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// repairKeys fixes the malformations small local models produce most often:
// single-quoted strings, unquoted object keys and trailing commas.
func repairKeys(block string) string {
	fixed := strings.ReplaceAll(block, "'", `"`)
	fixed = unquotedKeyRe.ReplaceAllString(fixed, `$1"$2"$3`)
	fixed = trailingComma.ReplaceAllString(fixed, `$1`)
	return fixed
}
