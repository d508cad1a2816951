package metrics

import (
	"context"
	"database/sql"
	"time"

	metricsdb "nutriplan/internal/metrics/metrics_db"
	"nutriplan/internal/shared"
)

// GenerationMetric records metadata for a single plan generation.
type GenerationMetric struct {
	Method           string
	Model            string
	Repaired         bool
	Violations       int
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	repaired := int64(0)
	if m.Repaired {
		repaired = 1
	}

	return s.queries.InsertGenerationMetric(context.Background(), metricsdb.InsertGenerationMetricParams{
		Method:           m.Method,
		Model:            m.Model,
		Repaired:         repaired,
		Violations:       int64(m.Violations),
		PromptTokens:     int64(m.PromptTokens),
		CompletionTokens: int64(m.CompletionTokens),
		LatencyMs:        m.LatencyMS,
		Timestamp:        ts,
	})
}

// MapUsage builds a GenerationMetric from call metadata.
func MapUsage(method, model string, repaired bool, violations int, usage shared.TokenUsage, latency time.Duration) GenerationMetric {
	if model == "" {
		model = usage.Model
	}
	return GenerationMetric{
		Method:           method,
		Model:            model,
		Repaired:         repaired,
		Violations:       violations,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}

// MethodUsage aggregates generations per method.
type MethodUsage struct {
	Method          string
	Count           int
	TotalPrompt     int
	TotalCompletion int
}

// GetMethodUsage returns per-method totals for the last N days.
func (s *Store) GetMethodUsage(days int) ([]MethodUsage, error) {
	since := time.Now().AddDate(0, 0, -days)
	rows, err := s.queries.GetMethodUsage(context.Background(), since)
	if err != nil {
		return nil, err
	}

	var results []MethodUsage
	for _, r := range rows {
		u := MethodUsage{
			Method: r.Method,
			Count:  int(r.Count),
		}
		if r.Sum.Valid {
			u.TotalPrompt = int(r.Sum.Float64)
		}
		if r.Sum_2.Valid {
			u.TotalCompletion = int(r.Sum_2.Float64)
		}
		results = append(results, u)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(olderThanDays int) error {
	threshold := time.Now().AddDate(0, 0, -olderThanDays)
	return s.queries.CleanupGenerationMetrics(context.Background(), threshold)
}
