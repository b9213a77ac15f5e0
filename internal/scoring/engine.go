package scoring

import (
	"fmt"
	"time"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Score filters records to period relative to now, totals them and returns
// the score with the ranked expense breakdown. The records are not retained.
func Score(records []models.Transaction, period models.Period, now time.Time) (models.ScoreSummary, error) {
	if !period.Valid() {
		return models.ScoreSummary{}, fmt.Errorf("score: %w %q", models.ErrInvalidPeriod, period)
	}

	inPeriod := Filter(records, period, now)
	totals := Aggregate(inPeriod)

	return models.ScoreSummary{
		Score:         Compute(totals),
		TotalIncome:   totals.Income,
		TotalExpenses: totals.Expenses,
		Period:        period,
		TopExpenses:   TopExpenses(inPeriod, MaxTopExpenses),
	}, nil
}

// ScoreString is Score for a selector given as text, as received from callers.
func ScoreString(records []models.Transaction, period string, now time.Time) (models.ScoreSummary, error) {
	p, err := models.ParsePeriod(period)
	if err != nil {
		return models.ScoreSummary{}, fmt.Errorf("score: %w", err)
	}
	return Score(records, p, now)
}

// Engine scores against a clock. The clock is read once per call; the rest
// of the work is the same as Score.
type Engine struct {
	clock func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the source of the evaluation instant.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine returns an Engine using the wall clock unless WithClock is given.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current evaluation instant.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// Score scores records for period at the clock's current instant.
func (e *Engine) Score(records []models.Transaction, period models.Period) (models.ScoreSummary, error) {
	return Score(records, period, e.clock())
}
