package retention

import (
	"math"

	"github.com/conorfennell/studyplan/internal/domain"
)

const (
	DefaultHalfLife = 7.0
	DefaultDays     = 14
)

// Model holds the parameters of the exponential decay curve.
// HalfLife is the decay constant in days; Days is the forecast length.
type Model struct {
	HalfLife float64
	Days     int
}

// DefaultModel returns a model with a 7 day half-life and a 14 day forecast.
func DefaultModel() *Model {
	return &Model{
		HalfLife: DefaultHalfLife,
		Days:     DefaultDays,
	}
}

// Forecast returns the decayed retention for each of the next m.Days days,
// starting at today. Values are not clamped, so a last-studied date in the
// future yields values above rate.
func (m *Model) Forecast(rate float64, lastStudied, today domain.Date) []float64 {
	if m.Days <= 0 {
		return []float64{}
	}
	elapsed := lastStudied.DaysUntil(today)
	forecast := make([]float64, m.Days)
	for d := range forecast {
		forecast[d] = m.decay(rate, elapsed+d)
	}
	return forecast
}

// Current returns the decayed retention at today, the first forecast value.
func (m *Model) Current(rate float64, lastStudied, today domain.Date) float64 {
	return m.decay(rate, lastStudied.DaysUntil(today))
}

// decay applies R = rate * e^(-t/h).
func (m *Model) decay(rate float64, elapsedDays int) float64 {
	halfLife := m.HalfLife
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	return rate * math.Exp(-float64(elapsedDays)/halfLife)
}
