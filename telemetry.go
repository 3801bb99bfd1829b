package engine

import (
	"math"
	"sync/atomic"
)

// telemetryCounters tracks engine activity for balance-tuning dashboards.
// Counters are atomic so a snapshot can be taken off the tick goroutine.
type telemetryCounters struct {
	strikesDispatched atomic.Uint64
	strikesResolved   atomic.Uint64
	strikesRejected   atomic.Uint64
	gridRebuilds      atomic.Uint64
	decaySteps        atomic.Uint64

	lastStrikeYieldBits atomic.Uint64
	averageYieldBits    atomic.Uint64
	cumulativeDamage    atomic.Uint64
	outstandingBits     atomic.Uint64
}

// TelemetrySnapshot is a point-in-time copy of the engine counters.
type TelemetrySnapshot struct {
	StrikesDispatched uint64  `json:"strikesDispatched"`
	StrikesResolved   uint64  `json:"strikesResolved"`
	StrikesRejected   uint64  `json:"strikesRejected"`
	GridRebuilds      uint64  `json:"gridRebuilds"`
	DecaySteps        uint64  `json:"decaySteps"`
	LastStrikeYield   float64 `json:"lastStrikeYield"`
	AverageYield      float64 `json:"averageYield"`
	CumulativeDamage  float64 `json:"cumulativeDamage"`
	Outstanding       float64 `json:"outstanding"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) IncrementDispatched() {
	if t != nil {
		t.strikesDispatched.Add(1)
	}
}

func (t *telemetryCounters) IncrementRejected() {
	if t != nil {
		t.strikesRejected.Add(1)
	}
}

func (t *telemetryCounters) IncrementRebuilds() {
	if t != nil {
		t.gridRebuilds.Add(1)
	}
}

func (t *telemetryCounters) IncrementDecaySteps() {
	if t != nil {
		t.decaySteps.Add(1)
	}
}

// RecordResolution stores the yield figures from a completed strike.
func (t *telemetryCounters) RecordResolution(deltaR, averageYield, cumulative float64) {
	if t == nil {
		return
	}
	t.strikesResolved.Add(1)
	t.lastStrikeYieldBits.Store(math.Float64bits(deltaR))
	t.averageYieldBits.Store(math.Float64bits(averageYield))
	t.cumulativeDamage.Store(math.Float64bits(cumulative))
}

// RecordOutstanding stores the current destruction debt.
func (t *telemetryCounters) RecordOutstanding(outstanding float64) {
	if t == nil {
		return
	}
	t.outstandingBits.Store(math.Float64bits(outstanding))
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	if t == nil {
		return TelemetrySnapshot{}
	}
	return TelemetrySnapshot{
		StrikesDispatched: t.strikesDispatched.Load(),
		StrikesResolved:   t.strikesResolved.Load(),
		StrikesRejected:   t.strikesRejected.Load(),
		GridRebuilds:      t.gridRebuilds.Load(),
		DecaySteps:        t.decaySteps.Load(),
		LastStrikeYield:   math.Float64frombits(t.lastStrikeYieldBits.Load()),
		AverageYield:      math.Float64frombits(t.averageYieldBits.Load()),
		CumulativeDamage:  math.Float64frombits(t.cumulativeDamage.Load()),
		Outstanding:       math.Float64frombits(t.outstandingBits.Load()),
	}
}
