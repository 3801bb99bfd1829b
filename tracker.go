package engine

import (
	"context"
	"math"

	"spuders/engine/logging"
	loggingeconomy "spuders/engine/logging/economy"
)

// economicTracker computes how much cumulative economic destruction is owed
// to the player. Time-based decay of the target earning rate is converted
// into bounty-batch-based decay: each batch of B* earned bounty applies one
// exponential step, which keeps the update cost O(kills) instead of
// O(frames). Running totals are monotone and persist across waves; only
// ResetForNewGame clears them.
type economicTracker struct {
	pub       logging.Publisher
	waves     WaveSource
	economy   EconomySource
	telemetry *telemetryCounters

	waveNumber      int
	decayK          float64
	decayValid      bool
	rnAtWaveStart   float64
	rnCheckpoint    float64
	bountyAccum     float64
	bountyThreshold float64

	totalTargetDestruction float64
	cumulativeBombDamage   float64
}

func newEconomicTracker(waves WaveSource, economy EconomySource, pub logging.Publisher, telemetry *telemetryCounters) *economicTracker {
	if pub == nil {
		pub = logging.NopPublisher{}
	}
	return &economicTracker{
		pub:             pub,
		waves:           waves,
		economy:         economy,
		telemetry:       telemetry,
		bountyThreshold: math.Inf(1),
	}
}

// startWave captures the wave's economic baseline and derives the decay
// coefficient K = dn·Tn / Bn from the wave-balance formula
//
//	dn = (f-1)/T0 + (1/Tn)·(1 - f/γn)
//
// with T0 = L/s_min and γn = T(n+1)/Tn, clamped to ≥ 0. A wave with no
// projected bounty leaves K undefined and suspends destruction tracking for
// the wave; bounty earned during it is dropped with a warning.
func (t *economicTracker) startWave(n int, earningRate float64, tick uint64) {
	if t == nil {
		return
	}
	t.waveNumber = n
	t.rnAtWaveStart = earningRate
	t.rnCheckpoint = earningRate
	t.bountyAccum = 0
	t.decayK = 0
	t.decayValid = false

	requiredRate := t.requiredDestructionRate(n)
	waveDuration := 0.0
	waveBounty := 0.0
	if t.waves != nil {
		waveDuration = t.waves.WaveDurationSeconds(n)
		waveBounty = t.waves.WaveTotalBounty(n)
	}
	if requiredRate >= 0 && waveBounty > epsilon {
		t.decayK = requiredRate * waveDuration / waveBounty
		t.decayValid = true
	}

	loggingeconomy.WaveStarted(context.Background(), t.pub, tick, loggingeconomy.WaveStartedPayload{
		Wave:           n,
		EarningRate:    earningRate,
		RequiredRate:   requiredRate,
		DecayK:         t.decayK,
		DecaySuspended: !t.decayValid,
	})
}

// requiredDestructionRate computes dn, or -1 when collaborator data is not
// ready (zero path length, speed, or wave duration).
func (t *economicTracker) requiredDestructionRate(n int) float64 {
	if t.waves == nil || t.economy == nil {
		return -1
	}
	pathLength := t.economy.TotalPathLength()
	minSpeed := t.economy.MinimumEnemySpeed()
	if pathLength <= epsilon || minSpeed <= epsilon {
		return -1
	}
	interval := pathLength / minSpeed
	duration := t.waves.WaveDurationSeconds(n)
	next := t.waves.WaveDurationSeconds(n + 1)
	if duration <= epsilon || next <= epsilon {
		return -1
	}
	growth := t.waves.DifficultyIncreaseFactor()
	ratio := next / duration
	rate := (growth-1)/interval + (1/duration)*(1-growth/ratio)
	if rate < 0 {
		rate = 0
	}
	return rate
}

// recordBounty accumulates earned bounty and applies every complete decay
// batch in one pass.
func (t *economicTracker) recordBounty(bounty float64, tick uint64) {
	if t == nil || bounty <= 0 {
		return
	}
	if !t.decayValid {
		loggingeconomy.BountyDropped(context.Background(), t.pub, tick, loggingeconomy.BountyDroppedPayload{
			Wave:   t.waveNumber,
			Bounty: bounty,
		})
		return
	}
	t.bountyAccum += bounty
	for !math.IsInf(t.bountyThreshold, 1) && t.bountyThreshold > epsilon && t.bountyAccum >= t.bountyThreshold {
		t.applyDecayStep(t.bountyThreshold, false, tick)
	}
}

// finalizeWave flushes the remaining partial batch so no fractional
// destruction is lost between waves.
func (t *economicTracker) finalizeWave(tick uint64) {
	if t == nil {
		return
	}
	if t.decayValid && t.bountyAccum > epsilon {
		t.applyDecayStep(t.bountyAccum, true, tick)
	}
	t.bountyAccum = 0
}

func (t *economicTracker) applyDecayStep(bounty float64, flush bool, tick uint64) {
	before := t.rnCheckpoint
	after := before * math.Exp(-t.decayK*bounty)
	t.totalTargetDestruction += before - after
	t.rnCheckpoint = after
	t.bountyAccum -= bounty
	if t.telemetry != nil {
		t.telemetry.IncrementDecaySteps()
	}

	payload := loggingeconomy.DecayStepPayload{
		Bounty:         bounty,
		RateBefore:     before,
		RateAfter:      after,
		TotalTargetR:   t.totalTargetDestruction,
		OutstandingR:   t.outstanding(),
		EndOfWaveFlush: flush,
	}
	if flush {
		loggingeconomy.WaveFinalized(context.Background(), t.pub, tick, t.waveNumber, payload)
	} else {
		loggingeconomy.DecayStep(context.Background(), t.pub, tick, t.waveNumber, payload)
	}
}

// recordStrikeDamage adds a strike's actual ΔR to the cumulative total.
func (t *economicTracker) recordStrikeDamage(deltaR float64) {
	if t == nil || deltaR <= 0 {
		return
	}
	t.cumulativeBombDamage += deltaR
}

// setBountyThreshold installs a recomputed B*. +Inf suspends further decay
// until yield data improves.
func (t *economicTracker) setBountyThreshold(threshold float64) {
	if t == nil {
		return
	}
	t.bountyThreshold = threshold
}

// outstanding is the destruction still owed: both terms are non-decreasing,
// so the debt only grows until a strike closes the gap.
func (t *economicTracker) outstanding() float64 {
	if t == nil {
		return 0
	}
	owed := t.totalTargetDestruction - t.cumulativeBombDamage
	if owed < 0 {
		return 0
	}
	return owed
}

// resetForNewGame reinitializes the session-scoped fields. Configuration and
// calibration are owned by the engine and persist.
func (t *economicTracker) resetForNewGame() {
	if t == nil {
		return
	}
	t.waveNumber = 0
	t.decayK = 0
	t.decayValid = false
	t.rnAtWaveStart = 0
	t.rnCheckpoint = 0
	t.bountyAccum = 0
	t.totalTargetDestruction = 0
	t.cumulativeBombDamage = 0
}
