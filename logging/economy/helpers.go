package economy

import (
	"context"
	"strconv"

	"spuders/engine/logging"
)

const (
	// EventWaveStarted is emitted when the tracker captures a new wave's
	// economic baseline.
	EventWaveStarted logging.EventType = "economy.wave_started"
	// EventDecayStep is emitted for each bounty-batch decay step applied to
	// the target earning rate.
	EventDecayStep logging.EventType = "economy.decay_step"
	// EventBountyDropped is emitted when bounty arrives during a wave whose
	// decay coefficient is undefined (zero projected bounty).
	EventBountyDropped logging.EventType = "economy.bounty_dropped"
	// EventWaveFinalized is emitted when the end-of-wave flush processes the
	// remaining partial bounty batch.
	EventWaveFinalized logging.EventType = "economy.wave_finalized"
)

// WaveStartedPayload captures the per-wave economic setup.
type WaveStartedPayload struct {
	Wave           int     `json:"wave"`
	EarningRate    float64 `json:"earningRate"`
	RequiredRate   float64 `json:"requiredRate"`
	DecayK         float64 `json:"decayK"`
	DecaySuspended bool    `json:"decaySuspended,omitempty"`
}

// DecayStepPayload captures one exponential decay step.
type DecayStepPayload struct {
	Bounty         float64 `json:"bounty"`
	RateBefore     float64 `json:"rateBefore"`
	RateAfter      float64 `json:"rateAfter"`
	TotalTargetR   float64 `json:"totalTargetR"`
	OutstandingR   float64 `json:"outstandingR"`
	EndOfWaveFlush bool    `json:"endOfWaveFlush,omitempty"`
}

// BountyDroppedPayload captures bounty discarded while decay was suspended.
type BountyDroppedPayload struct {
	Wave   int     `json:"wave"`
	Bounty float64 `json:"bounty"`
}

// WaveStarted publishes a wave baseline event.
func WaveStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload WaveStartedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWaveStarted,
		Tick:     tick,
		Actor:    waveRef(payload.Wave),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// DecayStep publishes one decay step.
func DecayStep(ctx context.Context, pub logging.Publisher, tick uint64, wave int, payload DecayStepPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDecayStep,
		Tick:     tick,
		Actor:    waveRef(wave),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// BountyDropped publishes a dropped-bounty warning.
func BountyDropped(ctx context.Context, pub logging.Publisher, tick uint64, payload BountyDroppedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBountyDropped,
		Tick:     tick,
		Actor:    waveRef(payload.Wave),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// WaveFinalized publishes the end-of-wave flush result.
func WaveFinalized(ctx context.Context, pub logging.Publisher, tick uint64, wave int, payload DecayStepPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWaveFinalized,
		Tick:     tick,
		Actor:    waveRef(wave),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

func waveRef(wave int) logging.EntityRef {
	return logging.EntityRef{ID: strconv.Itoa(wave), Kind: logging.EntityKindWave}
}
