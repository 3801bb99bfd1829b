package strikes

import (
	"context"

	"spuders/engine/logging"
)

const (
	// EventDispatched is emitted when a strike enters flight.
	EventDispatched logging.EventType = "strike.dispatched"
	// EventResolved is emitted when a strike finishes applying damage.
	EventResolved logging.EventType = "strike.resolved"
	// EventRejected is emitted when strike construction validation fails.
	EventRejected logging.EventType = "strike.rejected"
	// EventTelegraphDegraded is emitted when the telegraph visual is skipped
	// because assets or the render sink are unavailable.
	EventTelegraphDegraded logging.EventType = "strike.telegraph_degraded"
	// EventCalibrationFailed is emitted when bomb calibration finds no
	// wear-enabled defense type and forces strength to zero.
	EventCalibrationFailed logging.EventType = "strike.calibration_failed"
)

// DispatchedPayload describes a strike entering flight.
type DispatchedPayload struct {
	TargetX     float64 `json:"targetX"`
	TargetY     float64 `json:"targetY"`
	ImpactX     float64 `json:"impactX"`
	ImpactY     float64 `json:"impactY"`
	Outstanding float64 `json:"outstanding"`
}

// ResolvedPayload describes the damage a strike actually dealt.
type ResolvedPayload struct {
	DamageDealt  float64 `json:"damageDealt"`
	DefensesHit  int     `json:"defensesHit"`
	EnemiesHit   int     `json:"enemiesHit"`
	AverageYield float64 `json:"averageYield"`
	Outstanding  float64 `json:"outstanding"`
	BountyBatch  float64 `json:"bountyBatch"`
	Simulation   bool    `json:"simulation,omitempty"`
}

// RejectedPayload describes why a dispatch was refused.
type RejectedPayload struct {
	Reason string `json:"reason"`
}

// DegradedPayload names the missing piece that degraded the telegraph.
type DegradedPayload struct {
	Missing string `json:"missing"`
}

// Dispatched publishes a strike dispatch event.
func Dispatched(ctx context.Context, pub logging.Publisher, tick uint64, strikeID string, payload DispatchedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDispatched,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: strikeID, Kind: logging.EntityKindStrike},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryStrike,
		Payload:  payload,
		StrikeID: strikeID,
	})
}

// Resolved publishes a strike resolution event.
func Resolved(ctx context.Context, pub logging.Publisher, tick uint64, strikeID string, payload ResolvedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventResolved,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: strikeID, Kind: logging.EntityKindStrike},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryStrike,
		Payload:  payload,
		StrikeID: strikeID,
	})
}

// Rejected publishes a dispatch rejection event.
func Rejected(ctx context.Context, pub logging.Publisher, tick uint64, payload RejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRejected,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindEngine},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryStrike,
		Payload:  payload,
	})
}

// TelegraphDegraded publishes a telegraph degradation event.
func TelegraphDegraded(ctx context.Context, pub logging.Publisher, tick uint64, strikeID string, payload DegradedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTelegraphDegraded,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: strikeID, Kind: logging.EntityKindStrike},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryStrike,
		Payload:  payload,
		StrikeID: strikeID,
	})
}

// CalibrationFailed publishes a calibration failure event.
func CalibrationFailed(ctx context.Context, pub logging.Publisher, tick uint64, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCalibrationFailed,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindEngine},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryStrike,
		Payload:  RejectedPayload{Reason: reason},
	})
}
