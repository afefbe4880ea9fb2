// Package audit captures tamper-evident records of ledger mutations.
//
// Every successful mutation emits one event through the Publisher. In
// production the postgres store writes events to a transactional outbox
// drained to Kafka by the worker; tests and development use the in-memory
// store directly.
package audit

import (
	"time"

	"github.com/google/uuid"

	id "pensionledger/pkg/domain"
)

// Action names a ledger mutation.
type Action string

const (
	// Allocation ledger.
	ActionAssetClassAdded   Action = "asset_class_added"
	ActionAllocationUpdated Action = "allocation_updated"
	ActionAssetValueUpdated Action = "asset_value_updated"
	ActionFundTotalUpdated  Action = "fund_total_updated"

	// Benefit ledger.
	ActionRetireeRegistered    Action = "retiree_registered"
	ActionRetireeStatusUpdated Action = "retiree_status_updated"
	ActionPaymentRecorded      Action = "payment_recorded"
)

// Event is emitted from ledger services to capture a committed mutation.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	// Actor is the caller identity that performed the mutation.
	Actor id.Identity `json:"actor"`
	// Subject keys the mutated record: an asset class id or retiree id.
	Subject string `json:"subject"`
	Action  Action `json:"action"`
	// Detail carries operation-specific values (amounts, percentages) in a
	// small key=value form for the compliance trail.
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
