package posting

import (
	"stockops/internal/core/id"
)

// Status is the outcome class of a posting attempt.
type Status string

const (
	// StatusPosted - document movements were recorded in this call
	StatusPosted Status = "posted"
	// StatusAlreadyPosted - idempotent no-op, document was posted earlier
	StatusAlreadyPosted Status = "already_posted"
	// StatusFailed - a business rule rejected the posting
	StatusFailed Status = "failed"
	// StatusUnposted - document movements were reversed and the posted
	// flag cleared
	StatusUnposted Status = "unposted"
)

// Reason codes mirror the transactional outcome as an integer channel.
// 0 is a clean success; nonzero identifies the business rule raised
// inside the transaction.
const (
	ReasonNone              = 0
	ReasonAlreadyPosted     = 1
	ReasonInsufficientStock = 2
	ReasonValidation        = 3
	ReasonConflict          = 4
)

// Result is the outcome of a posting attempt. Transient: it is returned
// to the caller and recorded in the audit log, never persisted as state.
type Result struct {
	Status     Status `json:"status"`
	DocumentID id.ID  `json:"documentId"`
	ReasonCode int    `json:"reasonCode"`
}

// IsSuccess reports whether the document is posted after the attempt,
// whether by this call or an earlier one.
func (r Result) IsSuccess() bool {
	return r.Status == StatusPosted || r.Status == StatusAlreadyPosted
}
