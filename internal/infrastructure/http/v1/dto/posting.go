package dto

import (
	"stockops/internal/domain/posting"
)

// PostResultResponse reports the outcome of a post or unpost attempt.
// ReasonCode is zero on a clean pass; a nonzero value names the
// business rule that blocked or qualified the attempt.
type PostResultResponse struct {
	Status     string `json:"status"`
	DocumentID string `json:"documentId"`
	ReasonCode int    `json:"reasonCode"`
}

// FromPostingResult converts an engine result.
func FromPostingResult(r posting.Result) PostResultResponse {
	return PostResultResponse{
		Status:     string(r.Status),
		DocumentID: r.DocumentID.String(),
		ReasonCode: r.ReasonCode,
	}
}
