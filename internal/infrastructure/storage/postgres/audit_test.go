package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockops/internal/core/id"
	"stockops/internal/domain/posting"
)

func TestActionForPosting(t *testing.T) {
	docID := id.New()

	assert.Equal(t, AuditActionPost, actionForPosting(posting.Result{
		Status:     posting.StatusPosted,
		DocumentID: docID,
	}))
	assert.Equal(t, AuditActionPost, actionForPosting(posting.Result{
		Status:     posting.StatusFailed,
		DocumentID: docID,
		ReasonCode: posting.ReasonInsufficientStock,
	}))
	assert.Equal(t, AuditActionUnpost, actionForPosting(posting.Result{
		Status:     posting.StatusUnposted,
		DocumentID: docID,
	}))
}
