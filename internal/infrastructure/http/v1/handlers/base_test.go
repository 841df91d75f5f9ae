package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/domain/posting"
)

func newPostingContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/documents/post", nil)
	return c, rec
}

func TestRespondPosting_Success(t *testing.T) {
	c, rec := newPostingContext(t)
	h := NewBaseHandler()
	docID := id.New()

	h.RespondPosting(c, posting.Result{
		Status:     posting.StatusPosted,
		DocumentID: docID,
	}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "posted", body["status"])
	assert.Equal(t, docID.String(), body["documentId"])
	assert.EqualValues(t, posting.ReasonNone, body["reasonCode"])
}

// A business-rule rejection keeps the {status, reasonCode} contract on
// the 422 response instead of falling through to the error envelope.
func TestRespondPosting_BusinessFailureCarriesReasonCode(t *testing.T) {
	c, rec := newPostingContext(t)
	h := NewBaseHandler()
	docID := id.New()

	result := posting.Result{
		Status:     posting.StatusFailed,
		DocumentID: docID,
		ReasonCode: posting.ReasonInsufficientStock,
	}
	h.RespondPosting(c, result, apperror.NewInsufficientStock(id.New().String(), 5, 2))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, c.Errors)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed", body["status"])
	assert.EqualValues(t, posting.ReasonInsufficientStock, body["reasonCode"])
}

func TestRespondPosting_FaultAbortsIntoErrorEnvelope(t *testing.T) {
	c, _ := newPostingContext(t)
	h := NewBaseHandler()

	h.RespondPosting(c, posting.Result{}, errors.New("connection refused"))

	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)
}
