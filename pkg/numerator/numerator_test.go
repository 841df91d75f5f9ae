package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_NextNumber_Format(t *testing.T) {
	svc := New(NewMemoryStore())
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	number, err := svc.NextNumber(context.Background(), "Receipt", date)
	require.NoError(t, err)
	assert.Equal(t, "RC-2026-00001", number)

	number, err = svc.NextNumber(context.Background(), "Receipt", date)
	require.NoError(t, err)
	assert.Equal(t, "RC-2026-00002", number)
}

func TestService_NextNumber_ScopesByTypeAndYear(t *testing.T) {
	svc := New(NewMemoryStore())
	ctx := context.Background()
	in2026 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in2027 := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	rc, err := svc.NextNumber(ctx, "Receipt", in2026)
	require.NoError(t, err)
	sh, err := svc.NextNumber(ctx, "Shipment", in2026)
	require.NoError(t, err)
	rcNext, err := svc.NextNumber(ctx, "Receipt", in2027)
	require.NoError(t, err)

	assert.Equal(t, "RC-2026-00001", rc)
	assert.Equal(t, "SH-2026-00001", sh)
	assert.Equal(t, "RC-2027-00001", rcNext)
}

func TestService_NextNumber_UnknownTypeFallsBack(t *testing.T) {
	svc := New(NewMemoryStore())

	number, err := svc.NextNumber(context.Background(), "Adjustment", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "DOC-2026-00001", number)
}
