package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// fakeRepo derives balances from its entry slice, like the real
// repository derives them from the ledger table.
type fakeRepo struct {
	entries []entity.LedgerEntry
}

func (r *fakeRepo) CreateEntries(_ context.Context, entries []entity.LedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeRepo) DeleteEntriesByRecorder(_ context.Context, recorderID id.ID, beforeVersion int) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.RecorderID == recorderID && e.RecorderVersion < beforeVersion {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return nil
}

func (r *fakeRepo) GetEntriesByRecorder(_ context.Context, recorderID id.ID) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range r.entries {
		if e.RecorderID == recorderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetBalance(_ context.Context, itemID id.ID) (entity.StockBalance, error) {
	var qty types.Quantity
	for _, e := range r.entries {
		if e.ItemID == itemID {
			qty += e.SignedQuantity()
		}
	}
	return entity.StockBalance{ItemID: itemID, Quantity: qty}, nil
}

func (r *fakeRepo) GetBalanceForUpdate(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	return r.GetBalance(ctx, itemID)
}

func (r *fakeRepo) GetBalanceAtDate(_ context.Context, itemID id.ID, date time.Time) (types.Quantity, error) {
	var qty types.Quantity
	for _, e := range r.entries {
		if e.ItemID == itemID && !e.Period.After(date) {
			qty += e.SignedQuantity()
		}
	}
	return qty, nil
}

func (r *fakeRepo) GetEntryHistory(_ context.Context, itemID id.ID, _ EntryFilter) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range r.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

func ledgerEntry(recorderID, itemID id.ID, period time.Time, recordType entity.RecordType, qty float64) entity.LedgerEntry {
	return entity.NewLedgerEntry(
		recorderID, "TestDoc", 1, period, recordType,
		itemID, types.NewQuantityFromFloat64(qty),
	)
}

func TestService_OnHandAt(t *testing.T) {
	itemID := id.New()
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{entries: []entity.LedgerEntry{
		ledgerEntry(id.New(), itemID, jan, entity.RecordTypeReceipt, 10),
		ledgerEntry(id.New(), itemID, feb, entity.RecordTypeExpense, 4),
	}}
	svc := NewService(repo)
	ctx := context.Background()

	atJanEnd, err := svc.OnHandAt(ctx, itemID, jan.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), atJanEnd)

	atFebEnd, err := svc.OnHandAt(ctx, itemID, feb.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(6), atFebEnd)

	current, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(6), current)
}

func TestService_EntriesForDocument(t *testing.T) {
	docID := id.New()
	otherDoc := id.New()
	itemID := id.New()
	now := time.Now().UTC()

	repo := &fakeRepo{entries: []entity.LedgerEntry{
		ledgerEntry(docID, itemID, now, entity.RecordTypeReceipt, 3),
		ledgerEntry(docID, itemID, now, entity.RecordTypeReceipt, 2),
		ledgerEntry(otherDoc, itemID, now, entity.RecordTypeExpense, 1),
	}}
	svc := NewService(repo)

	entries, err := svc.EntriesForDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, docID, e.RecorderID)
	}

	none, err := svc.EntriesForDocument(context.Background(), id.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
