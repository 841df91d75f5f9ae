package posting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/registers/stock"
)

// fakeLedgerRepo is an in-memory stock.Repository. Balances are derived
// from entries on every read, so a restored snapshot is always consistent.
type fakeLedgerRepo struct {
	entries []entity.LedgerEntry
}

func (r *fakeLedgerRepo) CreateEntries(_ context.Context, entries []entity.LedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeLedgerRepo) DeleteEntriesByRecorder(_ context.Context, recorderID id.ID, beforeVersion int) error {
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

func (r *fakeLedgerRepo) GetEntriesByRecorder(_ context.Context, recorderID id.ID) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range r.entries {
		if e.RecorderID == recorderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) GetBalance(_ context.Context, itemID id.ID) (entity.StockBalance, error) {
	var qty types.Quantity
	for _, e := range r.entries {
		if e.ItemID == itemID {
			qty += e.SignedQuantity()
		}
	}
	return entity.StockBalance{ItemID: itemID, Quantity: qty}, nil
}

func (r *fakeLedgerRepo) GetBalanceForUpdate(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	return r.GetBalance(ctx, itemID)
}

func (r *fakeLedgerRepo) GetBalanceAtDate(_ context.Context, itemID id.ID, date time.Time) (types.Quantity, error) {
	var qty types.Quantity
	for _, e := range r.entries {
		if e.ItemID == itemID && !e.Period.After(date) {
			qty += e.SignedQuantity()
		}
	}
	return qty, nil
}

func (r *fakeLedgerRepo) GetEntryHistory(_ context.Context, itemID id.ID, _ stock.EntryFilter) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range r.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeTxManager snapshots the repo before the callback and restores it
// on error, mirroring transactional rollback.
type fakeTxManager struct {
	repo *fakeLedgerRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make([]entity.LedgerEntry, len(m.repo.entries))
	copy(snapshot, m.repo.entries)

	if err := fn(ctx); err != nil {
		m.repo.entries = snapshot
		return err
	}
	return nil
}

// testDoc is a minimal postable document with fixed movement lines.
type testDocLine struct {
	itemID     id.ID
	quantity   types.Quantity
	recordType entity.RecordType
}

type testDoc struct {
	entity.Document
	lines []testDocLine
}

func (d *testDoc) GetDocumentType() string { return "TestDoc" }

func (d *testDoc) GenerateMovements(_ context.Context) (*MovementSet, error) {
	set := NewMovementSet()
	for _, line := range d.lines {
		set.AddStock(entity.NewLedgerEntry(
			d.ID,
			d.GetDocumentType(),
			d.PostedVersion+1,
			d.Date,
			line.recordType,
			line.itemID,
			line.quantity,
		))
	}
	return set, nil
}

func newTestDoc(lines ...testDocLine) *testDoc {
	return &testDoc{Document: entity.NewDocument(), lines: lines}
}

func receiptLine(itemID id.ID, qty float64) testDocLine {
	return testDocLine{itemID, types.NewQuantityFromFloat64(qty), entity.RecordTypeReceipt}
}

func expenseLine(itemID id.ID, qty float64) testDocLine {
	return testDocLine{itemID, types.NewQuantityFromFloat64(qty), entity.RecordTypeExpense}
}

func newTestEngine(config Config) (*Engine, *fakeLedgerRepo, *stock.Service) {
	repo := &fakeLedgerRepo{}
	ledger := stock.NewService(repo)
	return NewEngine(ledger, &fakeTxManager{repo: repo}, config, nil), repo, ledger
}

func noopSave(_ context.Context) error { return nil }

func TestEngine_Post_ReceiptIncreasesOnHand(t *testing.T) {
	engine, _, ledger := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	doc := newTestDoc(receiptLine(itemID, 20))
	result, err := engine.Post(ctx, doc, noopSave)
	require.NoError(t, err)

	assert.Equal(t, StatusPosted, result.Status)
	assert.Equal(t, ReasonNone, result.ReasonCode)
	assert.Equal(t, doc.ID, result.DocumentID)
	assert.True(t, doc.IsPosted())
	assert.Equal(t, 1, doc.PostedVersion)

	onHand, err := ledger.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(20), onHand)
}

func TestEngine_Post_SecondAttemptIsIdempotent(t *testing.T) {
	engine, repo, _ := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	doc := newTestDoc(receiptLine(itemID, 10))

	first, err := engine.Post(ctx, doc, noopSave)
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, first.Status)

	second, err := engine.Post(ctx, doc, noopSave)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPosted, second.Status)
	assert.Equal(t, ReasonAlreadyPosted, second.ReasonCode)
	assert.True(t, second.IsSuccess())

	// Exactly one set of entries: the second attempt recorded nothing.
	entries, err := repo.GetEntriesByRecorder(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, doc.PostedVersion)
}

func TestEngine_Post_InsufficientStockLeavesLedgerUntouched(t *testing.T) {
	engine, repo, ledger := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	// On-hand 3, shipping 5.
	seed := newTestDoc(receiptLine(itemID, 3))
	_, err := engine.Post(ctx, seed, noopSave)
	require.NoError(t, err)

	shipment := newTestDoc(expenseLine(itemID, 5))
	result, err := engine.Post(ctx, shipment, noopSave)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, ReasonInsufficientStock, result.ReasonCode)
	assert.False(t, shipment.IsPosted())

	onHand, err := ledger.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(3), onHand)

	entries, err := repo.GetEntriesByRecorder(ctx, shipment.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngine_Post_ReceiptThenShipment(t *testing.T) {
	engine, _, ledger := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	_, err := engine.Post(ctx, newTestDoc(receiptLine(itemID, 20)), noopSave)
	require.NoError(t, err)

	result, err := engine.Post(ctx, newTestDoc(expenseLine(itemID, 5)), noopSave)
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, result.Status)

	onHand, err := ledger.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(15), onHand)
}

func TestEngine_Post_MultiLineDemandIsAggregated(t *testing.T) {
	engine, _, _ := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	_, err := engine.Post(ctx, newTestDoc(receiptLine(itemID, 10)), noopSave)
	require.NoError(t, err)

	// Each line fits on its own; the combined demand of 12 does not.
	shipment := newTestDoc(expenseLine(itemID, 7), expenseLine(itemID, 5))
	result, err := engine.Post(ctx, shipment, noopSave)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, ReasonInsufficientStock, result.ReasonCode)
}

func TestEngine_Post_AllowNegativeStock(t *testing.T) {
	engine, _, ledger := newTestEngine(Config{AllowNegativeStock: true})
	ctx := context.Background()
	itemID := id.New()

	result, err := engine.Post(ctx, newTestDoc(expenseLine(itemID, 5)), noopSave)
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, result.Status)

	onHand, err := ledger.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(-5), onHand)
}

func TestEngine_Post_SaveConflictRollsBack(t *testing.T) {
	engine, repo, _ := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	doc := newTestDoc(receiptLine(itemID, 10))
	conflictSave := func(_ context.Context) error {
		return apperror.NewConcurrentModification("document", doc.ID.String())
	}

	result, err := engine.Post(ctx, doc, conflictSave)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, ReasonConflict, result.ReasonCode)

	entries, err := repo.GetEntriesByRecorder(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngine_Post_ValidationFailure(t *testing.T) {
	engine, _, _ := newTestEngine(Config{})
	ctx := context.Background()

	doc := newTestDoc(receiptLine(id.New(), 10))
	doc.Date = time.Time{} // CanPost rejects a zero date

	result, err := engine.Post(ctx, doc, noopSave)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, ReasonValidation, result.ReasonCode)
	assert.False(t, doc.IsPosted())
}

func TestEngine_Unpost_ReversesMovements(t *testing.T) {
	engine, _, ledger := newTestEngine(Config{})
	ctx := context.Background()
	itemID := id.New()

	doc := newTestDoc(receiptLine(itemID, 8))
	_, err := engine.Post(ctx, doc, noopSave)
	require.NoError(t, err)

	require.NoError(t, engine.Unpost(ctx, doc, noopSave))
	assert.False(t, doc.IsPosted())

	onHand, err := ledger.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())
}

type capturingRecorder struct {
	docTypes []string
	results  []Result
}

func (r *capturingRecorder) RecordPosting(_ context.Context, docType string, result Result) error {
	r.docTypes = append(r.docTypes, docType)
	r.results = append(r.results, result)
	return nil
}

func TestEngine_Unpost_RecordsUnpostOutcome(t *testing.T) {
	repo := &fakeLedgerRepo{}
	ledger := stock.NewService(repo)
	recorder := &capturingRecorder{}
	engine := NewEngine(ledger, &fakeTxManager{repo: repo}, Config{}, recorder)
	ctx := context.Background()

	doc := newTestDoc(receiptLine(id.New(), 8))
	_, err := engine.Post(ctx, doc, noopSave)
	require.NoError(t, err)
	require.NoError(t, engine.Unpost(ctx, doc, noopSave))

	require.Len(t, recorder.results, 2)
	assert.Equal(t, StatusPosted, recorder.results[0].Status)
	assert.Equal(t, StatusUnposted, recorder.results[1].Status)
	assert.Equal(t, doc.GetID(), recorder.results[1].DocumentID)
	assert.Equal(t, doc.GetDocumentType(), recorder.docTypes[1])
}

func TestEngine_Unpost_RequiresPostedDocument(t *testing.T) {
	engine, _, _ := newTestEngine(Config{})

	doc := newTestDoc(receiptLine(id.New(), 1))
	err := engine.Unpost(context.Background(), doc, noopSave)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentNotPosted, appErr.Code)
}
