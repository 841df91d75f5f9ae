package shipment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/sales_order"
	"stockops/pkg/numerator"
)

// fakeShipmentRepo is an in-memory Repository.
type fakeShipmentRepo struct {
	docs map[id.ID]*Shipment
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{docs: make(map[id.ID]*Shipment)}
}

func (r *fakeShipmentRepo) Create(_ context.Context, doc *Shipment) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeShipmentRepo) GetByID(_ context.Context, docID id.ID) (*Shipment, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("shipment", docID.String())
	}
	return doc, nil
}

func (r *fakeShipmentRepo) Update(_ context.Context, doc *Shipment) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeShipmentRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeShipmentRepo) List(_ context.Context, _ domain.ListFilter) (*domain.ListResult[Shipment], error) {
	return &domain.ListResult[Shipment]{}, nil
}

// fakeOrderRepo serves a single sales order.
type fakeOrderRepo struct {
	order *sales_order.SalesOrder
}

func (r *fakeOrderRepo) Create(_ context.Context, doc *sales_order.SalesOrder) error {
	r.order = doc
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, docID id.ID) (*sales_order.SalesOrder, error) {
	if r.order == nil || r.order.ID != docID {
		return nil, apperror.NewNotFound("sales order", docID.String())
	}
	return r.order, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, doc *sales_order.SalesOrder) error {
	r.order = doc
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, _ id.ID) error { return nil }

func (r *fakeOrderRepo) List(_ context.Context, _ domain.ListFilter) (*domain.ListResult[sales_order.SalesOrder], error) {
	return &domain.ListResult[sales_order.SalesOrder]{}, nil
}

func newTestService(order *sales_order.SalesOrder) (*Service, *fakeShipmentRepo) {
	num := numerator.New(numerator.NewMemoryStore())
	orders := sales_order.NewService(&fakeOrderRepo{order: order}, num)
	repo := newFakeShipmentRepo()
	return NewService(repo, orders, nil, num), repo
}

func orderWithLine(itemID id.ID, qty, price float64) *sales_order.SalesOrder {
	order := sales_order.New()
	order.Number = "SO-000001"
	order.AddLine(itemID, types.NewQuantityFromFloat64(qty), types.NewMoney(price))
	return order
}

func TestService_Create_CopiesPriceFromOrder(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	order := orderWithLine(itemID, 10, 25.50)
	svc, repo := newTestService(order)

	doc := New(order.ID)
	doc.AddLine(order.Lines[0].LineID, itemID, types.NewQuantityFromFloat64(4), types.ZeroMoney())

	require.NoError(t, svc.Create(ctx, doc))

	saved, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Number)
	require.Len(t, saved.Lines, 1)
	assert.True(t, saved.Lines[0].UnitPrice.Equal(types.NewMoney(25.50)),
		"price must come from the order, got %s", saved.Lines[0].UnitPrice)
}

func TestService_Create_RejectsForeignOrderLine(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	order := orderWithLine(itemID, 10, 25.50)
	svc, _ := newTestService(order)

	doc := New(order.ID)
	doc.AddLine(id.New(), itemID, types.NewQuantityFromFloat64(4), types.ZeroMoney())

	err := svc.Create(ctx, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Create_RejectsItemMismatch(t *testing.T) {
	ctx := context.Background()
	order := orderWithLine(id.New(), 10, 25.50)
	svc, _ := newTestService(order)

	doc := New(order.ID)
	doc.AddLine(order.Lines[0].LineID, id.New(), types.NewQuantityFromFloat64(4), types.ZeroMoney())

	err := svc.Create(ctx, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Update_RecopiesPrices(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	order := orderWithLine(itemID, 10, 25.50)
	svc, _ := newTestService(order)

	doc := New(order.ID)
	doc.AddLine(order.Lines[0].LineID, itemID, types.NewQuantityFromFloat64(4), types.ZeroMoney())
	require.NoError(t, svc.Create(ctx, doc))

	// Replace lines the way the API layer does: quantities only,
	// prices left zero for the service to fill in.
	doc.Lines = doc.Lines[:0]
	doc.AddLine(order.Lines[0].LineID, itemID, types.NewQuantityFromFloat64(6), types.ZeroMoney())

	require.NoError(t, svc.Update(ctx, doc))
	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(types.NewMoney(25.50)))
}

func TestService_Update_RejectsPostedDocument(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	order := orderWithLine(itemID, 10, 25.50)
	svc, _ := newTestService(order)

	doc := New(order.ID)
	doc.AddLine(order.Lines[0].LineID, itemID, types.NewQuantityFromFloat64(4), types.ZeroMoney())
	require.NoError(t, svc.Create(ctx, doc))

	doc.Posted = true
	err := svc.Update(ctx, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentPosted, appErr.Code)
}
