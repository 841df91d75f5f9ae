package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/purchase_order"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "doc_purchase_orders"
	purchaseOrderLinesTable = "doc_purchase_order_lines"
)

var purchaseOrderLineColumns = []string{
	"line_id", "order_id", "item_id", "quantity", "unit_cost",
}

// PurchaseOrderRepo implements purchase_order.Repository. Orders are
// immutable after creation, so there is no Update path.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchase_order.PurchaseOrder]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchaseOrdersTable,
			postgres.ExtractDBColumns[purchase_order.PurchaseOrder](),
			func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
		),
	}
}

// Create inserts header and lines atomically.
func (r *PurchaseOrderRepo) Create(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.CreateHeader(ctx, doc); err != nil {
			return err
		}
		return r.insertLines(ctx, doc.ID, doc.Lines)
	})
}

// GetByID retrieves a purchase order with its lines.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	doc, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := r.getLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves purchase orders with lines loaded for the returned page.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[purchase_order.PurchaseOrder], error) {
	headers, err := r.BaseDocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &domain.ListResult[purchase_order.PurchaseOrder]{
		Items:      make([]purchase_order.PurchaseOrder, 0, len(headers.Items)),
		TotalCount: headers.TotalCount,
		Limit:      headers.Limit,
		Offset:     headers.Offset,
	}
	if len(headers.Items) == 0 {
		return result, nil
	}

	ids := make([]id.ID, 0, len(headers.Items))
	for _, doc := range headers.Items {
		ids = append(ids, doc.ID)
	}

	byDoc, err := r.getLinesForDocs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, doc := range headers.Items {
		doc.Lines = byDoc[doc.ID]
		result.Items = append(result.Items, *doc)
	}

	return result, nil
}

func (r *PurchaseOrderRepo) getLines(ctx context.Context, docID id.ID) ([]purchase_order.Line, error) {
	q := r.Builder().
		Select(purchaseOrderLineColumns...).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"order_id": docID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_order.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *PurchaseOrderRepo) getLinesForDocs(ctx context.Context, ids []id.ID) (map[id.ID][]purchase_order.Line, error) {
	q := r.Builder().
		Select(purchaseOrderLineColumns...).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"order_id": ids}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_order.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	byDoc := make(map[id.ID][]purchase_order.Line, len(ids))
	for _, line := range lines {
		byDoc[line.OrderID] = append(byDoc[line.OrderID], line)
	}

	return byDoc, nil
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, docID id.ID, lines []purchase_order.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns(purchaseOrderLineColumns...)

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.ItemID, line.Quantity, line.UnitCost)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	querier := r.TxManager().GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)
