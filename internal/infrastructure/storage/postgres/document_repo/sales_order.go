package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/sales_order"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	salesOrdersTable     = "doc_sales_orders"
	salesOrderLinesTable = "doc_sales_order_lines"
)

var salesOrderLineColumns = []string{
	"line_id", "order_id", "item_id", "quantity", "unit_price",
}

// SalesOrderRepo implements sales_order.Repository.
type SalesOrderRepo struct {
	*BaseDocumentRepo[*sales_order.SalesOrder]
}

// NewSalesOrderRepo creates a new sales order repository.
func NewSalesOrderRepo(txManager *postgres.TxManager) *SalesOrderRepo {
	return &SalesOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			salesOrdersTable,
			postgres.ExtractDBColumns[sales_order.SalesOrder](),
			func() *sales_order.SalesOrder { return &sales_order.SalesOrder{} },
		),
	}
}

// Create inserts header and lines atomically.
func (r *SalesOrderRepo) Create(ctx context.Context, doc *sales_order.SalesOrder) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.CreateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// GetByID retrieves a sales order with its lines.
func (r *SalesOrderRepo) GetByID(ctx context.Context, docID id.ID) (*sales_order.SalesOrder, error) {
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

// Update saves header (optimistic lock) and replaces lines atomically.
func (r *SalesOrderRepo) Update(ctx context.Context, doc *sales_order.SalesOrder) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// List retrieves sales orders with lines loaded for the returned page.
func (r *SalesOrderRepo) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[sales_order.SalesOrder], error) {
	headers, err := r.BaseDocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &domain.ListResult[sales_order.SalesOrder]{
		Items:      make([]sales_order.SalesOrder, 0, len(headers.Items)),
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

func (r *SalesOrderRepo) getLines(ctx context.Context, docID id.ID) ([]sales_order.Line, error) {
	q := r.Builder().
		Select(salesOrderLineColumns...).
		From(salesOrderLinesTable).
		Where(squirrel.Eq{"order_id": docID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales_order.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *SalesOrderRepo) getLinesForDocs(ctx context.Context, ids []id.ID) (map[id.ID][]sales_order.Line, error) {
	q := r.Builder().
		Select(salesOrderLineColumns...).
		From(salesOrderLinesTable).
		Where(squirrel.Eq{"order_id": ids}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales_order.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	byDoc := make(map[id.ID][]sales_order.Line, len(ids))
	for _, line := range lines {
		byDoc[line.OrderID] = append(byDoc[line.OrderID], line)
	}

	return byDoc, nil
}

// saveLines replaces lines (delete existing + insert new).
func (r *SalesOrderRepo) saveLines(ctx context.Context, docID id.ID, lines []sales_order.Line) error {
	querier := r.TxManager().GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + salesOrderLinesTable + " WHERE order_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(salesOrderLinesTable).
		Columns(salesOrderLineColumns...)

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.ItemID, line.Quantity, line.UnitPrice)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ sales_order.Repository = (*SalesOrderRepo)(nil)
