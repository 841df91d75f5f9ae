package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/shipment"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	shipmentsTable     = "doc_shipments"
	shipmentLinesTable = "doc_shipment_lines"
)

var shipmentLineColumns = []string{
	"line_id", "shipment_id", "sales_order_line_id", "item_id", "quantity", "unit_price",
}

// ShipmentRepo implements shipment.Repository.
type ShipmentRepo struct {
	*BaseDocumentRepo[*shipment.Shipment]
}

// NewShipmentRepo creates a new shipment repository.
func NewShipmentRepo(txManager *postgres.TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			shipmentsTable,
			postgres.ExtractDBColumns[shipment.Shipment](),
			func() *shipment.Shipment { return &shipment.Shipment{} },
		),
	}
}

// Create inserts header and lines atomically.
func (r *ShipmentRepo) Create(ctx context.Context, doc *shipment.Shipment) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.CreateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// GetByID retrieves a shipment with its lines.
func (r *ShipmentRepo) GetByID(ctx context.Context, docID id.ID) (*shipment.Shipment, error) {
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
func (r *ShipmentRepo) Update(ctx context.Context, doc *shipment.Shipment) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// List retrieves shipments with lines loaded for the returned page.
func (r *ShipmentRepo) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[shipment.Shipment], error) {
	headers, err := r.BaseDocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &domain.ListResult[shipment.Shipment]{
		Items:      make([]shipment.Shipment, 0, len(headers.Items)),
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

func (r *ShipmentRepo) getLines(ctx context.Context, docID id.ID) ([]shipment.Line, error) {
	q := r.Builder().
		Select(shipmentLineColumns...).
		From(shipmentLinesTable).
		Where(squirrel.Eq{"shipment_id": docID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []shipment.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *ShipmentRepo) getLinesForDocs(ctx context.Context, ids []id.ID) (map[id.ID][]shipment.Line, error) {
	q := r.Builder().
		Select(shipmentLineColumns...).
		From(shipmentLinesTable).
		Where(squirrel.Eq{"shipment_id": ids}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []shipment.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	byDoc := make(map[id.ID][]shipment.Line, len(ids))
	for _, line := range lines {
		byDoc[line.ShipmentID] = append(byDoc[line.ShipmentID], line)
	}

	return byDoc, nil
}

// saveLines replaces lines (delete existing + insert new).
func (r *ShipmentRepo) saveLines(ctx context.Context, docID id.ID, lines []shipment.Line) error {
	querier := r.TxManager().GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + shipmentLinesTable + " WHERE shipment_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(shipmentLinesTable).
		Columns(shipmentLineColumns...)

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.SalesOrderLineID, line.ItemID, line.Quantity, line.UnitPrice)
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
var _ shipment.Repository = (*ShipmentRepo)(nil)
