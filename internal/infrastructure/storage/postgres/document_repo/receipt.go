package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/receipt"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	receiptsTable     = "doc_receipts"
	receiptLinesTable = "doc_receipt_lines"
)

// ReceiptRepo implements receipt.Repository.
type ReceiptRepo struct {
	*BaseDocumentRepo[*receipt.Receipt]
}

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			receiptsTable,
			postgres.ExtractDBColumns[receipt.Receipt](),
			func() *receipt.Receipt { return &receipt.Receipt{} },
		),
	}
}

// Create inserts header and lines atomically.
func (r *ReceiptRepo) Create(ctx context.Context, doc *receipt.Receipt) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.CreateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// GetByID retrieves a receipt with its lines.
func (r *ReceiptRepo) GetByID(ctx context.Context, docID id.ID) (*receipt.Receipt, error) {
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
func (r *ReceiptRepo) Update(ctx context.Context, doc *receipt.Receipt) error {
	return r.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		return r.saveLines(ctx, doc.ID, doc.Lines)
	})
}

// List retrieves receipts with lines loaded for the returned page.
func (r *ReceiptRepo) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[receipt.Receipt], error) {
	headers, err := r.BaseDocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &domain.ListResult[receipt.Receipt]{
		Items:      make([]receipt.Receipt, 0, len(headers.Items)),
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

func (r *ReceiptRepo) getLines(ctx context.Context, docID id.ID) ([]receipt.Line, error) {
	q := r.Builder().
		Select("line_id", "receipt_id", "item_id", "quantity").
		From(receiptLinesTable).
		Where(squirrel.Eq{"receipt_id": docID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []receipt.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *ReceiptRepo) getLinesForDocs(ctx context.Context, ids []id.ID) (map[id.ID][]receipt.Line, error) {
	q := r.Builder().
		Select("line_id", "receipt_id", "item_id", "quantity").
		From(receiptLinesTable).
		Where(squirrel.Eq{"receipt_id": ids}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []receipt.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	byDoc := make(map[id.ID][]receipt.Line, len(ids))
	for _, line := range lines {
		byDoc[line.ReceiptID] = append(byDoc[line.ReceiptID], line)
	}

	return byDoc, nil
}

// saveLines replaces lines (delete existing + insert new).
func (r *ReceiptRepo) saveLines(ctx context.Context, docID id.ID, lines []receipt.Line) error {
	querier := r.TxManager().GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + receiptLinesTable + " WHERE receipt_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(receiptLinesTable).
		Columns("line_id", "receipt_id", "item_id", "quantity")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.ItemID, line.Quantity)
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
var _ receipt.Repository = (*ReceiptRepo)(nil)
