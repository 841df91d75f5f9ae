// Package register_repo provides PostgreSQL implementations for register
// repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/registers/stock"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	ledgerEntriesTable = "reg_stock_ledger"
	stockBalancesTable = "reg_stock_balances"
)

var ledgerColumns = []string{
	"line_id", "recorder_id", "recorder_type", "recorder_version",
	"period", "record_type", "item_id", "quantity", "created_at",
}

// LedgerRepo implements stock.Repository. The materialized balance table
// is maintained in the same transaction as the entries, so readers never
// observe a balance that disagrees with the ledger.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateEntries batch inserts entries and applies their deltas to the
// balance table.
func (r *LedgerRepo) CreateEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{
				e.LineID, e.RecorderID, e.RecorderType, e.RecorderVersion,
				e.Period, e.RecordType, e.ItemID, e.Quantity, e.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, ledgerEntriesTable, ledgerColumns, rows); err != nil {
			return fmt.Errorf("copy entries: %w", err)
		}
	} else {
		q := r.builder.Insert(ledgerEntriesTable).Columns(ledgerColumns...)
		for _, e := range entries {
			q = q.Values(
				e.LineID, e.RecorderID, e.RecorderType, e.RecorderVersion,
				e.Period, e.RecordType, e.ItemID, e.Quantity, e.CreatedAt,
			)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
	}

	return r.applyBalanceDeltas(ctx, entries, false)
}

// DeleteEntriesByRecorder removes entries for a document version and
// reverses their effect on the balance table.
func (r *LedgerRepo) DeleteEntriesByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	entries, err := r.getEntriesBefore(ctx, recorderID, beforeVersion)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	q := r.builder.Delete(ledgerEntriesTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Lt{"recorder_version": beforeVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	return r.applyBalanceDeltas(ctx, entries, true)
}

// GetEntriesByRecorder retrieves entries for a document.
func (r *LedgerRepo) GetEntriesByRecorder(ctx context.Context, recorderID id.ID) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(ledgerColumns...).
		From(ledgerEntriesTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.LedgerEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// GetBalance returns current balance for an item. An item with no
// movement history has a zero balance, not an error.
func (r *LedgerRepo) GetBalance(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"item_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{ItemID: itemID, Quantity: 0}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns balance with a pessimistic row lock.
// Concurrent sufficiency checks for the same item serialize here.
func (r *LedgerRepo) GetBalanceForUpdate(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	return balanceForUpdate(ctx, r.txManager.GetQuerier(ctx), itemID)
}

// balanceForUpdate locks the balance row and returns its committed
// state. When no row exists yet one is seeded and the locked select is
// repeated: a movement committed between the first select and the
// insert must be visible to the sufficiency check, so the quantity is
// always read from the locked row, never assumed zero.
func balanceForUpdate(ctx context.Context, q postgres.Querier, itemID id.ID) (entity.StockBalance, error) {
	balance, err := lockBalanceRow(ctx, q, itemID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	if err := seedBalanceRow(ctx, q, itemID); err != nil {
		return entity.StockBalance{}, err
	}
	balance, err = lockBalanceRow(ctx, q, itemID)
	if err != nil {
		return balance, fmt.Errorf("get balance for update: %w", err)
	}
	return balance, nil
}

func lockBalanceRow(ctx context.Context, q postgres.Querier, itemID id.ID) (entity.StockBalance, error) {
	sql := `
		SELECT item_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE item_id = $1
		FOR UPDATE
	`
	var balance entity.StockBalance
	err := q.QueryRow(ctx, sql, itemID).Scan(
		&balance.ItemID, &balance.Quantity,
		&balance.LastMovementAt, &balance.UpdatedAt,
	)
	return balance, err
}

// GetBalanceAtDate calculates balance as of a specific date from the
// ledger, not from the materialized table.
func (r *LedgerRepo) GetBalanceAtDate(ctx context.Context, itemID id.ID, date time.Time) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_ledger
		WHERE item_id = $1
		  AND period <= $2
	`

	var balanceScaled int64
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, itemID, date).Scan(&balanceScaled)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("calculate balance at date: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(balanceScaled), nil
}

// GetEntryHistory returns ledger history for an item.
func (r *LedgerRepo) GetEntryHistory(ctx context.Context, itemID id.ID, filter stock.EntryFilter) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(ledgerColumns...).
		From(ledgerEntriesTable).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.LedgerEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return entries, nil
}

// getEntriesBefore loads entries of a recorder below a version.
func (r *LedgerRepo) getEntriesBefore(ctx context.Context, recorderID id.ID, beforeVersion int) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(ledgerColumns...).
		From(ledgerEntriesTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Lt{"recorder_version": beforeVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.LedgerEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// applyBalanceDeltas updates the materialized balance table with the
// signed effect of the given entries. reverse inverts the sign, used
// when entries are being removed.
func (r *LedgerRepo) applyBalanceDeltas(ctx context.Context, entries []entity.LedgerEntry, reverse bool) error {
	deltas := make(map[id.ID]types.Quantity)
	order := make([]id.ID, 0)
	var lastMovement time.Time

	for _, e := range entries {
		if _, seen := deltas[e.ItemID]; !seen {
			order = append(order, e.ItemID)
		}
		delta := e.SignedQuantity()
		if reverse {
			delta = delta.Neg()
		}
		deltas[e.ItemID] += delta
		if e.Period.After(lastMovement) {
			lastMovement = e.Period
		}
	}

	sql := `
		INSERT INTO reg_stock_balances (item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO UPDATE SET
			quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()

	// Inside the posting transaction, all upserts go in one round trip.
	if r.txManager.GetTx(ctx) != nil {
		queries := make([]postgres.BatchQuery, 0, len(order))
		for _, itemID := range order {
			queries = append(queries, postgres.BatchQuery{
				SQL:  sql,
				Args: []any{itemID, deltas[itemID], lastMovement, now},
			})
		}
		if err := postgres.NewBatchExecutor(r.txManager).ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("apply balance deltas: %w", err)
		}
		return nil
	}

	querier := r.txManager.GetQuerier(ctx)
	for _, itemID := range order {
		if _, err := querier.Exec(ctx, sql, itemID, deltas[itemID], lastMovement, now); err != nil {
			return fmt.Errorf("apply balance delta: %w", err)
		}
	}

	return nil
}

// seedBalanceRow inserts a zero balance row if none exists. A loser of
// the insert race simply finds the winner's row on the next locked
// select.
func seedBalanceRow(ctx context.Context, q postgres.Querier, itemID id.ID) error {
	now := time.Now().UTC()
	sql := `
		INSERT INTO reg_stock_balances (item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, 0, $2, $2)
		ON CONFLICT (item_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, sql, itemID, now); err != nil {
		return fmt.Errorf("seed balance row: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ stock.Repository = (*LedgerRepo)(nil)
