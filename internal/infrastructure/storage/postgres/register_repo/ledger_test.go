package register_repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

type fakeBalanceRow struct {
	err     error
	balance entity.StockBalance
}

func (r fakeBalanceRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*id.ID) = r.balance.ItemID
	*dest[1].(*types.Quantity) = r.balance.Quantity
	*dest[2].(*time.Time) = r.balance.LastMovementAt
	*dest[3].(*time.Time) = r.balance.UpdatedAt
	return nil
}

// fakeQuerier replays scripted rows for successive QueryRow calls and
// records every Exec statement.
type fakeQuerier struct {
	rows    []fakeBalanceRow
	selects int
	execSQL []string
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execSQL = append(q.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

func (q *fakeQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query call")
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if q.selects >= len(q.rows) {
		return fakeBalanceRow{err: errors.New("unscripted QueryRow call")}
	}
	row := q.rows[q.selects]
	q.selects++
	return row
}

func TestBalanceForUpdate_ReturnsExistingRow(t *testing.T) {
	itemID := id.New()
	querier := &fakeQuerier{rows: []fakeBalanceRow{
		{balance: entity.StockBalance{
			ItemID:   itemID,
			Quantity: types.NewQuantityFromFloat64(7),
		}},
	}}

	balance, err := balanceForUpdate(context.Background(), querier, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(7), balance.Quantity)
	assert.Equal(t, 1, querier.selects)
	assert.Empty(t, querier.execSQL)
}

// A balance committed by a concurrent transaction between the first
// locked select and the seed insert must come back from the re-read,
// not be masked by a hardcoded zero.
func TestBalanceForUpdate_SeedRereadsCommittedQuantity(t *testing.T) {
	itemID := id.New()
	querier := &fakeQuerier{rows: []fakeBalanceRow{
		{err: pgx.ErrNoRows},
		{balance: entity.StockBalance{
			ItemID:   itemID,
			Quantity: types.NewQuantityFromFloat64(20),
		}},
	}}

	balance, err := balanceForUpdate(context.Background(), querier, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(20), balance.Quantity)

	assert.Equal(t, 2, querier.selects)
	require.Len(t, querier.execSQL, 1)
	assert.Contains(t, querier.execSQL[0], "ON CONFLICT (item_id) DO NOTHING")
}

func TestBalanceForUpdate_PropagatesSelectError(t *testing.T) {
	querier := &fakeQuerier{rows: []fakeBalanceRow{
		{err: errors.New("connection reset")},
	}}

	_, err := balanceForUpdate(context.Background(), querier, id.New())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "get balance for update"))
	assert.Empty(t, querier.execSQL)
}
