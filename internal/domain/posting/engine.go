// Package posting provides the document posting engine: the state machine
// that commits a document's effect on stock, keeping the ledger and the
// document's posted flag consistent.
package posting

import (
	"context"
	"fmt"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/tx"
	"stockops/internal/core/types"
	"stockops/internal/domain/registers/stock"
	"stockops/pkg/logger"
)

// Config holds posting engine configuration.
type Config struct {
	// AllowNegativeStock disables the stock sufficiency guard for expense
	// movements. Explicit opt-in; the default forbids driving on-hand
	// below zero.
	AllowNegativeStock bool
}

// Recorder receives posting outcomes for audit retention.
// Implementations must be best-effort safe: recording happens after the
// posting transaction committed.
type Recorder interface {
	RecordPosting(ctx context.Context, docType string, result Result) error
}

// Engine posts and unposts documents.
//
// A posting is a single atomic unit of work: the sufficiency check (under
// row lock), the ledger append, and the posted-flag update on the document
// either all become visible together or not at all. Concurrency control is
// delegated to the storage layer: the balance row lock serializes
// sufficiency checks per item, and the optimistic-lock update on the
// document row guarantees at-most-once posting.
type Engine struct {
	ledger    *stock.Service
	txManager tx.Manager
	config    Config
	audit     Recorder
}

// NewEngine creates a posting engine. audit may be nil.
func NewEngine(ledger *stock.Service, txManager tx.Manager, config Config, audit Recorder) *Engine {
	return &Engine{
		ledger:    ledger,
		txManager: txManager,
		config:    config,
		audit:     audit,
	}
}

// Post records document movements to the stock ledger and marks the
// document posted.
//
// saveDoc persists the document row; it must use optimistic locking so a
// concurrent poster is detected. Post never retries on storage faults:
// the caller may retry the whole attempt, which is safe because a posted
// document reports AlreadyPosted.
func (e *Engine) Post(ctx context.Context, doc Postable, saveDoc func(ctx context.Context) error) (Result, error) {
	result := Result{DocumentID: doc.GetID()}

	if doc.IsPosted() {
		result.Status = StatusAlreadyPosted
		result.ReasonCode = ReasonAlreadyPosted
		logger.Info(ctx, "document already posted",
			"document_type", doc.GetDocumentType(),
			"document_id", doc.GetID(),
		)
		return result, nil
	}

	if err := doc.CanPost(ctx); err != nil {
		result.Status = StatusFailed
		result.ReasonCode = ReasonValidation
		return result, err
	}

	movements, err := doc.GenerateMovements(ctx)
	if err != nil {
		result.Status = StatusFailed
		result.ReasonCode = ReasonValidation
		return result, err
	}

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if !e.config.AllowNegativeStock {
			if reservations := expenseReservations(movements); len(reservations) > 0 {
				if err := e.ledger.CheckAndReserveStock(ctx, reservations); err != nil {
					return err
				}
			}
		}

		if err := e.ledger.RecordEntries(ctx, movements.Stock); err != nil {
			return err
		}

		doc.MarkPosted()
		if err := saveDoc(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}

		return nil
	})

	if err != nil {
		result.Status = StatusFailed
		result.ReasonCode = reasonForError(err)
		if _, ok := apperror.AsAppError(err); !ok {
			// Unexpected storage fault: surface as a distinct error kind.
			err = apperror.NewStorageFault(err)
		}
		e.recordAudit(ctx, doc, result)
		return result, err
	}

	result.Status = StatusPosted
	result.ReasonCode = ReasonNone

	logger.Info(ctx, "document posted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID(),
		"entries", len(movements.Stock),
	)
	e.recordAudit(ctx, doc, result)

	return result, nil
}

// Unpost reverses document movements and clears the posted flag.
func (e *Engine) Unpost(ctx context.Context, doc Postable, saveDoc func(ctx context.Context) error) error {
	if !doc.IsPosted() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentNotPosted,
			"Document is not posted",
		).WithDetail("document_id", doc.GetID().String())
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.ledger.ReverseEntries(ctx, doc.GetID(), doc.GetPostedVersion()+1); err != nil {
			return err
		}

		doc.MarkUnposted()
		if err := saveDoc(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}

		return nil
	})

	if err != nil {
		if _, ok := apperror.AsAppError(err); !ok {
			return apperror.NewStorageFault(err)
		}
		return err
	}

	logger.Info(ctx, "document unposted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID(),
	)
	e.recordAudit(ctx, doc, Result{
		Status:     StatusUnposted,
		DocumentID: doc.GetID(),
	})

	return nil
}

// expenseReservations aggregates expense quantities per item across the
// whole document, so a multi-line document is checked as one demand.
func expenseReservations(movements *MovementSet) []stock.StockReservation {
	totals := make(map[id.ID]types.Quantity)
	order := make([]id.ID, 0)

	for _, entry := range movements.Stock {
		if entry.RecordType != entity.RecordTypeExpense {
			continue
		}
		if _, seen := totals[entry.ItemID]; !seen {
			order = append(order, entry.ItemID)
		}
		totals[entry.ItemID] += entry.Quantity
	}

	reservations := make([]stock.StockReservation, 0, len(order))
	for _, itemID := range order {
		reservations = append(reservations, stock.StockReservation{
			ItemID:      itemID,
			RequiredQty: totals[itemID],
		})
	}

	return reservations
}

func reasonForError(err error) int {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return ReasonNone
	}
	switch appErr.Code {
	case apperror.CodeInsufficientStock:
		return ReasonInsufficientStock
	case apperror.CodeConcurrentModification:
		return ReasonConflict
	case apperror.CodeValidation:
		return ReasonValidation
	case apperror.CodeDocumentPosted:
		return ReasonAlreadyPosted
	default:
		return ReasonNone
	}
}

func (e *Engine) recordAudit(ctx context.Context, doc Postable, result Result) {
	if e.audit == nil {
		return
	}
	if err := e.audit.RecordPosting(ctx, doc.GetDocumentType(), result); err != nil {
		logger.Warn(ctx, "audit record failed",
			"document_id", doc.GetID(),
			"error", err,
		)
	}
}
