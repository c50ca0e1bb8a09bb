package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/theater-statement/internal/model"
)

// MaxAudience is the largest audience invoice_performances.audience
// (INT UNSIGNED) can hold.
const MaxAudience = 1<<32 - 1

// InvoiceRepo reads and writes invoices and their performances.
// Performances live in invoice_performances and are ordered by their
// position column, which preserves the order they were billed in.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// GetByID loads an invoice with its performances in billing order.  It
// returns ErrInvoiceNotFound if the invoice does not exist.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	const q = `SELECT id, customer FROM invoices WHERE id = ?`
	var inv model.Invoice
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&inv.ID, &inv.Customer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	const qPerf = `SELECT play_id, audience FROM invoice_performances
                   WHERE invoice_id = ? ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, qPerf, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	inv.Performances = make([]model.Performance, 0)
	for rows.Next() {
		var p model.Performance
		if err := rows.Scan(&p.PlayID, &p.Audience); err != nil {
			return nil, err
		}
		inv.Performances = append(inv.Performances, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create stores inv and its performances in a single transaction and
// assigns the generated id to inv.ID.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.CreateTx(ctx, tx, inv); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CreateTx behaves like Create but uses the caller's transaction.  The
// caller must commit or roll back.
func (r *InvoiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (customer) VALUES (?)`
	res, err := tx.ExecContext(ctx, q, inv.Customer)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)

	const qPerf = `INSERT INTO invoice_performances (invoice_id, position, play_id, audience) VALUES (?, ?, ?, ?)`
	for i, p := range inv.Performances {
		if _, err := tx.ExecContext(ctx, qPerf, inv.ID, i, p.PlayID, p.Audience); err != nil {
			return err
		}
	}
	return nil
}
