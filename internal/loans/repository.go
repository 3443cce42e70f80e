package loans

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Repository persists loans and repayments.
type Repository interface {
	Create(ctx context.Context, loan Loan) (int64, error)
	Get(ctx context.Context, loanID int64) (*Loan, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	HasActiveLoan(ctx context.Context, vendorID int64) (bool, error)
	Activate(ctx context.Context, loanID, adminID int64, dueDate time.Time, amountToRepay float64) error
	SetStatus(ctx context.Context, loanID int64, status Status) error
	RecordRepayment(ctx context.Context, loanID int64, amount float64, method string) (totalPaid float64, err error)
	ListRepayments(ctx context.Context, loanID int64) ([]Repayment, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const loanColumns = `
	l.id, l.vendor_id, v.name, l.amount_granted, l.repayment_period_days,
	l.interest_rate, l.amount_to_repay, l.disbursement_date, l.due_date,
	l.status, l.last_repayment_date, l.admin_approved_by`

func scanLoan(row pgx.Row) (*Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.VendorID, &l.VendorName, &l.AmountGranted,
		&l.RepaymentPeriodDays, &l.InterestRate, &l.AmountToRepay,
		&l.DisbursementDate, &l.DueDate, &l.Status, &l.LastRepaymentDate,
		&l.AdminApprovedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) Create(ctx context.Context, loan Loan) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO loans (vendor_id, amount_granted, repayment_period_days, interest_rate,
		                   amount_to_repay, disbursement_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		loan.VendorID, loan.AmountGranted, loan.RepaymentPeriodDays, loan.InterestRate,
		loan.AmountToRepay, loan.DisbursementDate, loan.DueDate, loan.Status).Scan(&id)
	return id, err
}

func (r *PGRepository) Get(ctx context.Context, loanID int64) (*Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		JOIN vendor_profiles v ON v.user_id = l.vendor_id
		WHERE l.id = $1`, loanID)
	return scanLoan(row)
}

func (r *PGRepository) listLoans(ctx context.Context, where string, arg any) ([]Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		JOIN vendor_profiles v ON v.user_id = l.vendor_id
		WHERE `+where+`
		ORDER BY l.disbursement_date DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func (r *PGRepository) ListByVendor(ctx context.Context, vendorID int64) ([]Loan, error) {
	return r.listLoans(ctx, `l.vendor_id = $1`, vendorID)
}

func (r *PGRepository) ListByStatus(ctx context.Context, status Status) ([]Loan, error) {
	return r.listLoans(ctx, `l.status = $1`, status)
}

func (r *PGRepository) HasActiveLoan(ctx context.Context, vendorID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM loans WHERE vendor_id = $1 AND status = 'active')`,
		vendorID).Scan(&exists)
	return exists, err
}

// Activate flips a pending loan to active. The WHERE guard makes the
// transition race-safe.
func (r *PGRepository) Activate(ctx context.Context, loanID, adminID int64, dueDate time.Time, amountToRepay float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans
		SET status = 'active', admin_approved_by = $2, due_date = $3, amount_to_repay = $4
		WHERE id = $1 AND status = 'pending'`,
		loanID, adminID, dueDate, amountToRepay)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetStatus(ctx context.Context, loanID int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE loans SET status = $2 WHERE id = $1`, loanID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordRepayment inserts the payment and returns the running total paid
// against the loan, all inside one transaction.
func (r *PGRepository) RecordRepayment(ctx context.Context, loanID int64, amount float64, method string) (float64, error) {
	var total float64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO loan_repayments (loan_id, amount_paid, payment_date, payment_method)
			VALUES ($1, $2, now(), $3)`, loanID, amount, method)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE loans SET last_repayment_date = now() WHERE id = $1`, loanID)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount_paid), 0) FROM loan_repayments WHERE loan_id = $1`,
			loanID).Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGRepository) ListRepayments(ctx context.Context, loanID int64) ([]Repayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, amount_paid, payment_date, payment_method
		FROM loan_repayments WHERE loan_id = $1
		ORDER BY payment_date DESC`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repayments []Repayment
	for rows.Next() {
		var rep Repayment
		if err := rows.Scan(&rep.ID, &rep.LoanID, &rep.AmountPaid, &rep.PaymentDate, &rep.PaymentMethod); err != nil {
			return nil, err
		}
		repayments = append(repayments, rep)
	}
	return repayments, rows.Err()
}

// MarkOverdue moves active loans past their due date to overdue and
// returns how many were affected.
func (r *PGRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans SET status = 'overdue'
		WHERE status = 'active' AND due_date IS NOT NULL AND due_date < $1`, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
