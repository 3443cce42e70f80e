package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
)

// ErrActiveLoanExists signals a vendor applying while still repaying.
var ErrActiveLoanExists = errors.New("an active loan already exists")

// Service implements the loan ledger rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Apply files a loan application. The interest rate, due date and total
// repayable are fixed at application time; the loan waits for admin
// approval as pending. A vendor may only carry one active loan.
func (s *Service) Apply(ctx context.Context, vendorID int64, amount float64, periodDays int) (*Loan, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: loan amount must be positive", httpx.ErrValidation)
	}
	if !ValidPeriod(periodDays) {
		return nil, fmt.Errorf("%w: unsupported repayment period %d days", httpx.ErrValidation, periodDays)
	}

	active, err := s.repo.HasActiveLoan(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrActiveLoanExists
	}

	loan := Loan{
		VendorID:            vendorID,
		AmountGranted:       amount,
		RepaymentPeriodDays: periodDays,
		InterestRate:        InterestRateFor(periodDays),
		DisbursementDate:    s.now(),
		Status:              StatusPending,
	}
	loan.Derive()

	id, err := s.repo.Create(ctx, loan)
	if err != nil {
		return nil, err
	}
	loan.ID = id
	return &loan, nil
}

// VendorLoans lists a vendor's loans, newest first.
func (s *Service) VendorLoans(ctx context.Context, vendorID int64) ([]Loan, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

// PendingLoans lists the admin approval queue.
func (s *Service) PendingLoans(ctx context.Context) ([]Loan, error) {
	return s.repo.ListByStatus(ctx, StatusPending)
}

// Approve activates a pending loan. Derived fields are refreshed if the
// application somehow left them unset.
func (s *Service) Approve(ctx context.Context, adminID, loanID int64) error {
	loan, err := s.repo.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != StatusPending {
		return fmt.Errorf("%w: loan is %s, not pending", httpx.ErrConflict, loan.Status)
	}
	if loan.DueDate == nil || loan.AmountToRepay == nil {
		loan.Derive()
	}
	return s.repo.Activate(ctx, loanID, adminID, *loan.DueDate, *loan.AmountToRepay)
}

// MarkDefaulted moves an overdue loan to defaulted.
func (s *Service) MarkDefaulted(ctx context.Context, loanID int64) error {
	loan, err := s.repo.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != StatusOverdue {
		return fmt.Errorf("%w: only overdue loans can default, loan is %s", httpx.ErrConflict, loan.Status)
	}
	return s.repo.SetStatus(ctx, loanID, StatusDefaulted)
}

// Repay records a payment against the vendor's own loan. Once the running
// total covers the repayable amount the loan flips to repaid.
func (s *Service) Repay(ctx context.Context, vendorID, loanID int64, amount float64, method string) (*Loan, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: repayment amount must be positive", httpx.ErrValidation)
	}

	loan, err := s.repo.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.VendorID != vendorID {
		return nil, httpx.ErrForbidden
	}
	if loan.Status != StatusActive && loan.Status != StatusOverdue {
		return nil, fmt.Errorf("%w: loan is %s, repayments need an active or overdue loan", httpx.ErrConflict, loan.Status)
	}

	total, err := s.repo.RecordRepayment(ctx, loanID, amount, method)
	if err != nil {
		return nil, err
	}

	if loan.AmountToRepay != nil && total >= *loan.AmountToRepay {
		if err := s.repo.SetStatus(ctx, loanID, StatusRepaid); err != nil {
			return nil, err
		}
		loan.Status = StatusRepaid
	}
	now := s.now()
	loan.LastRepaymentDate = &now
	return loan, nil
}

// Repayments lists payments on the vendor's own loan.
func (s *Service) Repayments(ctx context.Context, vendorID, loanID int64) ([]Repayment, error) {
	loan, err := s.repo.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.VendorID != vendorID {
		return nil, httpx.ErrForbidden
	}
	return s.repo.ListRepayments(ctx, loanID)
}

// ScanOverdue flips active loans past due to overdue. Run periodically by
// the background worker.
func (s *Service) ScanOverdue(ctx context.Context) (int64, error) {
	return s.repo.MarkOverdue(ctx, s.now())
}
