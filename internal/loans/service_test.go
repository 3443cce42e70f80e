package loans

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type mockLoanRepo struct {
	loans      map[int64]*Loan
	repayments map[int64][]Repayment
	nextID     int64
}

func newMockLoanRepo() *mockLoanRepo {
	return &mockLoanRepo{
		loans:      map[int64]*Loan{},
		repayments: map[int64][]Repayment{},
	}
}

func (m *mockLoanRepo) Create(_ context.Context, loan Loan) (int64, error) {
	m.nextID++
	loan.ID = m.nextID
	m.loans[loan.ID] = &loan
	return loan.ID, nil
}

func (m *mockLoanRepo) Get(_ context.Context, id int64) (*Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *l
	return &snapshot, nil
}

func (m *mockLoanRepo) ListByVendor(_ context.Context, vendorID int64) ([]Loan, error) {
	var out []Loan
	for _, l := range m.loans {
		if l.VendorID == vendorID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLoanRepo) ListByStatus(_ context.Context, status Status) ([]Loan, error) {
	var out []Loan
	for _, l := range m.loans {
		if l.Status == status {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLoanRepo) HasActiveLoan(_ context.Context, vendorID int64) (bool, error) {
	for _, l := range m.loans {
		if l.VendorID == vendorID && l.Status == StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLoanRepo) Activate(_ context.Context, loanID, adminID int64, due time.Time, repay float64) error {
	l, ok := m.loans[loanID]
	if !ok || l.Status != StatusPending {
		return shared.ErrNotFound
	}
	l.Status = StatusActive
	l.AdminApprovedBy = &adminID
	l.DueDate = &due
	l.AmountToRepay = &repay
	return nil
}

func (m *mockLoanRepo) SetStatus(_ context.Context, loanID int64, status Status) error {
	l, ok := m.loans[loanID]
	if !ok {
		return shared.ErrNotFound
	}
	l.Status = status
	return nil
}

func (m *mockLoanRepo) RecordRepayment(_ context.Context, loanID int64, amount float64, method string) (float64, error) {
	m.repayments[loanID] = append(m.repayments[loanID], Repayment{
		LoanID: loanID, AmountPaid: amount, PaymentMethod: method,
	})
	var total float64
	for _, r := range m.repayments[loanID] {
		total += r.AmountPaid
	}
	return total, nil
}

func (m *mockLoanRepo) ListRepayments(_ context.Context, loanID int64) ([]Repayment, error) {
	return m.repayments[loanID], nil
}

func (m *mockLoanRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, l := range m.loans {
		if l.Status == StatusActive && l.DueDate != nil && l.DueDate.Before(asOf) {
			l.Status = StatusOverdue
			n++
		}
	}
	return n, nil
}

func newLoanFixture() (*Service, *mockLoanRepo) {
	repo := newMockLoanRepo()
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestApplyDerivesTerms(t *testing.T) {
	svc, _ := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 14)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, loan.Status)
	assert.Equal(t, 0.08, loan.InterestRate)
	require.NotNil(t, loan.AmountToRepay)
	assert.InDelta(t, 1080.0, *loan.AmountToRepay, 1e-9)
	require.NotNil(t, loan.DueDate)
	assert.Equal(t, time.Date(2026, 3, 24, 10, 0, 0, 0, time.UTC), *loan.DueDate)
}

func TestApplyFallbackRate(t *testing.T) {
	svc, _ := newLoanFixture()

	// 5 days has no dedicated rate and falls back to 5%.
	loan, err := svc.Apply(context.Background(), 1, 200, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.05, loan.InterestRate)
	assert.InDelta(t, 210.0, *loan.AmountToRepay, 1e-9)
}

func TestApplyRejectsBadInput(t *testing.T) {
	svc, _ := newLoanFixture()

	_, err := svc.Apply(context.Background(), 1, -5, 7)
	assert.Error(t, err)

	_, err = svc.Apply(context.Background(), 1, 500, 3)
	assert.Error(t, err)
}

func TestApplyBlockedByActiveLoan(t *testing.T) {
	svc, repo := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 7)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(context.Background(), loan.ID, StatusActive))

	_, err = svc.Apply(context.Background(), 1, 500, 7)
	assert.ErrorIs(t, err, ErrActiveLoanExists)

	// A different vendor is unaffected.
	_, err = svc.Apply(context.Background(), 2, 500, 7)
	assert.NoError(t, err)
}

func TestApproveActivates(t *testing.T) {
	svc, repo := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 14)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), 99, loan.ID))

	stored := repo.loans[loan.ID]
	assert.Equal(t, StatusActive, stored.Status)
	require.NotNil(t, stored.AdminApprovedBy)
	assert.Equal(t, int64(99), *stored.AdminApprovedBy)

	// Approving twice conflicts.
	assert.Error(t, svc.Approve(context.Background(), 99, loan.ID))
}

func TestRepayTransitionsToRepaid(t *testing.T) {
	svc, repo := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 14)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), 99, loan.ID))

	updated, err := svc.Repay(context.Background(), 1, loan.ID, 500, "online")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, updated.Status)

	updated, err = svc.Repay(context.Background(), 1, loan.ID, 580, "cash")
	require.NoError(t, err)
	assert.Equal(t, StatusRepaid, updated.Status)
	assert.Equal(t, StatusRepaid, repo.loans[loan.ID].Status)

	// Further repayments on a repaid loan conflict.
	_, err = svc.Repay(context.Background(), 1, loan.ID, 10, "cash")
	assert.Error(t, err)
}

func TestRepayOwnershipAndStatusChecks(t *testing.T) {
	svc, _ := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 14)
	require.NoError(t, err)

	// Pending loans take no repayments.
	_, err = svc.Repay(context.Background(), 1, loan.ID, 100, "cash")
	assert.Error(t, err)

	require.NoError(t, svc.Approve(context.Background(), 99, loan.ID))

	// Another vendor cannot repay it.
	_, err = svc.Repay(context.Background(), 2, loan.ID, 100, "cash")
	assert.Error(t, err)
}

func TestScanOverdue(t *testing.T) {
	svc, repo := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), 99, loan.ID))

	svc.now = func() time.Time {
		return time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	}
	n, err := svc.ScanOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StatusOverdue, repo.loans[loan.ID].Status)

	// Overdue loans can still be repaid and then close out.
	updated, err := svc.Repay(context.Background(), 1, loan.ID, 1020, "online")
	require.NoError(t, err)
	assert.Equal(t, StatusRepaid, updated.Status)
}

func TestMarkDefaultedNeedsOverdue(t *testing.T) {
	svc, repo := newLoanFixture()

	loan, err := svc.Apply(context.Background(), 1, 1000, 2)
	require.NoError(t, err)

	assert.Error(t, svc.MarkDefaulted(context.Background(), loan.ID))

	require.NoError(t, repo.SetStatus(context.Background(), loan.ID, StatusOverdue))
	require.NoError(t, svc.MarkDefaulted(context.Background(), loan.ID))
	assert.Equal(t, StatusDefaulted, repo.loans[loan.ID].Status)
}
