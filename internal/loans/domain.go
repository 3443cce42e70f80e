package loans

import "time"

// Status tracks a loan through its lifecycle.
type Status string

// Loan statuses.
const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusOverdue   Status = "overdue"
	StatusDefaulted Status = "defaulted"
)

// RepaymentPeriods lists the offered repayment periods in days.
var RepaymentPeriods = []int{2, 5, 7, 14, 30}

// ValidPeriod reports whether days is an offered repayment period.
func ValidPeriod(days int) bool {
	for _, p := range RepaymentPeriods {
		if p == days {
			return true
		}
	}
	return false
}

// InterestRateFor returns the flat interest rate for a repayment period.
// Periods without a dedicated rate fall back to 5%.
func InterestRateFor(days int) float64 {
	switch days {
	case 2:
		return 0.02
	case 7:
		return 0.05
	case 14:
		return 0.08
	case 30:
		return 0.10
	}
	return 0.05
}

// Loan is a micro-loan granted to a vendor.
type Loan struct {
	ID                  int64      `json:"id"`
	VendorID            int64      `json:"vendor_id"`
	VendorName          string     `json:"vendor_name,omitempty"`
	AmountGranted       float64    `json:"amount_granted"`
	RepaymentPeriodDays int        `json:"repayment_period_days"`
	InterestRate        float64    `json:"interest_rate"`
	AmountToRepay       *float64   `json:"amount_to_repay"`
	DisbursementDate    time.Time  `json:"disbursement_date"`
	DueDate             *time.Time `json:"due_date"`
	Status              Status     `json:"status"`
	LastRepaymentDate   *time.Time `json:"last_repayment_date"`
	AdminApprovedBy     *int64     `json:"admin_approved_by"`
}

// Derive fills the due date and total repayable amount from the
// disbursement date, period and rate.
func (l *Loan) Derive() {
	due := l.DisbursementDate.AddDate(0, 0, l.RepaymentPeriodDays)
	repay := l.AmountGranted * (1 + l.InterestRate)
	l.DueDate = &due
	l.AmountToRepay = &repay
}

// Repayment is one payment made against a loan.
type Repayment struct {
	ID            int64     `json:"id"`
	LoanID        int64     `json:"loan_id"`
	AmountPaid    float64   `json:"amount_paid"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
}
