package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/manaswi-siripurapu/SpiceRoute/internal/jobs"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/loans"
)

// LoanOverdueScanJob transitions active loans past their due date to overdue.
type LoanOverdueScanJob struct {
	Loans   *loans.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLoanOverdueScanJob initialises the overdue scan handler.
func NewLoanOverdueScanJob(loanService *loans.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LoanOverdueScanJob {
	return &LoanOverdueScanJob{Loans: loanService, Logger: logger, Metrics: metrics}
}

// Handle executes the overdue scan.
func (j *LoanOverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Loans == nil {
		return errors.New("loan overdue scan: handler not configured")
	}

	start := time.Now()
	tracker := j.metrics().Track(TaskLoanOverdueScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting loan overdue scan")

	marked, err := j.Loans.ScanOverdue(ctx)
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}
	j.metrics().AddOverdueLoans(int(marked))

	logger.Info("completed loan overdue scan",
		slog.Int64("marked_overdue", marked),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *LoanOverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLoanOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskLoanOverdueScan))
}

func (j *LoanOverdueScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
