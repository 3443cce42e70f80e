package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLoanOverdueScan moves active loans past their due date to overdue.
	TaskLoanOverdueScan = "loans:overdue_scan"
)

// NewLoanOverdueScanTask constructs an Asynq task for the overdue scan.
func NewLoanOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskLoanOverdueScan, nil)
}
