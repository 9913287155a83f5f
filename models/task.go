package models

import "time"

// TaskState is the observable state of an intake analysis
type TaskState string

const (
	// TaskPending is waiting on the AI provider
	TaskPending TaskState = "pending"
	// TaskResolved carries the provider's brief
	TaskResolved TaskState = "resolved"
	// TaskFailed carries the fallback brief; the flow can still continue
	TaskFailed TaskState = "failed"
)

// AnalysisTask is a snapshot of one asynchronous intake analysis
type AnalysisTask struct {
	ID             string     `json:"id"`
	State          TaskState  `json:"state"`
	RawDescription string     `json:"rawDescription"`
	Brief          *CaseBrief `json:"brief,omitempty"`
	Failure        string     `json:"failure,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// Terminal reports whether the task has finished
func (t AnalysisTask) Terminal() bool {
	return t.State == TaskResolved || t.State == TaskFailed
}
