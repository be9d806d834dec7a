package job

// Status is the lifecycle of one job execution. Transitions are
// PENDING -> RUNNING -> {COMPLETED, FAILED}; terminal states are final and
// there are no retries at this layer.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
