package reconcile

// Status classifies the result of one remote mutation.
type Status string

// Outcome statuses.
const (
	StatusSucceeded             Status = Status("succeeded")
	StatusAlreadyInDesiredState Status = Status("already-in-desired-state")
	StatusFailed                Status = Status("failed")
)

// Outcome is the tri-state result of applying one planned action.
type Outcome struct {
	Status Status
	Reason string
}

// Succeeded reports a completed mutation.
func Succeeded() Outcome {
	return Outcome{Status: StatusSucceeded}
}

// AlreadyInDesiredState reports a mutation that was unnecessary; note explains why.
func AlreadyInDesiredState(note string) Outcome {
	return Outcome{Status: StatusAlreadyInDesiredState, Reason: note}
}

// Failed reports a mutation the platform rejected.
func Failed(cause error) Outcome {
	if cause == nil {
		return Outcome{Status: StatusFailed}
	}
	return Outcome{Status: StatusFailed, Reason: cause.Error()}
}

// IsFailure reports whether the outcome is a failure.
func (outcome Outcome) IsFailure() bool {
	return outcome.Status == StatusFailed
}
