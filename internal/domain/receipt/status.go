package receipt

// Status represents the audit status of a receipt
type Status string

const (
	StatusUnaudited        Status = "UNAUDITED"
	StatusAudited          Status = "AUDITED"
	StatusPartiallyLinked  Status = "PARTIALLY_LINKED"
	StatusCompletelyLinked Status = "COMPLETELY_LINKED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusUnaudited, StatusAudited, StatusPartiallyLinked, StatusCompletelyLinked:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusUnaudited:
		return target == StatusAudited
	case StatusAudited:
		// Audit can be withdrawn; order execution marks linkage.
		return target == StatusUnaudited || target == StatusPartiallyLinked || target == StatusCompletelyLinked
	case StatusPartiallyLinked:
		return target == StatusPartiallyLinked || target == StatusCompletelyLinked
	case StatusCompletelyLinked:
		return false
	}
	return false
}
