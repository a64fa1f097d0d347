package shared

// Outcome classifies how a mutating operation concluded. Handlers map
// outcomes to localized user-facing messages.
type Outcome string

const (
	OutcomeAddSuccess    Outcome = "add_success"
	OutcomeUpdateSuccess Outcome = "update_success"
	OutcomeDeleteSuccess Outcome = "delete_success"
	OutcomeAuditSuccess  Outcome = "audit_success"
	OutcomeFailed        Outcome = "failed"
)

// OpResult carries the outcome of a mutating operation together with
// the message key used for localization.
type OpResult struct {
	Outcome    Outcome `json:"outcome"`
	MessageKey string  `json:"message_key"`
}

// NewOpResult builds an OpResult whose message key is derived from the
// outcome itself.
func NewOpResult(outcome Outcome) OpResult {
	return OpResult{Outcome: outcome, MessageKey: string(outcome)}
}
