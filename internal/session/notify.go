package session

// Severity classifies a toast for the rendering boundary.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast is a single user-visible notification. Every operation produces at
// most one; consumers render and auto-dismiss it on their own.
type Toast struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// UIHooks is the presentation boundary the session drives: notifications
// and modal dismissal. Implementations must be cheap and non-blocking.
type UIHooks interface {
	Notify(Toast)
	CloseModal()
}

// NopHooks is the default UIHooks when no presentation layer is attached.
type NopHooks struct{}

func (NopHooks) Notify(Toast) {}
func (NopHooks) CloseModal()  {}
