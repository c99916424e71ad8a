package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrBind              = fmt.Errorf("unable to bind listener")
	ErrNoSubscribers     = fmt.Errorf("no active subscribers")
	ErrHubClosed         = fmt.Errorf("broadcast hub closed")
	ErrEmpty             = fmt.Errorf("no pending message")
	ErrSessionClosed     = fmt.Errorf("session already closed")
	ErrServerUnreachable = fmt.Errorf("chat server unreachable")
	ErrInvalidPort       = fmt.Errorf("invalid port")
	ErrListenerClosed    = fmt.Errorf("listener closed while relay running")
)

// LagError is returned by a subscription that fell behind the hub backlog.
// The subscription has already been moved to the oldest retained message.
type LagError struct {
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("subscription lagged, missed %d messages", e.Missed)
}
