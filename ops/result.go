package ops

//go:generate go run golang.org/x/tools/cmd/stringer -type=OperationResult
type OperationResult int

const (
	Invalid OperationResult = iota
	Subscribed
	SubscribedAfterCreate
	SubscribedInBulk
	NotSubscribed
	DemoSubmitted
	DemoNotSubmitted
)

// Success reports whether the operation achieved what the caller asked for.
func (r OperationResult) Success() bool {
	switch r {
	case Subscribed, SubscribedAfterCreate, SubscribedInBulk, DemoSubmitted:
		return true
	}
	return false
}
