package ops

// SentinelError is type for defining constant error values.
//
// Inspired by: https://dave.cheney.net/2019/06/10/constant-time
type SentinelError string

// Error returns the string value of a SentinelError.
func (e SentinelError) Error() string {
	return string(e)
}

// ErrExternal indicates that a request to an upstream service failed before
// it produced a usable response.
//
// agent.ProdAgent stops the subscription chain when it sees this error, and
// handler.Handler reports a generic failure without the underlying details.
const ErrExternal = SentinelError("external error")

// ErrConfiguration indicates that the process lacks the settings required to
// perform an operation, such as the provider API keys.
const ErrConfiguration = SentinelError("configuration error")
