package reload

// timeoutError signals that the serving process did not answer the reload
// directive before retries were exhausted.
type timeoutError struct{ msg string }

func (e timeoutError) Error() string { return "reload timeout: " + e.msg }

// ErrTimeout constructs a timeoutError.
func ErrTimeout(msg string) error { return timeoutError{msg: msg} }

// IsTimeout reports whether err indicates reload retry exhaustion on
// transport failures or timeouts.
func IsTimeout(err error) bool {
	_, ok := err.(timeoutError)
	return ok
}

// rejectedError signals that the serving process answered the reload
// directive with an explicit failure.
type rejectedError struct{ msg string }

func (e rejectedError) Error() string { return "reload rejected: " + e.msg }

// ErrRejected constructs a rejectedError.
func ErrRejected(msg string) error { return rejectedError{msg: msg} }

// IsRejected reports whether err indicates an explicit reload refusal.
func IsRejected(err error) bool {
	_, ok := err.(rejectedError)
	return ok
}

// restartTimeoutError signals that a supervisor restart did not reach a
// healthy state in time.
type restartTimeoutError struct{ msg string }

func (e restartTimeoutError) Error() string { return "restart timeout: " + e.msg }

// ErrRestartTimeout constructs a restartTimeoutError.
func ErrRestartTimeout(msg string) error { return restartTimeoutError{msg: msg} }

// IsRestartTimeout reports whether err indicates a restart that never came
// back healthy.
func IsRestartTimeout(err error) bool {
	_, ok := err.(restartTimeoutError)
	return ok
}
