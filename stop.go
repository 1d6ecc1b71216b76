package gate

import "errors"

// Stop wraps an error to signal that the failure is final. A controller whose
// action returns a Stop error becomes exhausted immediately, whatever
// attempts remain. The unwrapped error is what hooks and records see.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}

// IsStop reports whether err was wrapped with Stop.
func IsStop(err error) bool {
	var stopped *stopError
	return errors.As(err, &stopped)
}

// stopError wraps an error that should not be retried.
type stopError struct {
	err error
}

func (e *stopError) Error() string {
	return e.err.Error()
}

func (e *stopError) Unwrap() error {
	return e.err
}

func unwrapStop(err error) error {
	var stopped *stopError
	if errors.As(err, &stopped) {
		return stopped.Unwrap()
	}
	return err
}
