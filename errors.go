package winloop

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize       = errors.New("invalid size")
	ErrBackendClosed     = errors.New("backend closed")
	ErrUnsupportedTarget = errors.New("unsupported render target")
)

// InitError reports a failure to acquire the render target or its icon.
// It is fatal for the window: nothing is retried.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// HookError wraps a failure returned by a hook or an event handler.
// Run stops at the first one.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

func makeHookError(hook string, err error) error {
	if err == nil {
		return nil
	}
	var hookErr *HookError
	if errors.As(err, &hookErr) {
		return err
	}
	return &HookError{Hook: hook, Err: err}
}
