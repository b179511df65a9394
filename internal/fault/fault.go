package fault

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Sentinel conditions. Callers match with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrLogic           = errors.New("logic error")
)

// InvalidArgument reports a bad argument passed to op.
func InvalidArgument(op, msg string) error {
	return newError(ErrInvalidArgument, op, msg)
}

// Logic reports that op was called in a state that does not allow it.
func Logic(op, msg string) error {
	return newError(ErrLogic, op, msg)
}

func newError(kind error, op, msg string) error {
	// skip newError and the exported constructor
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return fmt.Errorf("%s: %s: %w", op, msg, kind)
	}
	return fmt.Errorf("%s:%d::%s: %s: %w", filepath.Base(file), line, op, msg, kind)
}
