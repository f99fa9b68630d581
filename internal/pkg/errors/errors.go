package errors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnsupported    = errors.New("unsupported file type")
	ErrRetrieval      = errors.New("retrieval failed")
	ErrInvalidSession = errors.New("invalid chat thread")
	ErrInvalid        = errors.New("invalid")
	ErrTooMany        = errors.New("too many requests")
	ErrInternal       = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRetrieval(err error) bool {
	return errors.Is(err, ErrRetrieval)
}
