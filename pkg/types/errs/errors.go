package errs

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUnsupportedMedia   = errors.New("unsupported media")
)
