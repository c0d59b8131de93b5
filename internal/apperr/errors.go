package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrMalformedContent = errors.New("malformed content")
	ErrTemplateMissing  = errors.New("template missing")
)
