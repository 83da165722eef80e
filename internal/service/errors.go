package service

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrParse            = errors.New("parse error")
	ErrUpstream         = errors.New("upstream failure")
)
