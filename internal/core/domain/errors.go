package domain

import "errors"

var (
	ErrPropertyNotFound      = errors.New("property not found")
	ErrInvalidPropertyType   = errors.New("invalid property type")
	ErrInvalidPropertyStatus = errors.New("invalid property status")
	ErrInvalidSortKey        = errors.New("invalid sort field")
	ErrInvalidSortOrder      = errors.New("invalid sort order")
)
