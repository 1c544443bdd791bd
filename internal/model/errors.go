package model

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDegenerateWindow  = errors.New("degenerate filter window")
	ErrEmptyDistribution = errors.New("energy loss distribution has no mass")
)
