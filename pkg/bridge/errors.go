package bridge

import "errors"

var (
	errNoController = errors.New("no controller attached")
	errUnknownInput = errors.New("unknown input type")
)
