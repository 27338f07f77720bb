package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("history index out of range")
	ErrEditDeclined    = errors.New("decline edit")
	ErrUnknownCommand  = errors.New("unknown command (try 'help')")
	ErrMissingArgument = errors.New("missing argument")
)
