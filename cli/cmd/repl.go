package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/platelet/cli/cmd/repl"
	"github.com/ardnew/platelet/log"
)

// historyFile is the name of the REPL history file in the cache directory.
const historyFile = "history"

// Repl starts an interactive console evaluating expressions against a data
// context.
type Repl struct {
	Data `embed:""`

	NoHistory bool `help:"Neither read nor write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := r.Scope(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, scope, r.historyPath(ctx), log.Default())
}

func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	dir := kongVar(ctx, CacheIdentifier)
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, historyFile)
}
