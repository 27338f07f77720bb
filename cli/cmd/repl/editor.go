package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/log"
)

const defaultEditor = "vi"

// editScopeCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop. It writes the current data context as indented JSON to a temp
// file, opens the user's editor, and decodes the result. On a decode error
// the user is prompted to re-edit; declining exits the program.
type editScopeCommand struct {
	ctxFunc  func() context.Context
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   log.Logger
	scope    lang.Value
	newScope lang.Value
	changed  bool
}

// SetStdin sets the stdin reader for the command.
func (c *editScopeCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editScopeCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editScopeCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file leaves the context
// unchanged. If the user declines to re-edit after a decode error, it
// returns [ErrEditDeclined].
func (c *editScopeCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := lang.EncodeJSON(&buf, c.scope, 2); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "platelet-context-*.json")
	if err != nil {
		return err
	}

	tmpPath := f.Name()
	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		content, err = os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		scope, decodeErr := lang.DecodeJSON(bytes.NewReader(content))
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newScope, c.changed = scope, true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor launches $EDITOR (or vi) on the given file path and waits for
// it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
