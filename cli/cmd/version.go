package cmd

import (
	"fmt"
	"io"

	"github.com/ardnew/platelet/pkg"
)

// Version prints the program version.
type Version struct {
	Stdout io.Writer `kong:"-"`
}

// Run executes the version command.
func (v *Version) Run() error {
	_, err := fmt.Fprintln(stdout(v.Stdout), pkg.Name, pkg.Version)

	return err
}
