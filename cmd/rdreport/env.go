package main

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"

	rdreport "github.com/alnah/go-rdreport"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now       func() time.Time
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Clipboard Clipboard

	// NewPool builds the generator pool of a generate run.
	NewPool func(size int, opts ...rdreport.Option) Pool
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard is the OS clipboard (xclip/xsel/wl-clipboard on Linux).
type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: systemClipboard{},
		NewPool: func(size int, opts ...rdreport.Option) Pool {
			return &generatorPool{pool: rdreport.NewGeneratorPool(size, opts...)}
		},
	}
}
