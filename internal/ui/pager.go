package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
	"github.com/pkg/errors"
)

// PagerOps shows long text in the ov pager on top of the running program
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Available reports whether the pager can take over the terminal
func (p *PagerOps) Available() bool {
	return p != nil && p.program != nil
}

// Show pages content until the user quits ov
func (p *PagerOps) Show(content string) error {
	if !p.Available() {
		return errors.New("program not set")
	}

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return errors.Wrap(err, "open pager")
	}

	// Don't write the document back to our screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	if err := p.program.ReleaseTerminal(); err != nil {
		return errors.Wrap(err, "release terminal")
	}
	defer func() {
		// Let ov finish with the terminal before we take it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}
