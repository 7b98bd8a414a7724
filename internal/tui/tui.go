// Package tui is the terminal counterpart of the tray: it shows the badge,
// tooltip and last check time and quits on q.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juststeveking/pingtray/internal/monitor"
)

// Shell runs the dashboard program and receives display states from the
// poll loop
type Shell struct {
	program *tea.Program
}

// New creates a terminal shell. onQuit is called when the user quits.
func New(info Info, onQuit func(), opts ...tea.ProgramOption) *Shell {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Shell{
		program: tea.NewProgram(NewModel(info, onQuit), opts...),
	}
}

// Show implements monitor.Sink. The icon is not used in a terminal.
func (s *Shell) Show(state monitor.DisplayState, _ []byte) {
	s.program.Send(stateMsg(state))
}

// Run blocks until the dashboard exits. onStart runs before the program
// starts and onExit after it has returned.
func (s *Shell) Run(onStart, onExit func()) error {
	if onStart != nil {
		onStart()
	}
	_, err := s.program.Run()
	if onExit != nil {
		onExit()
	}
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	return nil
}

// Quit asks the program to exit
func (s *Shell) Quit() {
	s.program.Quit()
}
