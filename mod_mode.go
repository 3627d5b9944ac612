package lumen

import (
	"sync"

	"github.com/gekko3d/lumen/morph/core"
)

// ModeState is the shared current mode. UI toggles call Set; momentary
// inputs (a held gesture) call Hold and Release, which restores whatever
// mode was active before the hold began.
type ModeState struct {
	mu      sync.Mutex
	current core.Mode
	restore core.Mode
	holding bool
	changes uint64
}

func NewModeState(initial core.Mode) *ModeState {
	return &ModeState{current: initial}
}

func (s *ModeState) Current() core.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set selects m. An explicit Set also ends any hold.
func (s *ModeState) Set(m core.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holding = false
	s.apply(m)
}

// Hold switches to m until Release. Holding again while held replaces the
// held mode but keeps the original restore target.
func (s *ModeState) Hold(m core.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.holding {
		s.restore = s.current
		s.holding = true
	}
	s.apply(m)
}

// Release ends a hold and reports whether one was active.
func (s *ModeState) Release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.holding {
		return false
	}
	s.holding = false
	s.apply(s.restore)
	return true
}

func (s *ModeState) Holding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holding
}

// Changes counts how many times the mode value actually changed.
func (s *ModeState) Changes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

func (s *ModeState) apply(m core.Mode) {
	if m != s.current {
		s.changes++
	}
	s.current = m
}

type ModeModule struct {
	Initial core.Mode
}

func (mod ModeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewModeState(mod.Initial))
}
