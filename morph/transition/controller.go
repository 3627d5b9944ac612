package transition

import (
	"github.com/gekko3d/lumen/morph/core"
)

// FrameContext is the read-only input of one frame.
type FrameContext struct {
	Mode    core.Mode
	Dt      float32
	Elapsed float64
}

// Valid reports whether the frame can be applied: Dt must be finite and
// non-negative.
func (f FrameContext) Valid() bool {
	return core.Finite(f.Dt) && f.Dt >= 0
}

// Controller advances every registered layer state once per frame toward
// the targets of the current mode. Mode changes are level-triggered.
type Controller struct {
	names   []string
	states  []*State
	index   map[string]int
	skipped int
}

func NewController() *Controller {
	return &Controller{index: make(map[string]int)}
}

// Register adds st under name, replacing any state already registered there.
func (c *Controller) Register(name string, st *State) {
	if i, ok := c.index[name]; ok {
		c.states[i] = st
		return
	}
	c.index[name] = len(c.states)
	c.names = append(c.names, name)
	c.states = append(c.states, st)
}

func (c *Controller) State(name string) (*State, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.states[i], true
}

func (c *Controller) Len() int {
	return len(c.states)
}

// Each visits states in registration order.
func (c *Controller) Each(fn func(name string, st *State)) {
	for i, st := range c.states {
		fn(c.names[i], st)
	}
}

// Update applies one frame. A frame with a non-finite or negative Dt is
// skipped and Update returns false.
func (c *Controller) Update(frame FrameContext) bool {
	if !frame.Valid() {
		c.skipped++
		return false
	}
	for _, st := range c.states {
		st.Retarget(frame.Mode)
		st.Advance(frame.Dt)
	}
	return true
}

// Skipped counts frames rejected by Update.
func (c *Controller) Skipped() int {
	return c.skipped
}
