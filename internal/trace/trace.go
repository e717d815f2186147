package trace

import "fmt"

// Action is one recorded motion command. The trace records exactly one
// action per movement primitive call, whether or not the move succeeded.
type Action int

const (
	Move Action = iota
	TurnLeft
	TurnRight
)

var actionNames = map[Action]string{
	Move:      "move",
	TurnLeft:  "turnLeft",
	TurnRight: "turnRight",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalJSON encodes the action under its wire name.
func (a Action) MarshalJSON() ([]byte, error) {
	name, ok := actionNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return []byte(`"` + name + `"`), nil
}

func (a *Action) UnmarshalJSON(data []byte) error {
	s := string(data)
	for act, name := range actionNames {
		if s == `"`+name+`"` {
			*a = act
			return nil
		}
	}
	return fmt.Errorf("unknown action %s", s)
}

// Trace is the ordered action buffer for a single run. It has one producer
// (the movement primitives) during the execution phase and one consumer (the
// replay engine) afterwards; the two phases never overlap. A new run always
// allocates a fresh Trace, so a stale replay keeps iterating its own buffer.
type Trace struct {
	actions []Action
}

func New() *Trace {
	return &Trace{actions: make([]Action, 0, 64)}
}

// FromActions builds a trace from an already recorded action sequence.
func FromActions(actions []Action) *Trace {
	t := &Trace{actions: make([]Action, len(actions))}
	copy(t.actions, actions)
	return t
}

// Record appends one action.
func (t *Trace) Record(a Action) {
	t.actions = append(t.actions, a)
}

func (t *Trace) Len() int { return len(t.actions) }

// Actions returns the recorded sequence. The consumer must treat it as
// read-only.
func (t *Trace) Actions() []Action { return t.actions }
