package script

import (
	"context"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// API is the capability surface a program runs against. The executor never
// touches maze or agent state directly; everything goes through here.
type API interface {
	Move()
	TurnLeft()
	TurnRight()
	PathAhead() bool
	PathLeft() bool
	PathRight() bool
	PathBehind() bool
	AtGoal() bool
}

var (
	actionFuncs = map[string]bool{
		"move": true, "turn_left": true, "turn_right": true,
	}
	predicateFuncs = map[string]bool{
		"at_goal": true, "path_ahead": true, "path_left": true,
		"path_right": true, "path_behind": true,
	}
)

// Limits bounds a single program execution. The wall-clock budget comes
// from the context deadline, checked once per statement.
type Limits struct {
	MaxActions   int
	MaxLoopIters int
}

const (
	DefaultMaxActions   = 2000
	DefaultMaxLoopIters = 20000
)

func DefaultLimits() Limits {
	return Limits{MaxActions: DefaultMaxActions, MaxLoopIters: DefaultMaxLoopIters}
}

// Error is a program error tied to a source position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Msg)
}

func errAt(pos lexer.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type runState struct {
	ctx     context.Context
	api     API
	limits  Limits
	actions int
}

// Exec runs the program against api. Budget exhaustion, context expiry and
// misuse of the language all surface as errors; the caller decides whether
// they are fatal.
func (p *Program) Exec(ctx context.Context, api API, limits Limits) error {
	rs := &runState{ctx: ctx, api: api, limits: limits}
	return execBlock(p.Statements, rs)
}

func execBlock(stmts []*Statement, rs *runState) error {
	for _, st := range stmts {
		if err := st.exec(rs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Statement) exec(rs *runState) error {
	if err := rs.ctx.Err(); err != nil {
		return fmt.Errorf("program stopped: %w", err)
	}
	switch {
	case s.If != nil:
		return s.If.exec(rs)
	case s.While != nil:
		return s.While.exec(rs)
	case s.Repeat != nil:
		return s.Repeat.exec(rs)
	case s.Call != nil:
		return s.Call.execAction(rs)
	}
	return nil
}

func (s *IfStmt) exec(rs *runState) error {
	ok, err := s.Cond.eval(rs)
	if err != nil {
		return err
	}
	switch {
	case ok:
		return execBlock(s.Then.Statements, rs)
	case s.ElseIf != nil:
		return s.ElseIf.exec(rs)
	case s.Else != nil:
		return execBlock(s.Else.Statements, rs)
	}
	return nil
}

func (s *WhileStmt) exec(rs *runState) error {
	iters := 0
	for {
		if err := rs.ctx.Err(); err != nil {
			return fmt.Errorf("program stopped: %w", err)
		}
		ok, err := s.Cond.eval(rs)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		iters++
		if iters > rs.limits.MaxLoopIters {
			return errAt(s.Pos, "loop ran more than %d times, is the condition ever false?", rs.limits.MaxLoopIters)
		}
		if err := execBlock(s.Body.Statements, rs); err != nil {
			return err
		}
	}
}

func (s *RepeatStmt) exec(rs *runState) error {
	if s.Count < 0 {
		return errAt(s.Pos, "repeat count must not be negative")
	}
	for i := 0; i < s.Count; i++ {
		// Checked per iteration, not just per statement: an empty body
		// would otherwise spin through a huge count unbounded.
		if err := rs.ctx.Err(); err != nil {
			return fmt.Errorf("program stopped: %w", err)
		}
		if err := execBlock(s.Body.Statements, rs); err != nil {
			return err
		}
	}
	return nil
}

func (c *CallStmt) execAction(rs *runState) error {
	if !actionFuncs[c.Name] {
		if predicateFuncs[c.Name] {
			return errAt(c.Pos, "'%s' answers a question, use it in a condition", c.Name)
		}
		return errAt(c.Pos, "unknown function '%s'", c.Name)
	}
	rs.actions++
	if rs.actions > rs.limits.MaxActions {
		return errAt(c.Pos, "program stopped: exceeded %d actions", rs.limits.MaxActions)
	}
	switch c.Name {
	case "move":
		rs.api.Move()
	case "turn_left":
		rs.api.TurnLeft()
	case "turn_right":
		rs.api.TurnRight()
	}
	return nil
}

func (c *CallStmt) evalPredicate(rs *runState) (bool, error) {
	switch c.Name {
	case "at_goal":
		return rs.api.AtGoal(), nil
	case "path_ahead":
		return rs.api.PathAhead(), nil
	case "path_left":
		return rs.api.PathLeft(), nil
	case "path_right":
		return rs.api.PathRight(), nil
	case "path_behind":
		return rs.api.PathBehind(), nil
	}
	if actionFuncs[c.Name] {
		return false, errAt(c.Pos, "'%s' changes the world, it cannot be used in a condition", c.Name)
	}
	return false, errAt(c.Pos, "unknown function '%s'", c.Name)
}

func (e *Expr) eval(rs *runState) (bool, error) {
	val, err := e.Left.eval(rs)
	if err != nil {
		return false, err
	}
	for _, alt := range e.Rest {
		if val {
			return true, nil
		}
		val, err = alt.eval(rs)
		if err != nil {
			return false, err
		}
	}
	return val, nil
}

func (e *AndExpr) eval(rs *runState) (bool, error) {
	val, err := e.Left.eval(rs)
	if err != nil {
		return false, err
	}
	for _, alt := range e.Rest {
		if !val {
			return false, nil
		}
		val, err = alt.eval(rs)
		if err != nil {
			return false, err
		}
	}
	return val, nil
}

func (e *NotExpr) eval(rs *runState) (bool, error) {
	if e.Not != nil {
		val, err := e.Not.eval(rs)
		return !val, err
	}
	return e.Term.eval(rs)
}

func (t *Term) eval(rs *runState) (bool, error) {
	switch {
	case t.True:
		return true, nil
	case t.False:
		return false, nil
	case t.Paren != nil:
		return t.Paren.eval(rs)
	case t.Call != nil:
		return t.Call.evalPredicate(rs)
	}
	return false, errAt(t.Pos, "invalid expression in condition")
}
