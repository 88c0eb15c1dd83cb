package winq

// RaiseFunction is RAISE(...), valid inside trigger programs.
type RaiseFunction struct {
	node
	action  string
	message string
}

// NewRaiseFunction creates RAISE(IGNORE); use Rollback, Abort or Fail to
// raise with a message instead.
func NewRaiseFunction() *RaiseFunction {
	return &RaiseFunction{node: node{kind: KindRaiseFunction}, action: "IGNORE"}
}

func (r *RaiseFunction) with(action, message string) *RaiseFunction {
	r.action, r.message = action, message
	return r
}

func (r *RaiseFunction) Ignore() *RaiseFunction { return r.with("IGNORE", "") }
func (r *RaiseFunction) Rollback(message string) *RaiseFunction { return r.with("ROLLBACK", message) }
func (r *RaiseFunction) Abort(message string) *RaiseFunction { return r.with("ABORT", message) }
func (r *RaiseFunction) Fail(message string) *RaiseFunction { return r.with("FAIL", message) }

// Description implements Identifier.
func (r *RaiseFunction) Description() string {
	if r.action == "IGNORE" {
		return "RAISE(IGNORE)"
	}
	return "RAISE(" + r.action + ", " + quoteString(r.message) + ")"
}

func (r *RaiseFunction) asExpression() *Expression {
	e := newExpression(exprRaise)
	e.raise = r
	return e
}
