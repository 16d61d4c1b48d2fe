package formula

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
)

// Env is the evaluation context for one formula. Identifier resolution
// order: LineValues first, then EventSums, else zero with a recorded
// warning — an unknown identifier never aborts evaluation, because a
// statement must stay renderable while mapping coverage is incomplete.
type Env struct {
	LineValues map[string]decimal.Decimal
	EventSums  domain.EventSummary

	// OnWarning receives soft conditions (unknown identifier, division by
	// zero). Nil is allowed.
	OnWarning func(domain.Warning)
}

func (e *Env) warn(w domain.Warning) {
	if e.OnWarning != nil {
		e.OnWarning(w)
	}
}

func (e *Env) resolve(name string) decimal.Decimal {
	if v, ok := e.LineValues[name]; ok {
		return v
	}
	if v, ok := e.EventSums[name]; ok {
		return v
	}
	e.warn(domain.Warning{
		Kind:    domain.WarningUnknownIdentifier,
		Subject: name,
		Message: fmt.Sprintf("identifier %q resolved neither as line nor event, using 0", name),
	})
	return decimal.Zero
}

// Evaluate computes the value of a parsed formula under env. It never
// fails: soft conditions contribute zero and are reported through
// env.OnWarning. All arithmetic is exact decimal arithmetic.
func Evaluate(n *Node, env *Env) decimal.Decimal {
	switch n.Kind {
	case NodeNumber:
		return n.Value

	case NodeIdent:
		return env.resolve(n.Name)

	case NodeUnary:
		return Evaluate(n.Left, env).Neg()

	case NodeBinary:
		return evalBinary(n, env)

	case NodeCall:
		return evalCall(n, env)

	default:
		return decimal.Zero
	}
}

func evalBinary(n *Node, env *Env) decimal.Decimal {
	left := Evaluate(n.Left, env)
	right := Evaluate(n.Right, env)

	switch n.Op {
	case "+":
		return left.Add(right)
	case "-":
		return left.Sub(right)
	case "*":
		return left.Mul(right)
	case "/":
		if right.IsZero() {
			env.warn(domain.Warning{
				Kind:    domain.WarningDivisionByZero,
				Subject: n.Op,
				Message: "division by zero, using 0",
			})
			return decimal.Zero
		}
		return left.Div(right)
	case "=", "==":
		return boolToDecimal(left.Equal(right))
	case "<>", "!=":
		return boolToDecimal(!left.Equal(right))
	case "<":
		return boolToDecimal(left.LessThan(right))
	case "<=":
		return boolToDecimal(left.LessThanOrEqual(right))
	case ">":
		return boolToDecimal(left.GreaterThan(right))
	case ">=":
		return boolToDecimal(left.GreaterThanOrEqual(right))
	default:
		return decimal.Zero
	}
}

func evalCall(n *Node, env *Env) decimal.Decimal {
	switch n.Name {
	case "SUM":
		total := decimal.Zero
		for _, arg := range n.Args {
			total = total.Add(Evaluate(arg, env))
		}
		return total

	case "IF":
		if !Evaluate(n.Args[0], env).IsZero() {
			return Evaluate(n.Args[1], env)
		}
		return Evaluate(n.Args[2], env)

	case "ABS":
		return Evaluate(n.Args[0], env).Abs()

	case "MIN":
		min := Evaluate(n.Args[0], env)
		for _, arg := range n.Args[1:] {
			if v := Evaluate(arg, env); v.LessThan(min) {
				min = v
			}
		}
		return min

	case "MAX":
		max := Evaluate(n.Args[0], env)
		for _, arg := range n.Args[1:] {
			if v := Evaluate(arg, env); v.GreaterThan(max) {
				max = v
			}
		}
		return max

	default:
		return decimal.Zero
	}
}

func boolToDecimal(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}
