package formula

import "github.com/shopspring/decimal"

// NodeKind discriminates the AST node variants.
type NodeKind int

const (
	// NodeNumber is a numeric literal.
	NodeNumber NodeKind = iota
	// NodeIdent is a reference to a line code or event code.
	NodeIdent
	// NodeUnary is unary negation.
	NodeUnary
	// NodeBinary is an arithmetic or comparison operation.
	NodeBinary
	// NodeCall is a function call: SUM, IF, ABS, MIN, MAX.
	NodeCall
)

// Node is one node of a parsed formula. Nodes are immutable after parsing,
// so a parsed formula is safe to cache with its template and share across
// concurrent evaluations.
type Node struct {
	Kind  NodeKind
	Value decimal.Decimal // NodeNumber
	Name  string          // NodeIdent: identifier; NodeCall: upper-cased function name
	Op    string          // NodeUnary, NodeBinary
	Left  *Node           // NodeBinary; NodeUnary operand
	Right *Node           // NodeBinary
	Args  []*Node         // NodeCall
}

// Identifiers returns every identifier referenced anywhere in the tree,
// in first-seen order without duplicates. Template validation uses this to
// build the line-dependency graph.
func (n *Node) Identifiers() []string {
	var out []string
	seen := make(map[string]struct{})
	n.walkIdentifiers(seen, &out)
	return out
}

func (n *Node) walkIdentifiers(seen map[string]struct{}, out *[]string) {
	if n == nil {
		return
	}
	if n.Kind == NodeIdent {
		if _, ok := seen[n.Name]; !ok {
			seen[n.Name] = struct{}{}
			*out = append(*out, n.Name)
		}
		return
	}
	n.Left.walkIdentifiers(seen, out)
	n.Right.walkIdentifiers(seen, out)
	for _, arg := range n.Args {
		arg.walkIdentifiers(seen, out)
	}
}
