package lexutil

import "strings"

// FilterArg is one argument to a filter invocation: positional arguments
// have an empty Name, `key=val` arguments set it.
type FilterArg struct {
	Name string
	Expr string
}

// FilterCall is one `:name(args)` link in a filter chain.
type FilterCall struct {
	Name string
	Args []FilterArg
}

// ParseFilterChain parses a leading `:fn1(args1):fn2(args2)…` prefix of line
// into an ordered filter chain, returning the chain and whatever remains of
// line (e.g. trailing inline content) unconsumed (spec §4.3 "Filter-chain
// parse").
func ParseFilterChain(line string) ([]FilterCall, string, bool) {
	if !strings.HasPrefix(line, ":") {
		return nil, line, false
	}

	var chain []FilterCall
	rest := line
	for strings.HasPrefix(rest, ":") {
		rest = rest[1:]
		name, after := consumeIdent(rest)
		if name == "" {
			return nil, line, false
		}
		rest = after

		var args []FilterArg
		if strings.HasPrefix(rest, "(") {
			inner, end, ok := ExtractBalanced(rest, 0, '(', ')')
			if !ok {
				return nil, line, false
			}
			pairs, _ := SplitAttributePairs(inner)
			for _, p := range pairs {
				if p.Boolean {
					args = append(args, FilterArg{Expr: p.Name})
				} else {
					args = append(args, FilterArg{Name: p.Name, Expr: p.Expr})
				}
			}
			rest = rest[end+1:]
		}

		chain = append(chain, FilterCall{Name: name, Args: args})
		if !strings.HasPrefix(rest, ":") {
			break
		}
	}
	return chain, rest, true
}

func consumeIdent(s string) (string, string) {
	n := identLen(s)
	return s[:n], s[n:]
}
