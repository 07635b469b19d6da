package symbolic

// Substitution is an ordered set of replacements old -> new. Keys are
// compared by printed form, so two structurally equal keys are the same
// key. Symbol keys substitute through Sub; any other key (an applied
// function, a derivative) replaces matching subtrees wherever they occur.
type Substitution struct {
	keys   []Expr
	values map[string]Expr
}

func NewSubstitution() *Substitution {
	return &Substitution{values: map[string]Expr{}}
}

// Set adds old -> new unless old is already present. It reports whether
// the pair was added.
func (s *Substitution) Set(old, repl Expr) bool {
	old = old.Simplify()
	k := old.String()
	if _, ok := s.values[k]; ok {
		return false
	}
	s.keys = append(s.keys, old)
	s.values[k] = repl.Simplify()
	return true
}

// Put adds old -> new, replacing the value of an existing key. A replaced
// key keeps its original position.
func (s *Substitution) Put(old, repl Expr) {
	old = old.Simplify()
	k := old.String()
	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, old)
	}
	s.values[k] = repl.Simplify()
}

func (s *Substitution) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Lookup returns the replacement for old.
func (s *Substitution) Lookup(old Expr) (Expr, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[old.Simplify().String()]
	return v, ok
}

// Each calls fn for every pair in insertion order.
func (s *Substitution) Each(fn func(old, repl Expr)) {
	if s == nil {
		return
	}
	for _, k := range s.keys {
		fn(k, s.values[k.String()])
	}
}

// Apply returns e with every replacement carried out and the result
// simplified. An empty substitution returns e unchanged.
func (s *Substitution) Apply(e Expr) Expr {
	if s.Len() == 0 {
		return e
	}
	kinds := map[string]bool{}
	var syms []*Sym
	for _, k := range s.keys {
		if sym, ok := k.(*Sym); ok {
			syms = append(syms, sym)
			continue
		}
		kinds[k.exprType()] = true
	}
	out := e
	if len(kinds) > 0 {
		out = transform(out, func(x Expr) (Expr, bool) {
			if !kinds[x.exprType()] {
				return nil, false
			}
			v, ok := s.values[x.String()]
			return v, ok
		})
	}
	for _, sym := range syms {
		out = out.Sub(sym.name, s.values[sym.name])
	}
	return out.Simplify()
}
