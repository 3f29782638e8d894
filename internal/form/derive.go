package form

import "sync"

// Budget is the aggregate of a budgeted list.
type Budget struct {
	Total     int
	Ceiling   int
	Remaining int
}

// Exhausted reports whether no headroom is left.
func (b Budget) Exhausted() bool { return b.Remaining <= 0 }

// Comparison relates two top-level fields. Differ inverts the relation.
type Comparison struct {
	Name    string
	A, B    string
	Differ  bool
	Message string
}

// MustMatch requires a and b to hold equal values.
func MustMatch(name, a, b, msg string) Comparison {
	return Comparison{Name: name, A: a, B: b, Message: msg}
}

// MustDiffer requires a and b to differ. Two blank values are not a violation.
func MustDiffer(name, a, b, msg string) Comparison {
	return Comparison{Name: name, A: a, B: b, Differ: true, Message: msg}
}

func (c Comparison) holds(d *Draft) bool {
	av, _ := d.Get(c.A)
	bv, _ := d.Get(c.B)
	if c.Differ {
		if isBlank(av) && isBlank(bv) {
			return true
		}
		return !valueEqual(av, bv)
	}
	return valueEqual(av, bv)
}

// Evaluator keeps derived values of a Store current. It only reads from the store.
type Evaluator struct {
	store *Store

	mu          sync.RWMutex
	budgets     map[string]Budget
	budgetPaths map[string]ListPath
	comparisons []Comparison
	results     map[string]bool
}

// NewEvaluator tracks the given top-level budgeted lists and comparisons.
func NewEvaluator(s *Store, budgets []ListPath, comparisons []Comparison) *Evaluator {
	ev := &Evaluator{
		store:       s,
		budgets:     map[string]Budget{},
		budgetPaths: map[string]ListPath{},
		comparisons: comparisons,
		results:     map[string]bool{},
	}
	for _, p := range budgets {
		ev.budgetPaths[p.Key()] = p
	}
	ev.recompute(Change{})
	s.Observe(ev.recompute)
	return ev
}

func (ev *Evaluator) recompute(c Change) {
	all := c.Field == ""
	snap := ev.store.Snapshot()

	ev.mu.Lock()
	defer ev.mu.Unlock()
	for key, p := range ev.budgetPaths {
		if all || p[0] == c.Field {
			ev.budgets[key] = ev.store.Budget(p)
		}
	}
	for _, cmp := range ev.comparisons {
		if all || cmp.A == c.Field || cmp.B == c.Field {
			ev.results[cmp.Name] = cmp.holds(snap)
		}
	}
}

// Budget returns the last computed aggregate for a tracked list. Untracked lists are
// computed on demand.
func (ev *Evaluator) Budget(p ListPath) Budget {
	ev.mu.RLock()
	b, ok := ev.budgets[p.Key()]
	ev.mu.RUnlock()
	if ok && len(p) == 1 {
		return b
	}
	return ev.store.Budget(p)
}

// CanAdd reports whether AddItem on p would currently be accepted.
func (ev *Evaluator) CanAdd(p ListPath) bool {
	pol, _ := ev.store.Policy(p.Key())
	n := ev.store.Count(p)
	if n < 0 {
		return false
	}
	if pol.Max > 0 && n >= pol.Max {
		return false
	}
	if pol.budgeted() && ev.Budget(p).Exhausted() {
		return false
	}
	return true
}

// Holds reports the current result of a named comparison. Unknown names hold.
func (ev *Evaluator) Holds(name string) bool {
	ev.mu.RLock()
	defer ev.mu.RUnlock()
	ok, known := ev.results[name]
	return ok || !known
}

// Violated lists the comparisons that do not hold, in declaration order.
func (ev *Evaluator) Violated() []Comparison {
	ev.mu.RLock()
	defer ev.mu.RUnlock()
	var out []Comparison
	for _, c := range ev.comparisons {
		if !ev.results[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

func (ev *Evaluator) Comparisons() []Comparison {
	return append([]Comparison(nil), ev.comparisons...)
}

func (ev *Evaluator) Store() *Store { return ev.store }
