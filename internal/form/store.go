package form

import (
	"sort"
	"strings"
	"sync"
)

// ListPath addresses a sub-item list. Segments alternate field name and item id:
// List("questions") or List("questions", questionID, "options").
type ListPath []string

func List(segments ...string) ListPath { return ListPath(segments) }

// Key is the policy key of the path: field names joined by dots, ids dropped.
func (p ListPath) Key() string {
	names := make([]string, 0, (len(p)+1)/2)
	for i := 0; i < len(p); i += 2 {
		names = append(names, p[i])
	}
	return strings.Join(names, ".")
}

func (p ListPath) valid() bool { return len(p)%2 == 1 }

// ListPolicy bounds a sub-item list.
type ListPolicy struct {
	Min int
	Max int // 0 means unbounded

	// BudgetField names the numeric field whose sum across items may not exceed Ceiling.
	BudgetField string
	Ceiling     int

	// OrderField, when set, is kept contiguous starting at 1.
	OrderField string

	// Exclusive names a boolean field that at most one item may hold true.
	Exclusive string

	// Template seeds items added to reach Min.
	Template *Draft
}

func (p ListPolicy) budgeted() bool { return p.BudgetField != "" }

// Change describes one applied mutation. A zero Change means the whole draft was replaced.
type Change struct {
	Field  string
	List   ListPath
	ItemID string
}

// Store holds the Draft and is the only way to mutate it.
type Store struct {
	mu        sync.Mutex
	draft     *Draft
	seed      *Draft
	policies  map[string]ListPolicy
	newID     func() string
	observers []func(Change)
}

type StoreOption func(*Store)

// WithList registers a policy under a ListPath key ("sections", "questions.options").
func WithList(key string, p ListPolicy) StoreOption {
	return func(s *Store) { s.policies[key] = p }
}

func WithIDSource(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewStore(seed *Draft, opts ...StoreOption) *Store {
	s := &Store{policies: map[string]ListPolicy{}, newID: NewTempID}
	for _, o := range opts {
		o(s)
	}
	s.draft = s.seeded(seed)
	s.seed = s.draft.Clone()
	return s
}

// Observe registers fn to run synchronously after every applied mutation.
func (s *Store) Observe(fn func(Change)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current draft.
func (s *Store) Snapshot() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *Store) Policy(key string) (ListPolicy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[key]
	return p, ok
}

// Dirty reports whether the draft differs from its last seed or reset.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.draft.Equal(s.seed)
}

// Set replaces one top-level field. Managed lists are conformed to their policy.
func (s *Store) Set(field string, value any) {
	v := cloneValue(normalize(value))
	s.mu.Lock()
	if items, ok := v.([]Item); ok {
		s.assignItemIDs(items)
		if pol, ok := s.policies[field]; ok {
			v = s.conformList(items, field, pol)
		}
	}
	if cur, ok := s.draft.Get(field); ok && valueEqual(cur, v) {
		s.mu.Unlock()
		return
	}
	s.draft.put(field, v)
	s.mu.Unlock()
	s.emit(Change{Field: field})
}

// SetNested merges one field of the item identified by itemID. It reports whether
// the draft changed: unknown items, equal values and budget breaches are no-ops.
func (s *Store) SetNested(list ListPath, itemID, field string, value any) bool {
	if !list.valid() {
		return false
	}
	v := normalize(value)
	s.mu.Lock()
	owner, name, ok := s.locate(list)
	if !ok {
		s.mu.Unlock()
		return false
	}
	items, _ := owner.vals[name].([]Item)
	idx := indexOf(items, itemID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	if cur, ok := items[idx].Fields.Get(field); ok && valueEqual(cur, v) {
		s.mu.Unlock()
		return false
	}
	pol := s.policies[list.Key()]
	if pol.OrderField != "" && field == pol.OrderField {
		s.mu.Unlock()
		return false
	}
	if pol.budgeted() && field == pol.BudgetField {
		n, isNum := toInt(v)
		if !isNum || n < 0 {
			s.mu.Unlock()
			return false
		}
		others := sumBudget(items, pol.BudgetField) - items[idx].Fields.Int(pol.BudgetField)
		if others+n > pol.Ceiling {
			s.mu.Unlock()
			return false
		}
		v = int64(n)
	}
	if sub, ok := v.([]Item); ok {
		sub = cloneValue(sub).([]Item)
		s.assignItemIDs(sub)
		v = sub
		if nested, ok := s.policies[list.Key()+"."+field]; ok {
			v = s.conformList(sub, list.Key()+"."+field, nested)
		}
	}
	if pol.Exclusive != "" && field == pol.Exclusive && v == true {
		for i := range items {
			if i != idx {
				items[i].Fields.put(pol.Exclusive, false)
			}
		}
	}
	items[idx].Fields.put(field, v)
	owner.put(name, items)
	s.mu.Unlock()
	s.emit(Change{Field: list[0], List: list, ItemID: itemID})
	return true
}

// AddItem appends an item built from template. It is rejected at the list maximum and
// when no budget headroom is left; otherwise the budget value is capped to the headroom.
func (s *Store) AddItem(list ListPath, template *Draft) (Item, bool) {
	if !list.valid() {
		return Item{}, false
	}
	s.mu.Lock()
	owner, name, ok := s.locate(list)
	if !ok {
		s.mu.Unlock()
		return Item{}, false
	}
	key := list.Key()
	pol := s.policies[key]
	items, _ := owner.vals[name].([]Item)
	if pol.Max > 0 && len(items) >= pol.Max {
		s.mu.Unlock()
		return Item{}, false
	}
	fields := template.Clone()
	freshen(fields, s.newID)
	if pol.budgeted() {
		remaining := pol.Ceiling - sumBudget(items, pol.BudgetField)
		if remaining <= 0 {
			s.mu.Unlock()
			return Item{}, false
		}
		want := fields.Int(pol.BudgetField)
		if want > remaining {
			want = remaining
		}
		if want < 0 {
			want = 0
		}
		fields.put(pol.BudgetField, int64(want))
	}
	s.conformDraft(fields, key)
	if pol.Exclusive != "" && fields.Bool(pol.Exclusive) {
		for i := range items {
			items[i].Fields.put(pol.Exclusive, false)
		}
	}
	it := Item{ID: s.newID(), Fields: fields}
	items = append(items, it)
	resequence(items, pol.OrderField)
	owner.put(name, items)
	out := Item{ID: it.ID, Fields: it.Fields.Clone()}
	s.mu.Unlock()
	s.emit(Change{Field: list[0], List: list, ItemID: it.ID})
	return out, true
}

// RemoveItem deletes an item unless that would drop the list below its minimum.
func (s *Store) RemoveItem(list ListPath, itemID string) bool {
	if !list.valid() {
		return false
	}
	s.mu.Lock()
	owner, name, ok := s.locate(list)
	if !ok {
		s.mu.Unlock()
		return false
	}
	pol := s.policies[list.Key()]
	items, _ := owner.vals[name].([]Item)
	idx := indexOf(items, itemID)
	if idx < 0 || len(items)-1 < pol.Min {
		s.mu.Unlock()
		return false
	}
	items = append(items[:idx:idx], items[idx+1:]...)
	resequence(items, pol.OrderField)
	owner.put(name, items)
	s.mu.Unlock()
	s.emit(Change{Field: list[0], List: list, ItemID: itemID})
	return true
}

// Reset replaces the draft, conforming every managed list, and marks it clean.
func (s *Store) Reset(d *Draft) {
	s.mu.Lock()
	s.draft = s.seeded(d)
	s.seed = s.draft.Clone()
	s.mu.Unlock()
	s.emit(Change{})
}

// MarkClean makes the current draft the new baseline for Dirty.
func (s *Store) MarkClean() {
	s.mu.Lock()
	s.seed = s.draft.Clone()
	s.mu.Unlock()
}

// Budget reports the aggregate for a budgeted list.
func (s *Store) Budget(list ListPath) Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	pol := s.policies[list.Key()]
	b := Budget{Ceiling: pol.Ceiling}
	if owner, name, ok := s.locate(list); ok && pol.budgeted() {
		items, _ := owner.vals[name].([]Item)
		b.Total = sumBudget(items, pol.BudgetField)
	}
	b.Remaining = b.Ceiling - b.Total
	return b
}

// Count returns the length of the list, or -1 when the path does not resolve.
func (s *Store) Count(list ListPath) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, name, ok := s.locate(list)
	if !ok {
		return -1
	}
	items, _ := owner.vals[name].([]Item)
	return len(items)
}

func (s *Store) emit(c Change) {
	s.mu.Lock()
	obs := append([]func(Change){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(c)
	}
}

// locate walks the path down to the draft owning the final list field. Caller holds mu.
func (s *Store) locate(p ListPath) (*Draft, string, bool) {
	d := s.draft
	for i := 0; i+2 < len(p); i += 2 {
		items, _ := d.vals[p[i]].([]Item)
		idx := indexOf(items, p[i+1])
		if idx < 0 {
			return nil, "", false
		}
		d = items[idx].Fields
	}
	return d, p[len(p)-1], true
}

func (s *Store) assignItemIDs(items []Item) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.newID()
		}
		if items[i].Fields == nil {
			items[i].Fields = NewDraft()
		}
		assignIDs(items[i].Fields, s.newID)
	}
}

func (s *Store) seeded(d *Draft) *Draft {
	out := d.Clone()
	assignIDs(out, s.newID)
	return s.conformDraft(out, "")
}

// conformDraft applies the policies registered below prefix to every list field of d.
func (s *Store) conformDraft(d *Draft, prefix string) *Draft {
	for _, k := range d.keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		pol, ok := s.policies[key]
		if !ok {
			continue
		}
		items, _ := d.vals[k].([]Item)
		d.vals[k] = s.conformList(items, key, pol)
	}
	// required lists that are missing entirely
	for _, key := range s.policyKeys() {
		pol := s.policies[key]
		if pol.Min == 0 {
			continue
		}
		field, ok := childField(prefix, key)
		if !ok {
			continue
		}
		if _, present := d.vals[field]; !present {
			d.put(field, s.conformList(nil, key, pol))
		}
	}
	return d
}

func (s *Store) conformList(items []Item, key string, pol ListPolicy) []Item {
	if items == nil {
		items = []Item{}
	}
	if pol.Max > 0 && len(items) > pol.Max {
		items = items[:pol.Max]
	}
	for len(items) < pol.Min {
		fields := pol.Template.Clone()
		freshen(fields, s.newID)
		items = append(items, Item{ID: s.newID(), Fields: fields})
	}
	used := 0
	seenExclusive := false
	for i := range items {
		if items[i].Fields == nil {
			items[i].Fields = NewDraft()
		}
		if items[i].ID == "" {
			items[i].ID = s.newID()
		}
		if pol.budgeted() {
			n := items[i].Fields.Int(pol.BudgetField)
			if n < 0 {
				n = 0
			}
			if used+n > pol.Ceiling {
				n = pol.Ceiling - used
			}
			used += n
			items[i].Fields.put(pol.BudgetField, int64(n))
		}
		if pol.Exclusive != "" && items[i].Fields.Bool(pol.Exclusive) {
			if seenExclusive {
				items[i].Fields.put(pol.Exclusive, false)
			}
			seenExclusive = true
		}
		s.conformDraft(items[i].Fields, key)
	}
	resequence(items, pol.OrderField)
	return items
}

func (s *Store) policyKeys() []string {
	keys := make([]string, 0, len(s.policies))
	for k := range s.policies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// childField reports whether key names a direct child list of prefix.
func childField(prefix, key string) (string, bool) {
	if prefix == "" {
		return key, !strings.Contains(key, ".")
	}
	rest, ok := strings.CutPrefix(key, prefix+".")
	if !ok || strings.Contains(rest, ".") {
		return "", false
	}
	return rest, true
}

func resequence(items []Item, orderField string) {
	if orderField == "" {
		return
	}
	for i := range items {
		items[i].Fields.put(orderField, int64(i+1))
	}
}

func sumBudget(items []Item, field string) int {
	total := 0
	for _, it := range items {
		total += it.Fields.Int(field)
	}
	return total
}
