package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const tempIDPrefix = "tmp-"

// NewTempID returns a time-ordered identifier for items that have not been persisted yet.
func NewTempID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return tempIDPrefix + uuid.NewString()
	}
	return tempIDPrefix + id.String()
}

// IsTemporaryID reports whether id was minted locally by NewTempID.
func IsTemporaryID(id string) bool { return strings.HasPrefix(id, tempIDPrefix) }

// FileRef points at an uploaded blob.
type FileRef struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// Item is one entry of a sub-item list. ID is temporary until the server assigns one.
type Item struct {
	ID     string
	Fields *Draft
}

// Field is a name/value pair used to build drafts and templates.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for Field{name, value}.
func F(name string, value any) Field { return Field{Name: name, Value: value} }

// Draft is the ordered, unpersisted edit state of a form.
// Values are string, int64, float64, bool, nil, FileRef, []string, []any, []Item or *Draft.
// A []*Draft passed to Of or Set becomes a []Item.
type Draft struct {
	keys []string
	vals map[string]any
}

func NewDraft() *Draft { return &Draft{vals: map[string]any{}} }

// Of builds a draft from fields, in order.
func Of(fields ...Field) *Draft {
	d := NewDraft()
	for _, f := range fields {
		d.put(f.Name, normalize(f.Value))
	}
	return d
}

func (d *Draft) Keys() []string { return append([]string(nil), d.keys...) }

func (d *Draft) Len() int { return len(d.keys) }

func (d *Draft) Get(name string) (any, bool) {
	v, ok := d.vals[name]
	return v, ok
}

func (d *Draft) put(name string, v any) {
	if _, ok := d.vals[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.vals[name] = v
}

func (d *Draft) remove(name string) {
	if _, ok := d.vals[name]; !ok {
		return
	}
	delete(d.vals, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// String returns the field as a string, or "" when absent or not a string.
func (d *Draft) String(name string) string {
	s, _ := d.vals[name].(string)
	return s
}

// Number returns the field as float64 when it holds any numeric value.
func (d *Draft) Number(name string) (float64, bool) {
	return toFloat(d.vals[name])
}

// Int returns the field truncated to int, or 0.
func (d *Draft) Int(name string) int {
	n, _ := toInt(d.vals[name])
	return n
}

func (d *Draft) Bool(name string) bool {
	b, _ := d.vals[name].(bool)
	return b
}

func (d *Draft) File(name string) (FileRef, bool) {
	f, ok := d.vals[name].(FileRef)
	return f, ok && f.Key != ""
}

func (d *Draft) Strings(name string) []string {
	switch v := d.vals[name].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Items returns a shallow copy of the sub-item list stored under name.
func (d *Draft) Items(name string) []Item {
	items, _ := d.vals[name].([]Item)
	return append([]Item(nil), items...)
}

// Item finds a sub-item by id.
func (d *Draft) Item(name, id string) (Item, bool) {
	items, _ := d.vals[name].([]Item)
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	return Item{}, false
}

// Clone returns a deep copy; nested items keep their ids.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return NewDraft()
	}
	out := &Draft{keys: append([]string(nil), d.keys...), vals: make(map[string]any, len(d.vals))}
	for k, v := range d.vals {
		out.vals[k] = cloneValue(v)
	}
	return out
}

// Equal compares drafts by their canonical JSON encoding.
func (d *Draft) Equal(o *Draft) bool {
	a, errA := json.Marshal(d)
	b, errB := json.Marshal(o)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []Item:
		out := make([]Item, len(x))
		for i, it := range x {
			out[i] = Item{ID: it.ID, Fields: it.Fields.Clone()}
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	case *Draft:
		return x.Clone()
	}
	return v
}

// assignIDs gives every nested item without an id a fresh one.
func assignIDs(d *Draft, newID func() string) {
	for _, k := range d.keys {
		items, ok := d.vals[k].([]Item)
		if !ok {
			continue
		}
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = newID()
			}
			if items[i].Fields == nil {
				items[i].Fields = NewDraft()
			}
			assignIDs(items[i].Fields, newID)
		}
	}
}

// freshen reassigns ids of every nested item, so templates can be reused.
func freshen(d *Draft, newID func() string) {
	for _, k := range d.keys {
		items, ok := d.vals[k].([]Item)
		if !ok {
			continue
		}
		for i := range items {
			items[i].ID = newID()
			freshen(items[i].Fields, newID)
		}
	}
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case float32:
		return float64(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []*Draft:
		items := make([]Item, len(x))
		for i, d := range x {
			items[i] = Item{Fields: d.Clone()}
		}
		return items
	case *FileRef:
		if x == nil {
			return nil
		}
		return *x
	case map[string]any:
		d := NewDraft()
		for _, k := range sortedKeys(x) {
			d.put(k, normalize(x[k]))
		}
		return d
	case []any:
		out := make([]any, len(x))
		allStrings := true
		for i := range x {
			out[i] = normalize(x[i])
			if _, ok := out[i].(string); !ok {
				allStrings = false
			}
		}
		if allStrings && len(out) > 0 {
			ss := make([]string, len(out))
			for i := range out {
				ss[i] = out[i].(string)
			}
			return ss
		}
		return out
	}
	return v
}

func valueEqual(a, b any) bool { return reflect.DeepEqual(a, b) }

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	return int(f), ok
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---- JSON ----

// MarshalJSON writes fields in draft order. Items carry "id" only once the server has assigned one.
func (d *Draft) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalValue(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	fields := it.Fields
	if fields == nil {
		fields = NewDraft()
	}
	body, err := fields.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if it.ID == "" || IsTemporaryID(it.ID) {
		return body, nil
	}
	idb, _ := json.Marshal(it.ID)
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.Write(idb)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case []Item:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := it.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case *Draft:
		return x.MarshalJSON()
	}
	return json.Marshal(v)
}

// DraftFromJSON decodes a JSON object preserving key order. Arrays of objects become
// sub-item lists, using "id" when present and a temporary id otherwise.
func DraftFromJSON(b []byte) (*Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("form: draft JSON must be an object")
	}
	return decodeObject(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			if ref, ok := asFileRef(d); ok {
				return ref, nil
			}
			return d, nil
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("form: unexpected delimiter %q", t)
	case json.Number:
		return normalize(t), nil
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Draft, error) {
	d := NewDraft()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("form: object key is not a string")
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		d.put(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeArray(dec *json.Decoder) (any, error) {
	var vals []any
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return []any{}, nil
	}
	objects := true
	for _, v := range vals {
		if _, ok := v.(*Draft); !ok {
			objects = false
			break
		}
	}
	if !objects {
		return normalize(vals), nil
	}
	items := make([]Item, len(vals))
	for i, v := range vals {
		fields := v.(*Draft)
		id := fields.String("id")
		if id == "" {
			id = NewTempID()
		}
		fields.remove("id")
		items[i] = Item{ID: id, Fields: fields}
	}
	return items, nil
}

func asFileRef(d *Draft) (FileRef, bool) {
	if d.Len() == 0 || d.Len() > 3 || d.String("key") == "" {
		return FileRef{}, false
	}
	for _, k := range d.keys {
		if k != "name" && k != "key" && k != "size" {
			return FileRef{}, false
		}
	}
	size, _ := toFloat(d.vals["size"])
	return FileRef{Name: d.String("name"), Key: d.String("key"), Size: int64(size)}, true
}
