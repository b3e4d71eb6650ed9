package csvutil

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a row in mapping form: field name to text value. Keys keep their
// insertion order, which is the column order used when a header is inferred.
// The zero value is an empty record ready to use.
type Record struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewRecord builds a record from alternating key/value pairs. A trailing key
// without a value is ignored.
func NewRecord(pairs ...string) *Record {
	r := &Record{}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set stores value under key. Overwriting a key keeps its original position.
func (r *Record) Set(key, value string) *Record {
	if r.m == nil {
		r.m = orderedmap.New[string, string]()
	}
	r.m.Set(key, value)
	return r
}

func (r *Record) Get(key string) (string, bool) {
	if r == nil || r.m == nil {
		return "", false
	}
	return r.m.Get(key)
}

func (r *Record) Delete(key string) {
	if r == nil || r.m == nil {
		return
	}
	r.m.Delete(key)
}

func (r *Record) Len() int {
	if r == nil || r.m == nil {
		return 0
	}
	return r.m.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the field values in insertion order.
func (r *Record) Values() []string {
	if r.Len() == 0 {
		return nil
	}
	values := make([]string, 0, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// Map copies the record into a plain map, losing key order.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, r.Len())
	if r.Len() == 0 {
		return out
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
