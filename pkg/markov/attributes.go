package markov

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes is an insertion-ordered set of display attributes.
// Values are emitted verbatim, so quoting is the caller's job.
type Attributes struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewAttributes creates an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{m: orderedmap.New[string, string]()}
}

// Set adds or replaces an attribute. Replacing keeps the original position.
func (a *Attributes) Set(key, value string) {
	a.m.Set(key, value)
}

// Get returns the value of key and whether it is present.
func (a *Attributes) Get(key string) (string, bool) {
	return a.m.Get(key)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return a.m.Len()
}

// Keys returns attribute keys in insertion order.
func (a *Attributes) Keys() []string {
	keys := make([]string, 0, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Map returns a plain map copy of the attributes.
func (a *Attributes) Map() map[string]string {
	out := make(map[string]string, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Clear removes every attribute.
func (a *Attributes) Clear() {
	a.m = orderedmap.New[string, string]()
}

// Retain drops every attribute except the given keys.
func (a *Attributes) Retain(keys ...string) {
	kept := orderedmap.New[string, string]()
	for _, k := range keys {
		if v, ok := a.m.Get(k); ok {
			kept.Set(k, v)
		}
	}
	a.m = kept
}

// Copy returns an independent copy.
func (a *Attributes) Copy() *Attributes {
	c := NewAttributes()
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		c.m.Set(pair.Key, pair.Value)
	}
	return c
}

// bracketed renders "[k=v] [k=v]".
func (a *Attributes) bracketed() string {
	parts := make([]string, 0, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, fmt.Sprintf("[%s=%s]", pair.Key, pair.Value))
	}
	return strings.Join(parts, " ")
}

// statements renders "k=v; k=v;".
func (a *Attributes) statements() string {
	parts := make([]string, 0, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, fmt.Sprintf("%s=%s;", pair.Key, pair.Value))
	}
	return strings.Join(parts, " ")
}
