package sdk

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Payload is an insertion-ordered string-to-value mapping carried by a
// CallbackEvent. Values may be strings, numbers, bools, nested maps or
// slices. Keys are unique per payload; Set on an existing key replaces the
// value in place without changing its position.
type Payload struct {
	keys []string
	vals map[string]any
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{vals: make(map[string]any)}
}

// Set stores v under k, preserving insertion order. Returns the payload so
// call sites can chain Sets when building event payloads.
func (p *Payload) Set(k string, v any) *Payload {
	if p.vals == nil {
		p.vals = make(map[string]any)
	}
	if _, ok := p.vals[k]; !ok {
		p.keys = append(p.keys, k)
	}
	p.vals[k] = v
	return p
}

// Get returns the value stored under exactly k.
func (p *Payload) Get(k string) (any, bool) {
	if p == nil || p.vals == nil {
		return nil, false
	}
	v, ok := p.vals[k]
	return v, ok
}

// Lookup is the single place where key-casing differences between event
// producers are absorbed. It tries k exactly, then its upper-case form, then
// its lower-case form. New casings get added here, nowhere else.
func (p *Payload) Lookup(k string) (any, bool) {
	if v, ok := p.Get(k); ok {
		return v, true
	}
	if v, ok := p.Get(strings.ToUpper(k)); ok {
		return v, true
	}
	if v, ok := p.Get(strings.ToLower(k)); ok {
		return v, true
	}
	return nil, false
}

// LookupString is Lookup narrowed to string values.
func (p *Payload) LookupString(k string) (string, bool) {
	v, ok := p.Lookup(k)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the payload keys in insertion order.
func (p *Payload) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of keys.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns an independent copy. Nested values are shared, top-level
// structure is not.
func (p *Payload) Clone() *Payload {
	c := NewPayload()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.vals[k])
	}
	return c
}

// Map returns a plain map copy of the payload, losing key order. Used when
// handing payload values to collaborators that take map[string]any.
func (p *Payload) Map() map[string]any {
	out := make(map[string]any, p.Len())
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		out[k] = p.vals[k]
	}
	return out
}

// MarshalJSON renders the payload as a JSON object in insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil || len(p.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
