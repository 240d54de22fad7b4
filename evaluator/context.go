/*
NAME
  context.go

DESCRIPTION
  context.go defines Context, the append-only, ordered parameter-name to
  value mapping a packet accumulates as it is parsed (spec §4.3's "parse
  context").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package evaluator evaluates match criteria, calibrators and dynamic
// values against a partially (or fully) parsed packet's Context.
package evaluator

// Value is one parameter's decoded value: the raw on-wire value plus,
// where a calibrator applied, the calibrated engineering-units value.
type Value struct {
	Raw          interface{} // int64, uint64, float64, string, []byte or bool
	Calibrated   *float64    // nil if uncalibrated, or a ContextCalibrator matched nothing
	Label        string      // enumerated types only; "" if unrecognized or not enumerated
	Unrecognized bool        // enumerated types only: raw value had no matching label
	Unit         string      // "" if the parameter's type declared no unit
}

// Context is the ordered, append-only map of parameter name to Value
// built up while parsing a single packet. Lookups are O(1); iteration
// follows insertion (declaration) order, per spec §6.2.
type Context struct {
	order  []string
	values map[string]Value
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{values: make(map[string]Value)}
}

// Set inserts or overwrites the value for name, recording insertion
// order only the first time name is set.
func (c *Context) Set(name string, v Value) {
	if _, exists := c.values[name]; !exists {
		c.order = append(c.order, name)
	}
	c.values[name] = v
}

// Get returns the value previously Set for name.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns every parameter name currently in the context, in
// insertion order.
func (c *Context) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of parameters currently in the context.
func (c *Context) Len() int { return len(c.order) }
