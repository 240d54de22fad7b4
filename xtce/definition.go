/*
NAME
  definition.go

DESCRIPTION
  definition.go is the read-only Definition produced by a loader: the
  three indexes of spec §6.3 (parameter types, parameters, sequence
  containers) plus the precomputed container-children, flattened-entry
  and own-entry indexes; the packet parser walks the children and
  own-entry indexes per packet.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

// Definition is the immutable, in-memory XTCE packet-structure model.
// Once returned by Builder.Build, nothing about it changes; multiple
// goroutines may read it concurrently without locking, per spec §5.
type Definition struct {
	parameterTypes     map[string]*ParameterType
	parameterTypeNames []string
	parameters         map[string]*Parameter
	parameterNames     []string
	containers         map[string]*SequenceContainer
	containerNames     []string
	children           map[string][]*SequenceContainer
	flattened          map[string][]Entry
	ownEntries         map[string][]Entry
	root               string

	// Warnings collects definition-time observations that are not fatal,
	// such as an abstract container with no children that could ever
	// match it (spec §4.4's edge case).
	Warnings []string
}

// ParameterType looks up a named parameter type.
func (d *Definition) ParameterType(name string) (*ParameterType, bool) {
	pt, ok := d.parameterTypes[name]
	return pt, ok
}

// Parameter looks up a named parameter.
func (d *Definition) Parameter(name string) (*Parameter, bool) {
	p, ok := d.parameters[name]
	return p, ok
}

// Container looks up a named sequence container.
func (d *Definition) Container(name string) (*SequenceContainer, bool) {
	c, ok := d.containers[name]
	return c, ok
}

// ParameterTypes returns every parameter type, in declaration order.
func (d *Definition) ParameterTypes() []*ParameterType {
	out := make([]*ParameterType, len(d.parameterTypeNames))
	for i, n := range d.parameterTypeNames {
		out[i] = d.parameterTypes[n]
	}
	return out
}

// Parameters returns every parameter, in declaration order.
func (d *Definition) Parameters() []*Parameter {
	out := make([]*Parameter, len(d.parameterNames))
	for i, n := range d.parameterNames {
		out[i] = d.parameters[n]
	}
	return out
}

// Containers returns every sequence container, in declaration order.
func (d *Definition) Containers() []*SequenceContainer {
	out := make([]*SequenceContainer, len(d.containerNames))
	for i, n := range d.containerNames {
		out[i] = d.containers[n]
	}
	return out
}

// Children returns the sequence containers whose base_container is name,
// in declaration order.
func (d *Definition) Children(name string) []*SequenceContainer {
	return d.children[name]
}

// FlattenedEntries returns the fully resolved entry list for container
// name: every ancestor's entries, root-first, followed by name's own
// entries, with any ContainerRefEntry inlined recursively. This is the
// full field layout of a packet that ends at name; the packet parser
// itself reads OwnEntries one container at a time.
func (d *Definition) FlattenedEntries(name string) ([]Entry, error) {
	e, ok := d.flattened[name]
	if !ok {
		return nil, newDefinitionError("flatten", "unknown container %q", name)
	}
	return e, nil
}

// OwnEntries returns container name's own entry list — its declared
// additions only, with any ContainerRefEntry inlined, but without its
// ancestors' entries prepended. This is what the packet parser consumes
// each time it descends to a new container: the ancestor prefix was
// already consumed in a prior step of the same walk.
func (d *Definition) OwnEntries(name string) ([]Entry, error) {
	e, ok := d.ownEntries[name]
	if !ok {
		return nil, newDefinitionError("own_entries", "unknown container %q", name)
	}
	return e, nil
}

// RootContainer returns the name of the default root container, as
// configured by the loader. A caller's root_container_name override is
// carried in packet.Options and does not change this value.
func (d *Definition) RootContainer() string { return d.root }
