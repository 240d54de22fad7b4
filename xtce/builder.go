/*
NAME
  builder.go

DESCRIPTION
  builder.go assembles a Definition from the pieces a loader discovers
  (parameter types, parameters, containers), validating cross-references,
  detecting circular inheritance, normalizing entry lists to
  additions-only, and precomputing the children, own-entry and
  flattened-entry indexes (the packet parser relies on the first two).
  Both xmlload and csvload build
  through this same Builder so the two loaders can never diverge on what
  counts as a valid Definition.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

import (
	"github.com/ausocean/utils/logging"
)

// Builder accumulates the pieces of a Definition before validation.
// Loaders add parameter types, parameters and containers in any order
// and then call Build.
type Builder struct {
	parameterTypes     map[string]*ParameterType
	parameterTypeNames []string
	parameters         map[string]*Parameter
	parameterNames     []string
	containers         map[string]*SequenceContainer
	containerNames     []string
	root               string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		parameterTypes: make(map[string]*ParameterType),
		parameters:     make(map[string]*Parameter),
		containers:     make(map[string]*SequenceContainer),
	}
}

// AddParameterType registers pt. A duplicate name is a DefinitionError.
func (b *Builder) AddParameterType(pt *ParameterType) error {
	if _, exists := b.parameterTypes[pt.Name]; exists {
		return newDefinitionError("add_parameter_type", "duplicate parameter type %q", pt.Name)
	}
	b.parameterTypes[pt.Name] = pt
	b.parameterTypeNames = append(b.parameterTypeNames, pt.Name)
	return nil
}

// AddParameter registers p. A duplicate name is a DefinitionError.
func (b *Builder) AddParameter(p *Parameter) error {
	if _, exists := b.parameters[p.Name]; exists {
		return newDefinitionError("add_parameter", "duplicate parameter %q", p.Name)
	}
	b.parameters[p.Name] = p
	b.parameterNames = append(b.parameterNames, p.Name)
	return nil
}

// AddContainer registers c. A duplicate name is a DefinitionError.
func (b *Builder) AddContainer(c *SequenceContainer) error {
	if _, exists := b.containers[c.Name]; exists {
		return newDefinitionError("add_container", "duplicate container %q", c.Name)
	}
	b.containers[c.Name] = c
	b.containerNames = append(b.containerNames, c.Name)
	return nil
}

// SetRoot names the default root container (conventionally the CCSDS
// primary-header container).
func (b *Builder) SetRoot(name string) { b.root = name }

// Build validates cross-references, detects circular inheritance,
// normalizes entry lists to additions-only, and returns the resulting
// immutable Definition. log may be nil, in which case definition-time
// warnings are silently dropped from logging but still collected in
// Definition.Warnings.
func (b *Builder) Build(log logging.Logger) (*Definition, error) {
	if err := b.validateParameterTypes(); err != nil {
		return nil, err
	}
	if err := b.validateParameters(); err != nil {
		return nil, err
	}
	order, err := b.topoSortContainers()
	if err != nil {
		return nil, err
	}
	if err := b.validateEntries(); err != nil {
		return nil, err
	}
	rawEffective := make(map[string][]Entry, len(order))
	for _, name := range order {
		c := b.containers[name]
		if c.BaseContainer == "" {
			rawEffective[name] = c.Entries
			continue
		}
		baseEff := rawEffective[c.BaseContainer]
		if hasPrefix(c.Entries, baseEff) {
			c.Entries = c.Entries[len(baseEff):]
		}
		combined := make([]Entry, 0, len(baseEff)+len(c.Entries))
		combined = append(combined, baseEff...)
		combined = append(combined, c.Entries...)
		rawEffective[name] = combined
	}

	flattened := make(map[string][]Entry, len(order))
	ownEntries := make(map[string][]Entry, len(order))
	for _, name := range order {
		exp, err := b.expandEntries(rawEffective[name], map[string]bool{})
		if err != nil {
			return nil, err
		}
		flattened[name] = exp

		own, err := b.expandEntries(b.containers[name].Entries, map[string]bool{})
		if err != nil {
			return nil, err
		}
		ownEntries[name] = own
	}

	children := make(map[string][]*SequenceContainer)
	for _, name := range b.containerNames {
		c := b.containers[name]
		children[c.BaseContainer] = append(children[c.BaseContainer], c)
	}

	def := &Definition{
		parameterTypes:     b.parameterTypes,
		parameterTypeNames: b.parameterTypeNames,
		parameters:         b.parameters,
		parameterNames:     b.parameterNames,
		containers:         b.containers,
		containerNames:     b.containerNames,
		children:           children,
		flattened:          flattened,
		ownEntries:         ownEntries,
		root:               b.root,
	}
	def.collectAbstractLeafWarnings(log)
	return def, nil
}

func (b *Builder) validateParameterTypes() error {
	for _, name := range b.parameterTypeNames {
		pt := b.parameterTypes[name]
		switch pt.Kind {
		case KindInteger:
			if pt.Integer == nil {
				return newDefinitionError("validate_type", "parameter type %q is integer but has no IntegerEncoding", name)
			}
		case KindFloat:
			if pt.Float == nil {
				return newDefinitionError("validate_type", "parameter type %q is float but has no FloatEncoding", name)
			}
		case KindEnumerated:
			if pt.Enumerated == nil || pt.Enumerated.Integer == nil {
				return newDefinitionError("validate_type", "parameter type %q is enumerated but has no integer encoding", name)
			}
		case KindString:
			if pt.String == nil {
				return newDefinitionError("validate_type", "parameter type %q is string but has no StringEncoding", name)
			}
		case KindBinary:
			if pt.Binary == nil {
				return newDefinitionError("validate_type", "parameter type %q is binary but has no BinaryEncoding", name)
			}
		case KindAbsoluteTime, KindRelativeTime:
			if pt.Time == nil || (pt.Time.Integer == nil && pt.Time.Float == nil) {
				return newDefinitionError("validate_type", "parameter type %q is a time type but has no underlying numeric encoding", name)
			}
		}
	}
	return nil
}

func (b *Builder) validateParameters() error {
	for _, name := range b.parameterNames {
		p := b.parameters[name]
		if _, ok := b.parameterTypes[p.TypeName]; !ok {
			return newDefinitionError("validate_parameter", "parameter %q references unknown type %q", p.Name, p.TypeName)
		}
	}
	return nil
}

// topoSortContainers returns the containers in an order where every
// container appears after its BaseContainer, detecting cycles along the
// way.
func (b *Builder) topoSortContainers() ([]string, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(b.containerNames))
	var order []string
	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return newDefinitionError("topo_sort", "circular base_container chain: %v -> %s", chain, name)
		}
		c, ok := b.containers[name]
		if !ok {
			return newDefinitionError("topo_sort", "container %q references unknown base_container", name)
		}
		color[name] = gray
		if c.BaseContainer != "" {
			if err := visit(c.BaseContainer, append(chain, name)); err != nil {
				return err
			}
		}
		color[name] = black
		order = append(order, name)
		return nil
	}
	for _, name := range b.containerNames {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (b *Builder) validateEntries() error {
	for _, name := range b.containerNames {
		c := b.containers[name]
		for _, e := range c.Entries {
			switch e.Kind {
			case EntryParameter:
				if _, ok := b.parameters[e.Name]; !ok {
					return newDefinitionError("validate_entries", "container %q references unknown parameter %q", name, e.Name)
				}
			case EntryContainer:
				if _, ok := b.containers[e.Name]; !ok {
					return newDefinitionError("validate_entries", "container %q references unknown container %q", name, e.Name)
				}
			}
		}
	}
	return nil
}

// expandEntries inlines every EntryContainer in entries with the
// referenced container's own entries, recursively, detecting reference
// cycles via visiting.
func (b *Builder) expandEntries(entries []Entry, visiting map[string]bool) ([]Entry, error) {
	var out []Entry
	for _, e := range entries {
		if e.Kind == EntryParameter {
			out = append(out, e)
			continue
		}
		if visiting[e.Name] {
			return nil, newDefinitionError("expand_entries", "circular ContainerRefEntry at %q", e.Name)
		}
		ref, ok := b.containers[e.Name]
		if !ok {
			return nil, newDefinitionError("expand_entries", "unknown referenced container %q", e.Name)
		}
		visiting[e.Name] = true
		inner, err := b.expandEntries(ref.Entries, visiting)
		if err != nil {
			return nil, err
		}
		visiting[e.Name] = false
		out = append(out, inner...)
	}
	return out, nil
}

// collectAbstractLeafWarnings records a warning for any abstract
// container with no children, since no packet could ever finish parsing
// there (spec §4.4 edge case: this is a definition-time warning, not an
// error; it only becomes UNRECOGNIZED at runtime if a packet reaches it).
func (d *Definition) collectAbstractLeafWarnings(log logging.Logger) {
	for _, name := range d.containerNames {
		c := d.containers[name]
		if c.Abstract && len(d.children[name]) == 0 {
			msg := "abstract container " + name + " has no children; any packet reaching it will be UNRECOGNIZED"
			d.Warnings = append(d.Warnings, msg)
			if log != nil {
				log.Warning(msg)
			}
		}
	}
}

func hasPrefix(entries, prefix []Entry) bool {
	if len(entries) < len(prefix) {
		return false
	}
	for i, e := range prefix {
		if entries[i] != e {
			return false
		}
	}
	return true
}
