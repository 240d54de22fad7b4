/*
NAME
  container.go

DESCRIPTION
  container.go defines SequenceContainer and its entry list, the
  inheritance-DAG nodes of spec §3.6.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

// EntryKind distinguishes the two kinds of sequence-container entry.
type EntryKind int

const (
	EntryParameter EntryKind = iota
	EntryContainer
)

// Entry is one element of a SequenceContainer's entry list: either a
// reference to a Parameter or an inlined reference to another
// SequenceContainer's entry list (used for shared fragments such as
// secondary headers). A ContainerRefEntry's own BaseContainer is
// irrelevant at the reference site — it acts as an inlined fragment, not
// an inheritance link.
type Entry struct {
	Kind EntryKind
	Name string // parameter name if Kind == EntryParameter, else container name
}

// NewParameterEntry builds a ParameterRefEntry.
func NewParameterEntry(parameterName string) Entry {
	return Entry{Kind: EntryParameter, Name: parameterName}
}

// NewContainerEntry builds a ContainerRefEntry.
func NewContainerEntry(containerName string) Entry {
	return Entry{Kind: EntryContainer, Name: containerName}
}

// SequenceContainer is one node of the container-inheritance forest,
// spec §3.6. Entries holds only this container's own additions: ancestor
// entries are not repeated here — Builder.Build normalizes any loader
// that supplied the full inherited list down to additions-only.
type SequenceContainer struct {
	Name                string
	Entries             []Entry
	BaseContainer       string // "" for a root container
	RestrictionCriteria MatchCriteria
	Abstract            bool
}
