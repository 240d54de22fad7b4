/*
NAME
  errors.go

DESCRIPTION
  errors.go defines DefinitionError, the DefinitionLoadError of spec §7:
  malformed input, unresolved reference, circular inheritance or an
  unsupported element, all fatal at load time.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

import "fmt"

// DefinitionError reports a problem the Builder finds while building a
// Definition: a duplicate name, an unresolved cross-reference, a
// parameter type missing its encoding, or a circular base_container or
// ContainerRefEntry chain. Loaders report malformed input rows or
// documents with their own wrapped errors.
type DefinitionError struct {
	Op     string
	Detail string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("xtce: %s: %s", e.Op, e.Detail)
}

func newDefinitionError(op, format string, args ...interface{}) *DefinitionError {
	return &DefinitionError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
