package pagebook

import "reflect"

// TableSchema pins the contract a companion schema-inference/code-
// generation tool would target when emitting typed table wrappers around
// a Book (spec.md §1 treats that tool as an external collaborator; only
// its contract is in scope here). A generated wrapper implements this
// interface to describe the shape of the rows it stores; the core never
// calls a generator, it only needs to be usable as one's target.
type TableSchema interface {
	// KeyField names the struct field a generator derives each row's Key
	// from.
	KeyField() string

	// ValueType returns the reflect.Type of the row value stored in the
	// underlying Book[V].
	ValueType() reflect.Type
}
