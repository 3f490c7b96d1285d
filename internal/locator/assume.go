package locator

import (
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

// AssumeScalarNumber finds the first BFS-reachable descendant named name
// and requires it to be a numeric scalar, promoting it via TryAsNumber.
func AssumeScalarNumber(root *variable.IR, name string) (int64, error) {
	n := FieldByName(root, name)
	if n == nil {
		return 0, varerr.FieldNotFound(name)
	}
	if n.Kind != variable.KindScalar || !n.HasScalar {
		return 0, varerr.FieldNotANumber(name)
	}
	num, ok := n.Scalar.TryAsNumber()
	if !ok {
		return 0, varerr.FieldNotANumber(name)
	}
	return num, nil
}

// AssumePointer finds the first BFS-reachable descendant named name and
// requires it to be a Pointer node.
func AssumePointer(root *variable.IR, name string) (*variable.IR, error) {
	n := FieldByName(root, name)
	if n == nil {
		return nil, varerr.FieldNotFound(name)
	}
	if n.Kind != variable.KindPointer {
		return nil, varerr.IncompleteInterp("field " + name + " is not a pointer")
	}
	return n, nil
}

// AssumeRustEnum finds the first BFS-reachable descendant named name and
// requires it to be a TaggedEnum node.
func AssumeRustEnum(root *variable.IR, name string) (*variable.IR, error) {
	n := FieldByName(root, name)
	if n == nil {
		return nil, varerr.FieldNotFound(name)
	}
	if n.Kind != variable.KindTaggedEnum {
		return nil, varerr.IncompleteInterp("field " + name + " is not a tagged enum")
	}
	return n, nil
}

// AssumeStruct finds the first BFS-reachable descendant named name and
// requires it to be a Struct node.
func AssumeStruct(root *variable.IR, name string) (*variable.IR, error) {
	n := FieldByName(root, name)
	if n == nil {
		return nil, varerr.FieldNotFound(name)
	}
	if n.Kind != variable.KindStruct {
		return nil, varerr.IncompleteInterp("field " + name + " is not a struct")
	}
	return n, nil
}
