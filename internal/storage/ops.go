package storage

// Op is a single path-addressed instruction against a user document. Paths
// are dotted field locations; a numeric segment indexes into a sequence
// (e.g. "groups.Math.events.2").
type Op interface {
	op()
}

// Set assigns Value at Path, overwriting whatever is there.
type Set struct {
	Path  string
	Value any
}

// Unset removes the field at Path.
type Unset struct {
	Path string
}

// Rename moves the value at Path to NewPath, removing the old key.
type Rename struct {
	Path    string
	NewPath string
}

// Push appends Value to the sequence at Path, creating the sequence if the
// field is absent.
type Push struct {
	Path  string
	Value any
}

// PullEqual removes every element of the sequence at Path that equals
// Value. Pulling from a sequence with no matching element is a no-op.
type PullEqual struct {
	Path  string
	Value any
}

func (Set) op()       {}
func (Unset) op()     {}
func (Rename) op()    {}
func (Push) op()      {}
func (PullEqual) op() {}
