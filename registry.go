package fount

import "sync"

// registry is a process-wide, in-memory name -> *Fount lookup table, for
// the optional named-construction variant in spec.md §6. It is a lookup
// table only - not a supervision tree, not restart policy - spec.md
// explicitly scopes process supervision and registration-as-a-feature out
// of this module; this is just enough to let [Lookup] find an instance
// another goroutine constructed by name.
var registry sync.Map // name string -> *Fount

func registerName(name string) error {
	if name == `` {
		return nil
	}
	if _, loaded := registry.LoadOrStore(name, (*Fount)(nil)); loaded {
		return ErrNameTaken
	}
	return nil
}

func unregisterName(name string) {
	if name != `` {
		registry.Delete(name)
	}
}

// Lookup finds a Fount previously constructed via [NewNamed].
func Lookup(name string) (*Fount, bool) {
	v, ok := registry.Load(name)
	if !ok {
		return nil, false
	}
	f, ok := v.(*Fount)
	return f, ok && f != nil
}
