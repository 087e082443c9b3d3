package registry

// Observer receives a callback for every registry operation. Callbacks run
// after the registry lock is released and must not block.
type Observer interface {
	// ModuleCreated is called when Exports creates a new namespace.
	ModuleCreated(name string)
	// ModuleFetched is called when Exports returns an existing namespace.
	ModuleFetched(name string)
	// ModuleRequired is called for every Require, with found reporting
	// whether the lookup succeeded.
	ModuleRequired(name string, found bool)
}

type nopObserver struct{}

func (nopObserver) ModuleCreated(string)        {}
func (nopObserver) ModuleFetched(string)        {}
func (nopObserver) ModuleRequired(string, bool) {}
