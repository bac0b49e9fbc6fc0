package uasset

import (
	"fmt"
	"log/slog"
	"sync"
)

// ObjectExport is an object defined by the current package. Its deserialized
// value is created on first access and shared by every reference to it.
type ObjectExport struct {
	ClassIndex    PackageIndex
	SuperIndex    PackageIndex
	TemplateIndex PackageIndex
	OuterIndex    PackageIndex
	ObjectName    Name
	ObjectFlags   uint32
	SerialSize    int64
	SerialOffset  int64 // relative to the start of the header segment

	pkg *Package

	mu  sync.Mutex
	obj Object
	err error
}

func (e *ObjectExport) Package() *Package { return e.pkg }

// ClassName returns the name of the export's class, or "Class" when the
// class index is null.
func (e *ObjectExport) ClassName() string {
	if e.ClassIndex.IsNull() || e.pkg == nil {
		return "Class"
	}
	n, ok := e.pkg.IndexName(e.ClassIndex)
	if !ok {
		return ""
	}
	return n.Text()
}

// Loaded reports whether the object has been created.
func (e *ObjectExport) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.obj != nil
}

// Object returns the deserialized object, loading it on first call.
//
// Construction happens in two steps: the instance is created from the class
// registry and stored, then deserialized. A lookup that re-enters this export
// while it is being deserialized, for example through a cyclic import,
// receives the stored instance. Concurrent first access from different
// goroutines must be serialized by the caller.
func (e *ObjectExport) Object() (Object, error) {
	if e.pkg == nil {
		return nil, fmt.Errorf("%w: export %s is not bound to a package", ErrUnresolved, e.ObjectName)
	}
	e.mu.Lock()
	if e.obj != nil || e.err != nil {
		obj, err := e.obj, e.err
		e.mu.Unlock()
		return obj, err
	}
	obj := e.pkg.cfg.registry.New(e.ClassName(), e)
	e.obj = obj
	e.mu.Unlock()

	if err := e.deserialize(obj); err != nil {
		e.mu.Lock()
		e.obj, e.err = nil, err
		e.mu.Unlock()
		return nil, err
	}
	return obj, nil
}

func (e *ObjectExport) deserialize(obj Object) error {
	ar := e.pkg.Archive()
	if err := ar.SeekRelative(int(e.SerialOffset)); err != nil {
		return err
	}
	validPos := ar.Pos() + int(e.SerialSize)
	if err := obj.Deserialize(ar, validPos); err != nil {
		return fmt.Errorf("deserialize %s %s: %w", e.ClassName(), e.ObjectName, err)
	}
	if ar.Pos() != validPos {
		e.pkg.logger().Warn("export not fully read",
			slog.String("package", e.pkg.Name),
			slog.String("export", e.ObjectName.Text()),
			slog.String("class", e.ClassName()),
			slog.Int("read", ar.Pos()-(validPos-int(e.SerialSize))),
			slog.Int64("size", e.SerialSize),
		)
	}
	return nil
}
