package uasset

import (
	"fmt"
	"sync"
)

// Object is a deserialized export.
type Object interface {
	Export() *ObjectExport
	// Deserialize reads the export body. ar is positioned at the first byte
	// of the body and validPos is the local offset just past it.
	Deserialize(ar *AssetArchive, validPos int) error
}

// Serializer writes an export body.
type Serializer interface {
	Serialize(w *ArchiveWriter) error
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc func(w *ArchiveWriter) error

func (f SerializerFunc) Serialize(w *ArchiveWriter) error { return f(w) }

// ObjectBase carries the export binding shared by all object kinds.
type ObjectBase struct {
	export *ObjectExport
}

func NewObjectBase(e *ObjectExport) ObjectBase { return ObjectBase{export: e} }

func (b ObjectBase) Export() *ObjectExport { return b.export }

func (b ObjectBase) Name() string {
	if b.export == nil {
		return ""
	}
	return b.export.ObjectName.Text()
}

func (b ObjectBase) ClassName() string {
	if b.export == nil {
		return ""
	}
	return b.export.ClassName()
}

// RawObject holds the body of an export whose class is not registered.
type RawObject struct {
	ObjectBase
	Data []byte
}

func (o *RawObject) Deserialize(ar *AssetArchive, validPos int) error {
	b, err := ar.ReadBytes(validPos - ar.Pos())
	if err != nil {
		return err
	}
	o.Data = b
	return nil
}

func (o *RawObject) Serialize(w *ArchiveWriter) error {
	w.WriteBytes(o.Data)
	return nil
}

// ClassFactory creates an empty object bound to e.
type ClassFactory func(e *ObjectExport) Object

// ClassRegistry maps class names to object factories. Unknown classes
// produce a *RawObject.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]ClassFactory
}

func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]ClassFactory)}
}

// DefaultClassRegistry knows the built-in object kinds.
var DefaultClassRegistry = newDefaultClassRegistry()

func newDefaultClassRegistry() *ClassRegistry {
	r := NewClassRegistry()
	r.Register(ClassMaterialInstanceConstant, func(e *ObjectExport) Object {
		return &MaterialInstance{ObjectBase: NewObjectBase(e)}
	})
	r.Register(ClassMtxOfferData, func(e *ObjectExport) Object {
		return &MtxOfferData{ObjectBase: NewObjectBase(e)}
	})
	r.Register(ClassTexture2D, func(e *ObjectExport) Object {
		return &Texture2D{ObjectBase: NewObjectBase(e)}
	})
	return r
}

// Register binds class to f, replacing any previous factory.
func (r *ClassRegistry) Register(class string, f ClassFactory) {
	if f == nil {
		panic(fmt.Sprintf("uasset: nil factory for class %q", class))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class] = f
}

func (r *ClassRegistry) Lookup(class string) (ClassFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.classes[class]
	return f, ok
}

// New creates an object for class bound to e.
func (r *ClassRegistry) New(class string, e *ObjectExport) Object {
	if f, ok := r.Lookup(class); ok {
		return f(e)
	}
	return &RawObject{ObjectBase: NewObjectBase(e)}
}

// Clone returns an independent copy that can be extended without touching r.
func (r *ClassRegistry) Clone() *ClassRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewClassRegistry()
	for k, v := range r.classes {
		c.classes[k] = v
	}
	return c
}
