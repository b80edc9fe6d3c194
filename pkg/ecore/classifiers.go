package ecore

import (
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// Classifier is a named type descriptor in a metamodel. The
// implementor set is closed to EClass, EEnum and EDataType.
type Classifier interface {
	GetId() value.ObjectId
	GetName() string
}

type EClass struct {
	Id                  value.ObjectId
	Name                string
	Abstract            bool
	Interface           bool
	ESuperTypes         []*EClass
	EStructuralFeatures []Feature
}

var _ Classifier = (*EClass)(nil)

func (c *EClass) GetId() value.ObjectId {
	return c.Id
}

func (c *EClass) GetName() string {
	return c.Name
}

// GetStructuralFeature looks up a feature by name, consulting own
// features first and then the supertype closure.
func (c *EClass) GetStructuralFeature(name string) Feature {
	for _, f := range c.AllFeatures() {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func (c *EClass) GetReference(name string) *EReference {
	if r, ok := c.GetStructuralFeature(name).(*EReference); ok {
		return r
	}
	return nil
}

// AllFeatures is the feature closure over the supertype graph, own
// features first. The walk keeps a visited set, so a cyclic
// supertype graph (a contract violation) terminates instead of
// recursing forever.
func (c *EClass) AllFeatures() []Feature {
	var r []Feature
	seen := make(map[value.ObjectId]bool)
	c.allFeatures(&r, seen)
	return r
}

func (c *EClass) allFeatures(r *[]Feature, seen map[value.ObjectId]bool) {
	if seen[c.Id] {
		return
	}
	seen[c.Id] = true
	*r = append(*r, c.EStructuralFeatures...)
	for _, s := range c.ESuperTypes {
		s.allFeatures(r, seen)
	}
}

func (c *EClass) AllReferences() []*EReference {
	var r []*EReference
	for _, f := range c.AllFeatures() {
		if ref, ok := f.(*EReference); ok {
			r = append(r, ref)
		}
	}
	return r
}

// AllSuperTypeNames yields the names of the full supertype closure,
// not including the class itself.
func (c *EClass) AllSuperTypeNames() map[string]bool {
	r := make(map[string]bool)
	seen := make(map[value.ObjectId]bool)
	for _, s := range c.ESuperTypes {
		s.superTypeNames(r, seen)
	}
	return r
}

func (c *EClass) superTypeNames(r map[string]bool, seen map[value.ObjectId]bool) {
	if seen[c.Id] {
		return
	}
	seen[c.Id] = true
	r[c.Name] = true
	for _, s := range c.ESuperTypes {
		s.superTypeNames(r, seen)
	}
}

// IsKindOf reports whether the class is the named class or has it in
// its supertype closure.
func (c *EClass) IsKindOf(name string) bool {
	return c.Name == name || c.AllSuperTypeNames()[name]
}

type EEnumLiteral struct {
	Name  string
	Value int
}

type EEnum struct {
	Id       value.ObjectId
	Name     string
	Literals []EEnumLiteral
}

var _ Classifier = (*EEnum)(nil)

func (e *EEnum) GetId() value.ObjectId {
	return e.Id
}

func (e *EEnum) GetName() string {
	return e.Name
}

func (e *EEnum) GetLiteral(name string) (EEnumLiteral, bool) {
	for _, l := range e.Literals {
		if l.Name == name {
			return l, true
		}
	}
	return EEnumLiteral{}, false
}

// EDataType describes a primitive or opaque type without internal
// structure.
type EDataType struct {
	Id                value.ObjectId
	Name              string
	InstanceClassName string
	Serializable      bool
}

var _ Classifier = (*EDataType)(nil)

func (d *EDataType) GetId() value.ObjectId {
	return d.Id
}

func (d *EDataType) GetName() string {
	return d.Name
}
