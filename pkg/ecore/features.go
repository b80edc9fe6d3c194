package ecore

import (
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

const Unbounded = -1

// Feature is a structural feature declared by a class: an attribute
// or a reference. The implementor set is closed to EAttribute and
// EReference.
type Feature interface {
	GetId() value.ObjectId
	GetName() string
	GetLowerBound() int
	GetUpperBound() int
	IsMany() bool
	IsReference() bool
}

// FeatureInfo carries the cardinality and mutability settings shared
// by attributes and references.
type FeatureInfo struct {
	Id         value.ObjectId
	Name       string
	LowerBound int
	UpperBound int
	Changeable bool
	Volatile   bool
	Transient  bool
}

func (f *FeatureInfo) GetId() value.ObjectId {
	return f.Id
}

func (f *FeatureInfo) GetName() string {
	return f.Name
}

func (f *FeatureInfo) GetLowerBound() int {
	return f.LowerBound
}

func (f *FeatureInfo) GetUpperBound() int {
	return f.UpperBound
}

func (f *FeatureInfo) IsMany() bool {
	return f.UpperBound == Unbounded || f.UpperBound > 1
}

type EAttribute struct {
	FeatureInfo
	EType          Classifier
	DefaultLiteral string
	IsId           bool
}

var _ Feature = (*EAttribute)(nil)

func (a *EAttribute) IsReference() bool {
	return false
}

// EReference describes an association end. Opposite, if set, is the
// feature id of the other end of a bidirectional association; both
// ends must be kept consistent under mutation.
type EReference struct {
	FeatureInfo
	EType          *EClass
	Containment    bool
	Opposite       value.ObjectId
	ResolveProxies bool
}

var _ Feature = (*EReference)(nil)

func (r *EReference) IsReference() bool {
	return true
}

func (r *EReference) HasOpposite() bool {
	return !r.Opposite.IsNil()
}
