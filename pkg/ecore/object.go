package ecore

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// Object is the polymorphism surface for model objects held in a
// resource pool. The implementor set is closed: the only model
// representation is the DynamicObject.
type Object interface {
	GetId() value.ObjectId
	GetClassName() string
	GetClass() *EClass

	Get(name string) value.Value
	Set(name string, v value.Value)
	FeatureNames() []string
}

// DynamicObject is a runtime-typed record: a class reference plus a
// sparse mapping from feature name to value. It serves both as
// schema-less storage for objects parsed without a metamodel and as
// the typed backing store once a class descriptor is attached.
type DynamicObject struct {
	id        value.ObjectId
	className string
	class     *EClass
	features  map[string]value.Value
	order     []string
}

var _ Object = (*DynamicObject)(nil)

func NewDynamicObject(id value.ObjectId, className string) *DynamicObject {
	return &DynamicObject{
		id:        id,
		className: className,
		features:  map[string]value.Value{},
	}
}

func NewObject(className string) *DynamicObject {
	return NewDynamicObject(value.NewId(), className)
}

func (o *DynamicObject) GetId() value.ObjectId {
	return o.id
}

func (o *DynamicObject) GetClassName() string {
	if o.class != nil {
		return o.class.Name
	}
	return o.className
}

func (o *DynamicObject) GetClass() *EClass {
	return o.class
}

// SetClass attaches a class descriptor. The declared class name is
// kept for diagnostics if the descriptor is detached again.
func (o *DynamicObject) SetClass(c *EClass) {
	o.class = c
	if c != nil {
		o.className = c.Name
	}
}

// Get returns the stored value for a feature name or nil if unset.
// No descriptor-level type checking happens here.
func (o *DynamicObject) Get(name string) value.Value {
	return o.features[name]
}

func (o *DynamicObject) GetFeature(f Feature) value.Value {
	return o.features[f.GetName()]
}

// Set stores or clears (v == nil) a feature value. It always
// succeeds; type mismatches against the descriptor are the caller's
// responsibility.
func (o *DynamicObject) Set(name string, v value.Value) {
	if v == nil {
		if _, ok := o.features[name]; ok {
			delete(o.features, name)
			i := slices.Index(o.order, name)
			o.order = slices.Delete(o.order, i, i+1)
		}
		return
	}
	if _, ok := o.features[name]; !ok {
		o.order = append(o.order, name)
	}
	o.features[name] = v
}

func (o *DynamicObject) SetFeature(f Feature, v value.Value) {
	o.Set(f.GetName(), v)
}

// FeatureNames lists the feature names with an explicitly stored
// value in assignment order. Unset descriptor features are not
// enumerated.
func (o *DynamicObject) FeatureNames() []string {
	return slices.Clone(o.order)
}

// Version is a content hash over the stored feature values, usable
// for change detection. Feature names are hashed in sorted order so
// the result does not depend on assignment order.
func (o *DynamicObject) Version() string {
	h := xxhash.New()
	h.WriteString(o.id.String())
	h.WriteString("\x00")
	h.WriteString(o.GetClassName())
	names := slices.Clone(o.order)
	slices.Sort(names)
	for _, n := range names {
		h.WriteString("\x00")
		h.WriteString(n)
		h.WriteString("=")
		h.WriteString(value.AsString(o.features[n]))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
