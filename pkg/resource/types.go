package resource

import (
	"fmt"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/events"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

var ErrNotExist = fmt.Errorf("object not found")
var ErrInvalidType = fmt.Errorf("invalid object type")
var ErrMissingAttribute = fmt.Errorf("missing required attribute")
var ErrUnknownElement = fmt.Errorf("unsupported element type")

// Resource owns a pool of model objects keyed by identifier and
// tracks the root objects, the objects not contained by any other
// object in the pool via a containment reference.
//
// Operations on a single resource are serialized; lookups never
// fail, dangling references resolve to absent results.
type Resource interface {
	GetURI() string
	GetResourceSet() ResourceSet

	// Register inserts an object into the pool without touching
	// root tracking. It reports whether the object was newly
	// inserted.
	Register(o ecore.Object) bool
	// Add inserts (or updates) an object and recomputes root
	// membership for it and for the objects it contains.
	Add(o ecore.Object) bool
	Remove(id value.ObjectId) bool
	RemoveObject(o ecore.Object) bool
	Clear()

	GetObject(id value.ObjectId) ecore.Object
	GetAllObjects() []ecore.Object
	GetRootObjects() []ecore.Object
	// GetAllInstancesOf matches the class name exactly or via the
	// supertype closure of an attached class descriptor.
	GetAllInstancesOf(class string) []ecore.Object

	Resolve(id value.ObjectId) ecore.Object
	// ResolveOpposite finds the reference identified by the
	// argument's opposite id among the class descriptors of the
	// pooled objects.
	ResolveOpposite(ref *ecore.EReference) *ecore.EReference
	// ResolveReference maps the raw feature value of the given
	// object through the pool, silently dropping dangling ids.
	ResolveReference(ref *ecore.EReference, from ecore.Object) []ecore.Object
	// ResolveByPath supports "/" (first root), a bare object id,
	// "/@contents.N" (Nth root) and "/index/feature/index/..."
	// traversal paths.
	ResolveByPath(path string) ecore.Object

	EGet(id value.ObjectId, feature string) value.Value
	// ESet stores a feature value, maintaining the opposite end of
	// bidirectional references and the root list for containment
	// references. It reports false for an unknown object.
	ESet(id value.ObjectId, feature string, v value.Value) bool

	// CreateEPackage reconstructs a fully-linked metamodel package
	// from the dynamic object with the given id. With
	// ignoreUnresolved, unresolvable classifiers and features are
	// skipped instead of failing; the setting is inherited by
	// subpackage construction. Classifier names are assumed to be
	// unique across the whole nested package tree.
	CreateEPackage(id value.ObjectId, ignoreUnresolved ...bool) (*ecore.EPackage, error)

	// CheckContainment verifies that the containment edges of the
	// pool are acyclic.
	CheckContainment() error

	events.HandlerRegistration
}

// ResourceSet composes resources, a namespace-URI-keyed metamodel
// registry, URI redirection and pluggable resource factories, and
// coordinates opposite maintenance across resource boundaries.
type ResourceSet interface {
	// CreateResource returns the resource registered under the
	// normalized URI, creating an empty one if necessary.
	CreateResource(uri string) Resource
	// GetResource returns the registered resource or tries to load
	// one via a matching factory. Load failures are swallowed and
	// yield an absent result.
	GetResource(uri string) Resource
	GetResources() []Resource

	RegisterMetamodel(p *ecore.EPackage, uri string)
	GetMetamodel(uri string) *ecore.EPackage

	AddURIMapping(logical, physical string)
	// AddFactory registers a factory for a URI pattern, matched by
	// suffix or substring. The longest matching pattern wins;
	// ties resolve in registration order.
	AddFactory(pattern string, f ResourceFactory)

	// Resolve scans the owned resources in registration order and
	// returns the first object found together with its resource.
	Resolve(id value.ObjectId) (ecore.Object, Resource)
	// UpdateOpposite applies an opposite-feature update to the
	// target object wherever it lives among the owned resources.
	UpdateOpposite(targetId, oppositeRefId, sourceId value.ObjectId, add bool)

	events.HandlerRegistration
}

// ResourceFactory loads resources for URIs it can handle.
type ResourceFactory interface {
	CanHandle(uri string) bool
	CreateResource(uri string, set ResourceSet) (Resource, error)
}

// ResolveAs is a type-narrowing pool lookup, absent on a missing id
// or a representation mismatch.
func ResolveAs[T ecore.Object](r Resource, id value.ObjectId) (T, bool) {
	var _nil T
	o := r.Resolve(id)
	if o == nil {
		return _nil, false
	}
	t, ok := o.(T)
	return t, ok
}
