package resource

import (
	"slices"
	"strings"
	"sync"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/events"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

type resource struct {
	lock sync.Mutex
	uri  string
	set  *resourceSet

	pool  map[value.ObjectId]ecore.Object
	order []value.ObjectId
	roots []value.ObjectId

	registry events.HandlerRegistry

	// scratch state for metamodel reconstruction, populated and
	// cleared within a single CreateEPackage call
	refById     map[value.ObjectId]*ecore.EReference
	featureRefs map[value.ObjectId]*ecore.EReference
	classByName map[string]*ecore.EClass
	classById   map[value.ObjectId]*ecore.EClass
	pendingOpps map[value.ObjectId]value.ObjectId
}

var _ Resource = (*resource)(nil)

func New(uri string) Resource {
	r := &resource{
		uri:  uri,
		pool: map[value.ObjectId]ecore.Object{},
	}
	r.registry = events.NewHandlerRegistry(r)
	return r
}

func (r *resource) GetURI() string {
	return r.uri
}

func (r *resource) GetResourceSet() ResourceSet {
	if r.set == nil {
		return nil
	}
	return r.set
}

func (r *resource) Register(o ecore.Object) bool {
	r.lock.Lock()
	_, found := r.pool[o.GetId()]
	r.pool[o.GetId()] = o
	if !found {
		r.order = append(r.order, o.GetId())
	}
	// the event snapshot (including the version hash) must be taken
	// while the lock is held, so a later serialized mutation of the
	// same object cannot race with it
	e := changeEvent(r.uri, o)
	r.lock.Unlock()

	r.trigger(e)
	return !found
}

func (r *resource) Add(o ecore.Object) bool {
	r.lock.Lock()
	id := o.GetId()
	_, found := r.pool[id]
	r.pool[id] = o
	if !found {
		r.order = append(r.order, id)
	}

	// an object is a root exactly if no other pooled object holds
	// it in a containment reference; containers may have been added
	// before or after their contained objects, so both directions
	// are reestablished here
	if r.isContained(id) {
		r.removeRoot(id)
	} else {
		r.roots = appendUnique(r.roots, id)
	}
	for _, t := range containedIds(o) {
		r.removeRoot(t)
	}
	// snapshot under the lock, see Register
	e := changeEvent(r.uri, o)
	r.lock.Unlock()

	r.trigger(e)
	return !found
}

func (r *resource) Remove(id value.ObjectId) bool {
	r.lock.Lock()
	o, found := r.pool[id]
	if !found {
		r.lock.Unlock()
		return false
	}
	delete(r.pool, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.removeRoot(id)

	// formerly contained objects may have lost their only container
	for _, t := range containedIds(o) {
		if _, ok := r.pool[t]; ok && !r.isContained(t) {
			r.roots = appendUnique(r.roots, t)
		}
	}
	// snapshot under the lock, see Register
	e := events.ObjectEvent{
		Id:       id,
		Class:    o.GetClassName(),
		Resource: r.uri,
		Deleted:  true,
	}
	r.lock.Unlock()

	r.trigger(e)
	return true
}

func (r *resource) RemoveObject(o ecore.Object) bool {
	return r.Remove(o.GetId())
}

func (r *resource) Clear() {
	r.lock.Lock()
	r.pool = map[value.ObjectId]ecore.Object{}
	r.order = nil
	r.roots = nil
	r.lock.Unlock()
}

func (r *resource) GetObject(id value.ObjectId) ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pool[id]
}

func (r *resource) GetAllObjects() []ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.objects(r.order)
}

func (r *resource) GetRootObjects() []ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.objects(r.roots)
}

func (r *resource) GetAllInstancesOf(class string) []ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []ecore.Object
	for _, id := range r.order {
		o := r.pool[id]
		if o.GetClassName() == class {
			result = append(result, o)
			continue
		}
		if c := o.GetClass(); c != nil && c.IsKindOf(class) {
			result = append(result, o)
		}
	}
	return result
}

func (r *resource) objects(ids []value.ObjectId) []ecore.Object {
	var result []ecore.Object
	for _, id := range ids {
		if o, ok := r.pool[id]; ok {
			result = append(result, o)
		}
	}
	return result
}

func (r *resource) removeRoot(id value.ObjectId) {
	if i := slices.Index(r.roots, id); i >= 0 {
		r.roots = slices.Delete(r.roots, i, i+1)
	}
}

// isContained reports whether any pooled object other than id's own
// holds id in a containment reference.
func (r *resource) isContained(id value.ObjectId) bool {
	for _, oid := range r.order {
		if oid == id {
			continue
		}
		if slices.Contains(containedIds(r.pool[oid]), id) {
			return true
		}
	}
	return false
}

// containedIds yields the target ids of all containment references
// of an object. Objects without an attached class descriptor cannot
// declare containment.
func containedIds(o ecore.Object) []value.ObjectId {
	c := o.GetClass()
	if c == nil {
		return nil
	}
	var ids []value.ObjectId
	for _, ref := range c.AllReferences() {
		if ref.Containment {
			ids = append(ids, value.Ids(o.Get(ref.Name))...)
		}
	}
	return ids
}

// CheckContainment validates that containment edges are acyclic.
// The resource does not maintain this invariant actively; callers
// needing the guarantee run this pass explicitly.
func (r *resource) CheckContainment() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	checked := map[value.ObjectId]bool{}
	for _, id := range r.order {
		if err := r.checkContainment(id, checked); err != nil {
			return err
		}
	}
	return nil
}

func (r *resource) checkContainment(id value.ObjectId, checked map[value.ObjectId]bool, stack ...value.ObjectId) error {
	if cycle := closeCycle(id, stack); cycle != nil {
		return &ContainmentCycleError{Cycle: cycle}
	}
	if checked[id] {
		return nil
	}
	checked[id] = true
	o, ok := r.pool[id]
	if !ok {
		return nil
	}
	stack = append(stack, id)
	for _, t := range containedIds(o) {
		if err := r.checkContainment(t, checked, stack...); err != nil {
			return err
		}
	}
	return nil
}

type ContainmentCycleError struct {
	Cycle []value.ObjectId
}

func (e *ContainmentCycleError) Error() string {
	ids := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		ids[i] = id.String()
	}
	return "containment cycle: " + strings.Join(ids, " -> ")
}

func appendUnique(ids []value.ObjectId, id value.ObjectId) []value.ObjectId {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// closeCycle returns the cycle closed by id over the given stack, or
// nil if id does not occur in the stack.
func closeCycle(id value.ObjectId, stack []value.ObjectId) []value.ObjectId {
	i := slices.Index(stack, id)
	if i < 0 {
		return nil
	}
	return append(slices.Clone(stack[i:]), id)
}

////////////////////////////////////////////////////////////////////////////////
// change events

func changeEvent(uri string, o ecore.Object) events.ObjectEvent {
	e := events.ObjectEvent{
		Id:       o.GetId(),
		Class:    o.GetClassName(),
		Resource: uri,
	}
	if d, ok := o.(*ecore.DynamicObject); ok {
		e.Version = d.Version()
	}
	return e
}

func (r *resource) trigger(e events.ObjectEvent) {
	r.registry.TriggerEvent(e)
	if r.set != nil {
		r.set.registry.TriggerEvent(e)
	}
}

func (r *resource) RegisterHandler(h events.EventHandler, current bool, class string, ress ...string) events.Sync {
	return r.registry.RegisterHandler(h, current, class, ress...)
}

func (r *resource) UnregisterHandler(h events.EventHandler, class string, ress ...string) {
	r.registry.UnregisterHandler(h, class, ress...)
}

// ListEvents feeds newly registered handlers the current pool state.
func (r *resource) ListEvents(class string, res string) []events.ObjectEvent {
	if res != "" && res != r.uri {
		return nil
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []events.ObjectEvent
	for _, id := range r.order {
		o := r.pool[id]
		if class != "" && o.GetClassName() != class {
			continue
		}
		result = append(result, changeEvent(r.uri, o))
	}
	return result
}
