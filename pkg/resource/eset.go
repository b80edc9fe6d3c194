package resource

import (
	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// delegation is an opposite update that could not be applied locally
// because the target object lives in another resource of the set.
// Delegations are issued after the local lock is released.
type delegation struct {
	targetId   value.ObjectId
	oppositeId value.ObjectId
	sourceId   value.ObjectId
	add        bool
}

func (r *resource) ESet(id value.ObjectId, feature string, v value.Value) bool {
	r.lock.Lock()

	o, ok := r.pool[id]
	if !ok {
		r.lock.Unlock()
		return false
	}
	do, ok := o.(*ecore.DynamicObject)
	if !ok {
		r.lock.Unlock()
		return false
	}

	var delegations []delegation

	var f ecore.Feature
	if c := do.GetClass(); c != nil {
		f = c.GetStructuralFeature(feature)
	}
	switch {
	case f == nil:
		// schema-less fallback: data may be loaded before a
		// metamodel is attached
		do.Set(feature, v)

	case f.IsReference():
		ref := f.(*ecore.EReference)
		if ref.HasOpposite() {
			old := value.Ids(do.Get(feature))
			for _, t := range old {
				r.updateOpposite(t, ref.Opposite, id, false, &delegations)
			}
			do.Set(feature, v)
			for _, t := range value.Ids(v) {
				r.updateOpposite(t, ref.Opposite, id, true, &delegations)
			}
		} else {
			do.Set(feature, v)
		}
		if ref.Containment {
			// a contained object is never simultaneously a root
			for _, t := range value.Ids(v) {
				r.removeRoot(t)
			}
		}

	default:
		do.Set(feature, v)
	}

	set := r.set
	// the event snapshot (including the version hash) must be taken
	// while the lock is held, so a later serialized mutation of the
	// same object cannot race with it
	e := changeEvent(r.uri, do)
	r.lock.Unlock()

	if set != nil {
		for _, d := range delegations {
			set.UpdateOpposite(d.targetId, d.oppositeId, d.sourceId, d.add)
		}
	}
	r.trigger(e)
	return true
}

// updateOpposite maintains the opposite end of a bidirectional
// reference for a local target, or records a delegation for the
// owning resource set when the target is not pooled here. A target
// found nowhere is skipped: consistency is best-effort under partial
// graphs.
func (r *resource) updateOpposite(targetId, oppositeId, sourceId value.ObjectId, add bool, delegations *[]delegation) {
	target, ok := r.pool[targetId]
	if !ok {
		if r.set != nil {
			*delegations = append(*delegations, delegation{targetId, oppositeId, sourceId, add})
		} else {
			log.Debugw("opposite target not found", "target", targetId, "resource", r.uri)
		}
		return
	}
	r.applyOpposite(target, oppositeId, sourceId, add)
}

func (r *resource) applyOpposite(target ecore.Object, oppositeId, sourceId value.ObjectId, add bool) {
	do, ok := target.(*ecore.DynamicObject)
	if !ok {
		return
	}

	var opp *ecore.EReference
	if c := do.GetClass(); c != nil {
		for _, ref := range c.AllReferences() {
			if ref.Id == oppositeId {
				opp = ref
				break
			}
		}
	}
	if opp == nil {
		opp = r.findReference(oppositeId)
	}
	if opp == nil {
		log.Debugw("opposite reference not resolvable", "feature", oppositeId, "resource", r.uri)
		return
	}

	if opp.IsMany() {
		cur, _ := do.Get(opp.Name).(value.List)
		if add {
			for _, id := range value.Ids(cur) {
				if id == sourceId {
					return
				}
			}
			do.Set(opp.Name, append(cur, value.Ref(sourceId)))
		} else {
			var next value.List
			for _, e := range cur {
				if ref, ok := e.(value.Ref); ok && value.ObjectId(ref) == sourceId {
					continue
				}
				next = append(next, e)
			}
			if len(next) == 0 {
				do.Set(opp.Name, nil)
			} else {
				do.Set(opp.Name, next)
			}
		}
	} else {
		if add {
			do.Set(opp.Name, value.Ref(sourceId))
		} else {
			if ref, ok := do.Get(opp.Name).(value.Ref); ok && value.ObjectId(ref) == sourceId {
				do.Set(opp.Name, nil)
			}
		}
	}
}

// applyOppositeUpdate is the entry point used by the resource set
// for cross-resource opposite maintenance.
func (r *resource) applyOppositeUpdate(targetId, oppositeId, sourceId value.ObjectId, add bool) bool {
	r.lock.Lock()

	target, ok := r.pool[targetId]
	if !ok {
		r.lock.Unlock()
		return false
	}
	r.applyOpposite(target, oppositeId, sourceId, add)
	// snapshot under the lock, see ESet
	e := changeEvent(r.uri, target)
	r.lock.Unlock()

	r.trigger(e)
	return true
}
