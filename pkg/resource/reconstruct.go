package resource

import (
	"fmt"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// Metamodel reconstruction materializes a fully-linked EPackage from
// dynamic objects whose classifier and feature relationships are
// expressed purely as identifier lists. The difficulty: a reference
// target may denote a class not yet constructed, and two references
// may be mutual opposites that must end up pointing at each other's
// final descriptor. Construction therefore runs in five ordered
// phases per package:
//
//  1. pre-create every EReference of every EClass of the package,
//     resolving target types only to same-named placeholders
//  2. resolve declared opposites in one batch pass over the complete
//     pending set
//  3. construct the classifiers, EClasses consuming the phase-1/2
//     reference cache
//  4. rewrite placeholder target types to the final classes
//  5. rewrite class feature lists to the phase-4 references
//
// Subpackages recurse through the same phases afterwards, sharing
// the caches of the enclosing call so that later phases can backfill
// across package boundaries.

func (r *resource) CreateEPackage(id value.ObjectId, ignoreUnresolved ...bool) (*ecore.EPackage, error) {
	lenient := len(ignoreUnresolved) > 0 && ignoreUnresolved[0]

	r.lock.Lock()
	defer r.lock.Unlock()

	o, ok := r.pool[id]
	if !ok {
		return nil, fmt.Errorf("package %s: %w", id, ErrNotExist)
	}
	do, ok := o.(*ecore.DynamicObject)
	if !ok {
		return nil, fmt.Errorf("package %s: %w", id, ErrInvalidType)
	}

	r.refById = map[value.ObjectId]*ecore.EReference{}
	r.featureRefs = map[value.ObjectId]*ecore.EReference{}
	r.classByName = map[string]*ecore.EClass{}
	r.classById = map[value.ObjectId]*ecore.EClass{}
	r.pendingOpps = map[value.ObjectId]value.ObjectId{}
	defer func() {
		r.refById = nil
		r.featureRefs = nil
		r.classByName = nil
		r.classById = nil
		r.pendingOpps = nil
	}()

	return r.createPackage(do, lenient)
}

func (r *resource) createPackage(o *ecore.DynamicObject, lenient bool) (*ecore.EPackage, error) {
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, err
	}
	p := &ecore.EPackage{
		Id:       o.GetId(),
		Name:     name,
		NsURI:    stringFeature(o, "nsURI", ""),
		NsPrefix: stringFeature(o, "nsPrefix", ""),
	}

	classifiers := value.Ids(o.Get("eClassifiers"))

	if err := r.precreateReferences(classifiers, lenient); err != nil {
		return nil, err
	}
	r.resolveOpposites()
	if err := r.createClassifiers(p, classifiers, lenient); err != nil {
		return nil, err
	}
	r.backfillReferenceTypes()
	r.backfillFeatureLists()

	for _, sid := range value.Ids(o.Get("eSubpackages")) {
		so := r.dynamic(sid)
		if so == nil || so.GetClassName() != "EPackage" {
			if lenient {
				continue
			}
			return nil, fmt.Errorf("subpackage %s: %w", sid, ErrNotExist)
		}
		sp, err := r.createPackage(so, lenient)
		if err != nil {
			return nil, err
		}
		p.ESubpackages = append(p.ESubpackages, sp)
	}
	return p, nil
}

// phase 1: every reference of every class of the package is created
// before any opposite linking or class construction, independent of
// class construction order.
func (r *resource) precreateReferences(classifiers []value.ObjectId, lenient bool) error {
	for _, cid := range classifiers {
		co := r.dynamic(cid)
		if co == nil || co.GetClassName() != "EClass" {
			continue
		}
		for _, fid := range value.Ids(co.Get("eStructuralFeatures")) {
			fo := r.dynamic(fid)
			if fo == nil || fo.GetClassName() != "EReference" {
				continue
			}
			if _, ok := r.featureRefs[fid]; ok {
				continue
			}
			ref, pending, err := r.createEReference(fo)
			if err != nil {
				if lenient {
					continue
				}
				return err
			}
			r.featureRefs[fid] = ref
			r.refById[ref.Id] = ref
			if !pending.IsNil() {
				r.pendingOpps[fid] = pending
			}
		}
	}
	return nil
}

// phase 2: a single batch pass over the pending set built from the
// complete phase-1 output. The declared opposite of a pending
// reference names a source dynamic object, not a reference; the
// correlation map translates it to the reference created for that
// object, falling back to reverse correlation for opposites that
// were already forward-resolved to reference ids.
func (r *resource) resolveOpposites() {
	correlation := map[value.ObjectId]value.ObjectId{}
	for fid, ref := range r.featureRefs {
		correlation[fid] = ref.Id
	}
	for _, oppId := range r.pendingOpps {
		if _, ok := correlation[oppId]; ok {
			continue
		}
		if oref, ok := r.refById[oppId]; ok {
			correlation[oppId] = oref.Id
		}
	}

	for fid, oppId := range r.pendingOpps {
		ref := r.featureRefs[fid]
		if target, ok := correlation[oppId]; ok {
			ref.Opposite = target
			r.refById[ref.Id] = ref
		} else {
			log.Debugw("unresolvable opposite", "reference", ref.Name, "declared", oppId)
		}
		delete(r.pendingOpps, fid)
	}
}

// phase 3: classifier construction by meta-type dispatch.
func (r *resource) createClassifiers(p *ecore.EPackage, classifiers []value.ObjectId, lenient bool) error {
	for _, cid := range classifiers {
		co := r.dynamic(cid)
		if co == nil {
			if lenient {
				continue
			}
			return fmt.Errorf("classifier %s: %w", cid, ErrNotExist)
		}

		var c ecore.Classifier
		var err error
		switch co.GetClassName() {
		case "EClass":
			c, err = r.createEClass(co, lenient)
		case "EEnum":
			c, err = r.createEEnum(co)
		case "EDataType":
			c, err = r.createEDataType(co)
		default:
			err = fmt.Errorf("classifier %s of type %q: %w", cid, co.GetClassName(), ErrUnknownElement)
		}
		if err != nil {
			if lenient {
				continue
			}
			return err
		}
		p.EClassifiers = append(p.EClassifiers, c)
	}
	return nil
}

// phase 4: references created against a same-named placeholder are
// rewritten to the final class.
func (r *resource) backfillReferenceTypes() {
	for _, ref := range r.refById {
		if ref.EType == nil {
			continue
		}
		if c, ok := r.classByName[ref.EType.Name]; ok && c != ref.EType {
			ref.EType = c
		}
	}
}

// phase 5: class feature lists are rewritten to the phase-4
// reference versions, matched by reference id.
func (r *resource) backfillFeatureLists() {
	for _, class := range r.classById {
		for i, f := range class.EStructuralFeatures {
			if ref, ok := f.(*ecore.EReference); ok {
				if cached, ok := r.refById[ref.Id]; ok {
					class.EStructuralFeatures[i] = cached
				}
			}
		}
	}
}

func (r *resource) dynamic(id value.ObjectId) *ecore.DynamicObject {
	if o, ok := r.pool[id].(*ecore.DynamicObject); ok {
		return o
	}
	return nil
}
