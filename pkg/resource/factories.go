package resource

import (
	"fmt"
	"strconv"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// Descriptor factories materialize metamodel descriptors from
// dynamic objects. Descriptors take over the identifier of their
// defining object, so identifier-level correlations survive the
// construction. Optional typed fields accept both native and string
// encodings.

func (r *resource) createEReference(o *ecore.DynamicObject) (*ecore.EReference, value.ObjectId, error) {
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, value.NilId, err
	}
	ref := &ecore.EReference{
		FeatureInfo:    featureInfo(o, name),
		Containment:    boolFeature(o, "containment", false),
		ResolveProxies: boolFeature(o, "resolveProxies", true),
	}

	if tids := value.Ids(o.Get("eType")); len(tids) > 0 {
		ref.EType = r.resolveClass(tids[0])
	}

	pending := value.NilId
	if oids := value.Ids(o.Get("eOpposite")); len(oids) > 0 {
		pending = oids[0]
	}
	return ref, pending, nil
}

// resolveClass yields the cached final class for a type identifier
// or a same-named placeholder to be backfilled later.
func (r *resource) resolveClass(id value.ObjectId) *ecore.EClass {
	if c, ok := r.classById[id]; ok {
		return c
	}
	to := r.dynamic(id)
	if to == nil {
		return nil
	}
	name := stringFeature(to, "name", "")
	if name == "" {
		return nil
	}
	if c, ok := r.classByName[name]; ok {
		return c
	}
	return &ecore.EClass{Id: id, Name: name}
}

func (r *resource) createEClass(o *ecore.DynamicObject, lenient bool) (*ecore.EClass, error) {
	if c, ok := r.classById[o.GetId()]; ok {
		return c, nil
	}
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, err
	}
	class := &ecore.EClass{
		Id:        o.GetId(),
		Name:      name,
		Abstract:  boolFeature(o, "abstract", false),
		Interface: boolFeature(o, "interface", false),
	}
	// registered before resolving supertypes and features, so that
	// repeated occurrences share the one instance
	r.classById[o.GetId()] = class
	r.classByName[name] = class

	for _, sid := range value.Ids(o.Get("eSuperTypes")) {
		so := r.dynamic(sid)
		if so == nil || so.GetClassName() != "EClass" {
			if lenient {
				continue
			}
			return nil, fmt.Errorf("supertype %s of class %q: %w", sid, name, ErrNotExist)
		}
		sc, err := r.createEClass(so, lenient)
		if err != nil {
			return nil, err
		}
		class.ESuperTypes = append(class.ESuperTypes, sc)
	}

	for _, fid := range value.Ids(o.Get("eStructuralFeatures")) {
		// opposite-linked references come from the phase-1/2 cache
		if ref, ok := r.featureRefs[fid]; ok {
			class.EStructuralFeatures = append(class.EStructuralFeatures, ref)
			continue
		}
		fo := r.dynamic(fid)
		if fo == nil {
			if lenient {
				continue
			}
			return nil, fmt.Errorf("feature %s of class %q: %w", fid, name, ErrNotExist)
		}
		switch fo.GetClassName() {
		case "EAttribute":
			attr, err := r.createEAttribute(fo, lenient)
			if err != nil {
				if lenient {
					continue
				}
				return nil, err
			}
			class.EStructuralFeatures = append(class.EStructuralFeatures, attr)
		case "EReference":
			ref, _, err := r.createEReference(fo)
			if err != nil {
				if lenient {
					continue
				}
				return nil, err
			}
			r.featureRefs[fid] = ref
			r.refById[ref.Id] = ref
			class.EStructuralFeatures = append(class.EStructuralFeatures, ref)
		default:
			if lenient {
				continue
			}
			return nil, fmt.Errorf("feature %s of type %q: %w", fid, fo.GetClassName(), ErrUnknownElement)
		}
	}
	return class, nil
}

func (r *resource) createEAttribute(o *ecore.DynamicObject, lenient bool) (*ecore.EAttribute, error) {
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, err
	}
	attr := &ecore.EAttribute{
		FeatureInfo:    featureInfo(o, name),
		DefaultLiteral: stringFeature(o, "defaultValueLiteral", ""),
		IsId:           boolFeature(o, "iD", false),
	}
	if tids := value.Ids(o.Get("eType")); len(tids) > 0 {
		attr.EType, err = r.createAttributeType(tids[0], lenient)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
	}
	return attr, nil
}

func (r *resource) createAttributeType(id value.ObjectId, lenient bool) (ecore.Classifier, error) {
	to := r.dynamic(id)
	if to == nil {
		return nil, fmt.Errorf("type %s: %w", id, ErrNotExist)
	}
	switch to.GetClassName() {
	case "EDataType":
		return r.createEDataType(to)
	case "EEnum":
		return r.createEEnum(to)
	case "EClass":
		c, err := r.createEClass(to, lenient)
		if err != nil {
			// a placeholder class is acceptable only in lenient mode
			if lenient {
				return r.resolveClass(id), nil
			}
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("type %s of %q: %w", id, to.GetClassName(), ErrUnknownElement)
}

func (r *resource) createEEnum(o *ecore.DynamicObject) (*ecore.EEnum, error) {
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, err
	}
	enum := &ecore.EEnum{
		Id:   o.GetId(),
		Name: name,
	}
	for _, lid := range value.Ids(o.Get("eLiterals")) {
		lo := r.dynamic(lid)
		if lo == nil {
			return nil, fmt.Errorf("literal %s of enum %q: %w", lid, name, ErrNotExist)
		}
		lname, err := requiredString(lo, "name")
		if err != nil {
			return nil, err
		}
		enum.Literals = append(enum.Literals, ecore.EEnumLiteral{
			Name:  lname,
			Value: intFeature(lo, "value", len(enum.Literals)),
		})
	}
	return enum, nil
}

func (r *resource) createEDataType(o *ecore.DynamicObject) (*ecore.EDataType, error) {
	name, err := requiredString(o, "name")
	if err != nil {
		return nil, err
	}
	return &ecore.EDataType{
		Id:                o.GetId(),
		Name:              name,
		InstanceClassName: stringFeature(o, "instanceClassName", ""),
		Serializable:      boolFeature(o, "serializable", true),
	}, nil
}

func featureInfo(o *ecore.DynamicObject, name string) ecore.FeatureInfo {
	return ecore.FeatureInfo{
		Id:         o.GetId(),
		Name:       name,
		LowerBound: intFeature(o, "lowerBound", 0),
		UpperBound: intFeature(o, "upperBound", 1),
		Changeable: boolFeature(o, "changeable", true),
		Volatile:   boolFeature(o, "volatile", false),
		Transient:  boolFeature(o, "transient", false),
	}
}

func requiredString(o *ecore.DynamicObject, name string) (string, error) {
	if s, ok := o.Get(name).(value.String); ok && s != "" {
		return string(s), nil
	}
	return "", fmt.Errorf("%s %s: %w %q", o.GetClassName(), o.GetId(), ErrMissingAttribute, name)
}

func stringFeature(o *ecore.DynamicObject, name string, def string) string {
	if s, ok := o.Get(name).(value.String); ok {
		return string(s)
	}
	return def
}

// boolFeature accepts native booleans and their string renderings.
func boolFeature(o *ecore.DynamicObject, name string, def bool) bool {
	switch e := o.Get(name).(type) {
	case value.Bool:
		return bool(e)
	case value.String:
		if b, err := strconv.ParseBool(string(e)); err == nil {
			return b
		}
	}
	return def
}

// intFeature accepts any native integer width and string renderings.
func intFeature(o *ecore.DynamicObject, name string, def int) int {
	switch e := o.Get(name).(type) {
	case value.Int8:
		return int(e)
	case value.Int16:
		return int(e)
	case value.Int32:
		return int(e)
	case value.Int:
		return int(e)
	case value.String:
		if i, err := strconv.Atoi(string(e)); err == nil {
			return i
		}
	}
	return def
}
