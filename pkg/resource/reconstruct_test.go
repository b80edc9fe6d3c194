package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

func meta(res Resource, className string, features map[string]value.Value) *ecore.DynamicObject {
	o := ecore.NewObject(className)
	for n, v := range features {
		o.Set(n, v)
	}
	res.Register(o)
	return o
}

// metamodelFixture registers the dynamic rendering of a small company
// metamodel: an abstract Named base, Company/Person with mutual
// employees/employer opposites, a Color enum and an EString data type.
type metamodelFixture struct {
	res Resource

	stringType  *ecore.DynamicObject
	nameAttr    *ecore.DynamicObject
	named       *ecore.DynamicObject
	companyCls  *ecore.DynamicObject
	personCls   *ecore.DynamicObject
	empsRef     *ecore.DynamicObject
	employerRef *ecore.DynamicObject
	color       *ecore.DynamicObject
	pkg         *ecore.DynamicObject
}

func newMetamodelFixture() *metamodelFixture {
	f := &metamodelFixture{res: New("test:metamodel")}

	f.stringType = meta(f.res, "EDataType", map[string]value.Value{
		"name":              value.String("EString"),
		"instanceClassName": value.String("string"),
	})
	f.nameAttr = meta(f.res, "EAttribute", map[string]value.Value{
		"name":  value.String("name"),
		"eType": value.NewRef(f.stringType.GetId()),
	})
	f.named = meta(f.res, "EClass", map[string]value.Value{
		"name":                value.String("Named"),
		"abstract":            value.Bool(true),
		"eStructuralFeatures": value.NewRefList(f.nameAttr.GetId()),
	})

	f.empsRef = meta(f.res, "EReference", map[string]value.Value{
		"name":        value.String("employees"),
		"upperBound":  value.Int(-1),
		"containment": value.Bool(true),
	})
	f.employerRef = meta(f.res, "EReference", map[string]value.Value{
		"name": value.String("employer"),
	})
	f.companyCls = meta(f.res, "EClass", map[string]value.Value{
		"name":                value.String("Company"),
		"eStructuralFeatures": value.NewRefList(f.empsRef.GetId()),
	})
	f.personCls = meta(f.res, "EClass", map[string]value.Value{
		"name":                value.String("Person"),
		"eSuperTypes":         value.NewRefList(f.named.GetId()),
		"eStructuralFeatures": value.NewRefList(f.employerRef.GetId()),
	})
	f.empsRef.Set("eType", value.NewRef(f.personCls.GetId()))
	f.empsRef.Set("eOpposite", value.NewRef(f.employerRef.GetId()))
	f.employerRef.Set("eType", value.NewRef(f.companyCls.GetId()))
	f.employerRef.Set("eOpposite", value.NewRef(f.empsRef.GetId()))

	red := meta(f.res, "EEnumLiteral", map[string]value.Value{
		"name": value.String("RED"),
	})
	green := meta(f.res, "EEnumLiteral", map[string]value.Value{
		"name":  value.String("GREEN"),
		"value": value.Int(7),
	})
	f.color = meta(f.res, "EEnum", map[string]value.Value{
		"name":      value.String("Color"),
		"eLiterals": value.NewRefList(red.GetId(), green.GetId()),
	})

	f.pkg = meta(f.res, "EPackage", map[string]value.Value{
		"name":     value.String("company"),
		"nsURI":    value.String("http://example.com/company"),
		"nsPrefix": value.String("co"),
		"eClassifiers": value.NewRefList(
			f.named.GetId(), f.companyCls.GetId(), f.personCls.GetId(),
			f.color.GetId(), f.stringType.GetId(),
		),
	})
	return f
}

func TestMetamodelReconstruction(t *testing.T) {
	t.Run("rebuilds the package skeleton", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)
		assert.Equal(t, f.pkg.GetId(), p.Id)
		assert.Equal(t, "company", p.Name)
		assert.Equal(t, "http://example.com/company", p.NsURI)
		assert.Equal(t, "co", p.NsPrefix)
		assert.Len(t, p.EClassifiers, 5)
	})

	t.Run("links mutual opposites to each other's descriptor", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		emps := p.GetEClass("Company").GetReference("employees")
		employer := p.GetEClass("Person").GetReference("employer")
		require.NotNil(t, emps)
		require.NotNil(t, employer)
		assert.Equal(t, employer.Id, emps.Opposite)
		assert.Equal(t, emps.Id, employer.Opposite)
	})

	t.Run("resolves reference targets to the one class instance", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		company := p.GetEClass("Company")
		person := p.GetEClass("Person")
		assert.Same(t, person, company.GetReference("employees").EType)
		assert.Same(t, company, person.GetReference("employer").EType)
	})

	t.Run("carries cardinality and containment settings", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		emps := p.GetEClass("Company").GetReference("employees")
		assert.True(t, emps.IsMany())
		assert.True(t, emps.Containment)
		employer := p.GetEClass("Person").GetReference("employer")
		assert.False(t, employer.IsMany())
		assert.False(t, employer.Containment)
	})

	t.Run("accepts string renderings of typed settings", func(t *testing.T) {
		f := newMetamodelFixture()
		f.empsRef.Set("upperBound", value.String("-1"))
		f.empsRef.Set("containment", value.String("true"))
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		emps := p.GetEClass("Company").GetReference("employees")
		assert.True(t, emps.IsMany())
		assert.True(t, emps.Containment)
	})

	t.Run("rebuilds supertype relations and inherited features", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		person := p.GetEClass("Person")
		assert.True(t, person.IsKindOf("Named"))
		feat := person.GetStructuralFeature("name")
		require.NotNil(t, feat)
		attr := feat.(*ecore.EAttribute)
		assert.Equal(t, "EString", attr.EType.GetName())
		assert.True(t, p.GetEClass("Named").Abstract)
	})

	t.Run("rebuilds enums with implicit and explicit literal values", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		e := p.GetClassifier("Color").(*ecore.EEnum)
		l, ok := e.GetLiteral("RED")
		require.True(t, ok)
		assert.Equal(t, 0, l.Value)
		l, ok = e.GetLiteral("GREEN")
		require.True(t, ok)
		assert.Equal(t, 7, l.Value)
	})

	t.Run("rebuilds data types", func(t *testing.T) {
		f := newMetamodelFixture()
		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		d := p.GetClassifier("EString").(*ecore.EDataType)
		assert.Equal(t, "string", d.InstanceClassName)
		assert.True(t, d.Serializable)
	})

	t.Run("recurses into subpackages sharing the classifier space", func(t *testing.T) {
		f := newMetamodelFixture()
		addrRef := meta(f.res, "EReference", map[string]value.Value{
			"name":  value.String("company"),
			"eType": value.NewRef(f.companyCls.GetId()),
		})
		addr := meta(f.res, "EClass", map[string]value.Value{
			"name":                value.String("Address"),
			"eStructuralFeatures": value.NewRefList(addrRef.GetId()),
		})
		sub := meta(f.res, "EPackage", map[string]value.Value{
			"name":         value.String("locations"),
			"eClassifiers": value.NewRefList(addr.GetId()),
		})
		f.pkg.Set("eSubpackages", value.NewRefList(sub.GetId()))

		p, err := f.res.CreateEPackage(f.pkg.GetId())
		require.NoError(t, err)

		sp := p.GetSubpackage("locations")
		require.NotNil(t, sp)
		ref := sp.GetEClass("Address").GetReference("company")
		assert.Same(t, p.GetEClass("Company"), ref.EType)
	})
}

func TestReconstructionFailures(t *testing.T) {
	t.Run("fails for an unknown package object", func(t *testing.T) {
		f := newMetamodelFixture()
		_, err := f.res.CreateEPackage(value.NewId())
		assert.ErrorIs(t, err, ErrNotExist)
	})

	t.Run("fails for a classifier without a name", func(t *testing.T) {
		f := newMetamodelFixture()
		broken := meta(f.res, "EClass", map[string]value.Value{})
		f.pkg.Set("eClassifiers", value.NewRefList(broken.GetId()))
		_, err := f.res.CreateEPackage(f.pkg.GetId())
		assert.ErrorIs(t, err, ErrMissingAttribute)
	})

	t.Run("fails for an unsupported classifier meta type", func(t *testing.T) {
		f := newMetamodelFixture()
		odd := meta(f.res, "ESomething", map[string]value.Value{
			"name": value.String("odd"),
		})
		f.pkg.Set("eClassifiers", value.NewRefList(odd.GetId()))
		_, err := f.res.CreateEPackage(f.pkg.GetId())
		assert.ErrorIs(t, err, ErrUnknownElement)
	})

	t.Run("skips unresolvable elements in lenient mode", func(t *testing.T) {
		f := newMetamodelFixture()
		odd := meta(f.res, "ESomething", map[string]value.Value{
			"name": value.String("odd"),
		})
		f.pkg.Set("eClassifiers", value.NewRefList(
			odd.GetId(), value.NewId(), f.companyCls.GetId(), f.personCls.GetId(),
		))
		p, err := f.res.CreateEPackage(f.pkg.GetId(), true)
		require.NoError(t, err)
		assert.Len(t, p.EClassifiers, 2)
		assert.NotNil(t, p.GetEClass("Company"))
	})

	t.Run("skips missing subpackages in lenient mode", func(t *testing.T) {
		f := newMetamodelFixture()
		f.pkg.Set("eSubpackages", value.NewRefList(value.NewId()))
		_, err := f.res.CreateEPackage(f.pkg.GetId())
		assert.ErrorIs(t, err, ErrNotExist)
		p, err := f.res.CreateEPackage(f.pkg.GetId(), true)
		require.NoError(t, err)
		assert.Empty(t, p.ESubpackages)
	})

	t.Run("propagates broken attribute type classes in strict mode", func(t *testing.T) {
		f := newMetamodelFixture()
		// an attribute typed by a class that itself lacks a name:
		// strict reconstruction must surface the defect, only the
		// lenient mode may substitute a placeholder class
		broken := meta(f.res, "EClass", map[string]value.Value{})
		attr := meta(f.res, "EAttribute", map[string]value.Value{
			"name":  value.String("owner"),
			"eType": value.NewRef(broken.GetId()),
		})
		f.companyCls.Set("eStructuralFeatures", value.NewRefList(f.empsRef.GetId(), attr.GetId()))

		_, err := f.res.CreateEPackage(f.pkg.GetId())
		assert.ErrorIs(t, err, ErrMissingAttribute)

		p, err := f.res.CreateEPackage(f.pkg.GetId(), true)
		require.NoError(t, err)
		feat := p.GetEClass("Company").GetStructuralFeature("owner")
		require.NotNil(t, feat)
		assert.NotNil(t, feat.(*ecore.EAttribute).EType)
	})
}
