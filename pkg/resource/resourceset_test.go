package resource

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// testFactory loads a single-object resource and records the URIs it
// was asked for.
type testFactory struct {
	name   string
	calls  []string
	fail   bool
	reject string
}

var _ ResourceFactory = (*testFactory)(nil)

func (f *testFactory) CanHandle(uri string) bool {
	return f.reject == "" || !strings.Contains(uri, f.reject)
}

func (f *testFactory) CreateResource(uri string, set ResourceSet) (Resource, error) {
	f.calls = append(f.calls, uri)
	if f.fail {
		return nil, fmt.Errorf("cannot load %s", uri)
	}
	r := New(uri)
	o := ecore.NewObject(f.name)
	r.Add(o)
	return r, nil
}

func TestNormalizeURI(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain path", "a/b/c", "a/b/c"},
		{"current segments", "a/./b/.", "a/b"},
		{"parent segments", "a/b/../c", "a/c"},
		{"leading parents kept relative", "../a", "../a"},
		{"absolute parent capped", "/../a", "/a"},
		{"empty segments", "a//b///c", "a/b/c"},
		{"scheme and authority preserved", "test://a/../b", "test://a/b"},
		{"authority without path untouched", "test://../a", "test://../a"},
		{"parents never consume the authority", "http://a/b/../../../c", "http://a/c"},
		{"collapse below the authority", "http://a/b/../../c", "http://a/c"},
		{"absolute path", "/a/b/./../c", "/a/c"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, NormalizeURI(c.in))
		})
	}
}

func TestResourceRegistry(t *testing.T) {
	t.Run("creates empty resources on demand", func(t *testing.T) {
		set := NewSet()
		r := set.CreateResource("test://models/a")
		require.NotNil(t, r)
		assert.Equal(t, "test://models/a", r.GetURI())
		assert.Same(t, set, r.GetResourceSet())
	})

	t.Run("returns the registered resource for equivalent URIs", func(t *testing.T) {
		set := NewSet()
		r := set.CreateResource("test://models/a")
		assert.Same(t, r, set.CreateResource("test://models/x/../a"))
		assert.Same(t, r, set.GetResource("test://models/./a"))
		assert.Len(t, set.GetResources(), 1)
	})

	t.Run("yields nothing for an unknown URI without factories", func(t *testing.T) {
		assert.Nil(t, NewSet().GetResource("test://unknown"))
	})
}

func TestResourceFactories(t *testing.T) {
	t.Run("loads unknown URIs via a matching factory", func(t *testing.T) {
		set := NewSet()
		f := &testFactory{name: "A"}
		set.AddFactory(".model", f)

		r := set.GetResource("test://data/x.model")
		require.NotNil(t, r)
		assert.Equal(t, []string{"test://data/x.model"}, f.calls)
		assert.Len(t, r.GetAllObjects(), 1)
	})

	t.Run("loads once and serves the cached resource afterwards", func(t *testing.T) {
		set := NewSet()
		f := &testFactory{name: "A"}
		set.AddFactory(".model", f)

		r := set.GetResource("test://data/x.model")
		assert.Same(t, r, set.GetResource("test://data/x.model"))
		assert.Len(t, f.calls, 1)
	})

	t.Run("prefers the longest matching pattern", func(t *testing.T) {
		set := NewSet()
		short := &testFactory{name: "short"}
		long := &testFactory{name: "long"}
		set.AddFactory(".model", short)
		set.AddFactory("special.model", long)

		r := set.GetResource("test://data/special.model")
		require.NotNil(t, r)
		assert.Len(t, r.GetAllInstancesOf("long"), 1)
		assert.Empty(t, short.calls)
	})

	t.Run("consults the factory's own handling check", func(t *testing.T) {
		set := NewSet()
		picky := &testFactory{name: "picky", reject: "skip"}
		fallback := &testFactory{name: "fallback"}
		set.AddFactory("skip-me.model", picky)
		set.AddFactory(".model", fallback)

		r := set.GetResource("test://data/skip-me.model")
		require.NotNil(t, r)
		assert.Len(t, r.GetAllInstancesOf("fallback"), 1)
	})

	t.Run("swallows load failures", func(t *testing.T) {
		set := NewSet()
		f := &testFactory{name: "A", fail: true}
		set.AddFactory(".model", f)

		assert.Nil(t, set.GetResource("test://data/x.model"))
		assert.Len(t, f.calls, 1)
	})
}

func TestURIMappings(t *testing.T) {
	t.Run("redirects logical URIs to their physical location", func(t *testing.T) {
		set := NewSet()
		r := set.CreateResource("test://physical/a")
		set.AddURIMapping("logical://a", "test://physical/a")
		assert.Same(t, r, set.GetResource("logical://a"))
	})

	t.Run("loads through the mapped URI", func(t *testing.T) {
		set := NewSet()
		f := &testFactory{name: "A"}
		set.AddFactory(".model", f)
		set.AddURIMapping("logical://a", "test://physical/a.model")

		require.NotNil(t, set.GetResource("logical://a"))
		assert.Equal(t, []string{"test://physical/a.model"}, f.calls)
	})
}

func TestMetamodelRegistry(t *testing.T) {
	set := NewSet()
	p := &ecore.EPackage{Id: value.NewId(), Name: "company", NsURI: "http://example.com/company"}
	set.RegisterMetamodel(p, p.NsURI)
	assert.Same(t, p, set.GetMetamodel("http://example.com/company"))
	assert.Nil(t, set.GetMetamodel("http://example.com/other"))
}

func TestSetWideResolution(t *testing.T) {
	set := NewSet()
	set.CreateResource("test://a")
	r2 := set.CreateResource("test://b")

	o := ecore.NewObject("Thing")
	r2.Add(o)

	found, owner := set.Resolve(o.GetId())
	assert.Same(t, o, found)
	assert.Same(t, r2, owner)

	_, owner = set.Resolve(value.NewId())
	assert.Nil(t, owner)
}
