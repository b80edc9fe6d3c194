package resource

import (
	"strconv"
	"strings"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

func (r *resource) Resolve(id value.ObjectId) ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pool[id]
}

func (r *resource) ResolveOpposite(ref *ecore.EReference) *ecore.EReference {
	if !ref.HasOpposite() {
		return nil
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.findReference(ref.Opposite)
}

// findReference scans the class descriptors of the pooled objects
// for a reference with the given feature id.
func (r *resource) findReference(id value.ObjectId) *ecore.EReference {
	for _, oid := range r.order {
		c := r.pool[oid].GetClass()
		if c == nil {
			continue
		}
		for _, ref := range c.AllReferences() {
			if ref.Id == id {
				return ref
			}
		}
	}
	return nil
}

func (r *resource) ResolveReference(ref *ecore.EReference, from ecore.Object) []ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []ecore.Object
	for _, id := range value.Ids(from.Get(ref.Name)) {
		if o, ok := r.pool[id]; ok {
			result = append(result, o)
		}
	}
	return result
}

func (r *resource) EGet(id value.ObjectId, feature string) value.Value {
	r.lock.Lock()
	defer r.lock.Unlock()

	o, ok := r.pool[id]
	if !ok {
		return nil
	}
	return o.Get(feature)
}

// ResolveByPath never fails; any malformed or out-of-range path
// component yields an absent result.
func (r *resource) ResolveByPath(path string) ecore.Object {
	r.lock.Lock()
	defer r.lock.Unlock()

	p := strings.TrimSpace(path)
	for strings.HasPrefix(p, "/") {
		p = p[1:]
	}

	if p == "" {
		return r.rootAt(0)
	}
	if id, ok := value.ParseId(p); ok {
		return r.pool[id]
	}
	if rest, found := strings.CutPrefix(p, "@contents."); found {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return nil
		}
		return r.rootAt(n)
	}

	comps := strings.Split(p, "/")
	n, err := strconv.Atoi(comps[0])
	if err != nil {
		return nil
	}
	cur := r.rootAt(n)

	i := 1
	for cur != nil && i < len(comps) {
		ids := value.Ids(cur.Get(comps[i]))
		i++

		idx := 0
		if i < len(comps) {
			if n, err := strconv.Atoi(comps[i]); err == nil {
				idx = n
				i++
			}
		}
		if idx < 0 || idx >= len(ids) {
			return nil
		}
		cur = r.pool[ids[idx]]
	}
	return cur
}

func (r *resource) rootAt(n int) ecore.Object {
	if n < 0 || n >= len(r.roots) {
		return nil
	}
	return r.pool[r.roots[n]]
}
