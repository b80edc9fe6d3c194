package resource

import (
	"strings"
	"sync"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/events"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

type factoryEntry struct {
	pattern string
	factory ResourceFactory
}

type resourceSet struct {
	lock      sync.Mutex
	resources map[string]*resource
	order     []string

	metamodels map[string]*ecore.EPackage
	uriMap     map[string]string
	factories  []factoryEntry

	registry events.HandlerRegistry
}

var _ ResourceSet = (*resourceSet)(nil)

func NewSet() ResourceSet {
	s := &resourceSet{
		resources:  map[string]*resource{},
		metamodels: map[string]*ecore.EPackage{},
		uriMap:     map[string]string{},
	}
	s.registry = events.NewHandlerRegistry(s)
	return s
}

func (s *resourceSet) CreateResource(uri string) Resource {
	uri = NormalizeURI(uri)

	s.lock.Lock()
	defer s.lock.Unlock()
	return s.adopt(uri, nil)
}

// adopt registers a resource under a URI, keeping an already
// registered one. With r == nil a fresh empty resource is created.
func (s *resourceSet) adopt(uri string, r *resource) *resource {
	if cur, ok := s.resources[uri]; ok {
		return cur
	}
	if r == nil {
		r = New(uri).(*resource)
	}
	r.set = s
	s.resources[uri] = r
	s.order = append(s.order, uri)
	return r
}

func (s *resourceSet) GetResource(uri string) Resource {
	uri = NormalizeURI(uri)

	s.lock.Lock()
	physical := uri
	if m, ok := s.uriMap[uri]; ok {
		physical = NormalizeURI(m)
	}
	if r, ok := s.resources[physical]; ok {
		s.lock.Unlock()
		return r
	}
	f := s.lookupFactory(physical)
	s.lock.Unlock()

	if f == nil {
		return nil
	}
	// the factory may take arbitrary time and must not run under
	// the registry lock
	loaded, err := f.CreateResource(physical, s)
	if err != nil {
		log.Debugw("resource load failed", "uri", physical, "error", err.Error())
		return nil
	}
	impl, ok := loaded.(*resource)
	if !ok {
		log.Debugw("foreign resource implementation rejected", "uri", physical)
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	return s.adopt(physical, impl)
}

// lookupFactory picks the registered factory with the longest
// matching pattern, ties resolving in registration order. A pattern
// matches as URI suffix or substring, confirmed by the factory's own
// CanHandle.
func (s *resourceSet) lookupFactory(uri string) ResourceFactory {
	var best *factoryEntry
	for i := range s.factories {
		e := &s.factories[i]
		if !strings.HasSuffix(uri, e.pattern) && !strings.Contains(uri, e.pattern) {
			continue
		}
		if !e.factory.CanHandle(uri) {
			continue
		}
		if best == nil || len(e.pattern) > len(best.pattern) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.factory
}

func (s *resourceSet) GetResources() []Resource {
	s.lock.Lock()
	defer s.lock.Unlock()

	var r []Resource
	for _, uri := range s.order {
		r = append(r, s.resources[uri])
	}
	return r
}

func (s *resourceSet) RegisterMetamodel(p *ecore.EPackage, uri string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.metamodels[uri] = p
}

func (s *resourceSet) GetMetamodel(uri string) *ecore.EPackage {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.metamodels[uri]
}

func (s *resourceSet) AddURIMapping(logical, physical string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.uriMap[NormalizeURI(logical)] = physical
}

func (s *resourceSet) AddFactory(pattern string, f ResourceFactory) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.factories = append(s.factories, factoryEntry{pattern, f})
}

func (s *resourceSet) Resolve(id value.ObjectId) (ecore.Object, Resource) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, uri := range s.order {
		r := s.resources[uri]
		if o := r.GetObject(id); o != nil {
			return o, r
		}
	}
	return nil, nil
}

func (s *resourceSet) UpdateOpposite(targetId, oppositeRefId, sourceId value.ObjectId, add bool) {
	s.lock.Lock()
	targets := make([]*resource, 0, len(s.order))
	for _, uri := range s.order {
		targets = append(targets, s.resources[uri])
	}
	s.lock.Unlock()

	for _, r := range targets {
		if r.applyOppositeUpdate(targetId, oppositeRefId, sourceId, add) {
			return
		}
	}
	log.Debugw("opposite target not found in set", "target", targetId)
}

func (s *resourceSet) RegisterHandler(h events.EventHandler, current bool, class string, ress ...string) events.Sync {
	return s.registry.RegisterHandler(h, current, class, ress...)
}

func (s *resourceSet) UnregisterHandler(h events.EventHandler, class string, ress ...string) {
	s.registry.UnregisterHandler(h, class, ress...)
}

// ListEvents aggregates the current state of all owned resources.
func (s *resourceSet) ListEvents(class string, res string) []events.ObjectEvent {
	var result []events.ObjectEvent
	for _, r := range s.GetResources() {
		result = append(result, r.(*resource).ListEvents(class, res)...)
	}
	return result
}
