package events

import (
	"sync"

	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// ObjectEvent describes a change of a single object in a resource.
// Version is a content hash of the object state after the change; it
// is empty for a removal.
type ObjectEvent struct {
	Id       value.ObjectId `json:"id"`
	Class    string         `json:"class"`
	Resource string         `json:"resource"`
	Version  string         `json:"version,omitempty"`
	Deleted  bool           `json:"deleted,omitempty"`
}

type EventHandler interface {
	HandleEvent(ObjectEvent)
}

type EventHandlerFunc func(ObjectEvent)

func (f EventHandlerFunc) HandleEvent(e ObjectEvent) {
	f(e)
}

// ObjectLister provides the current object set as synthetic events,
// used to feed newly registered handlers the present state.
type ObjectLister interface {
	ListEvents(class string, resource string) []ObjectEvent
}

// HandlerRegistration registers handlers for a class name (empty
// matches all) within selected resources (none given matches all).
// With current set, the present object set is delivered before new
// events; the returned sync point is triggered when that catch-up is
// done.
type HandlerRegistration interface {
	RegisterHandler(h EventHandler, current bool, class string, resources ...string) Sync
	UnregisterHandler(h EventHandler, class string, resources ...string)
}

type HandlerRegistry interface {
	HandlerRegistration
	EventHandler

	TriggerEvent(ObjectEvent)
}

type handlers []EventHandler
type resources map[string]handlers

type registry struct {
	lock    sync.Mutex
	classes map[string]resources
	lister  ObjectLister
}

var _ HandlerRegistry = (*registry)(nil)

func NewHandlerRegistry(l ObjectLister) HandlerRegistry {
	return &registry{
		classes: map[string]resources{},
		lister:  l,
	}
}

func (r *registry) HandleEvent(e ObjectEvent) {
	r.TriggerEvent(e)
}

func (r *registry) RegisterHandler(h EventHandler, current bool, class string, ress ...string) Sync {
	s, d := NewSyncPoint()

	if len(ress) == 0 {
		ress = []string{""}
	}
	r.lock.Lock()
	rm := r.classes[class]
	if rm == nil {
		rm = resources{}
		r.classes[class] = rm
	}
	for _, res := range ress {
		if index(rm[res], h) < 0 {
			rm[res] = append(rm[res], h)
		}
	}
	r.lock.Unlock()

	if current && r.lister != nil {
		go func() {
			for _, res := range ress {
				for _, e := range r.lister.ListEvents(class, res) {
					h.HandleEvent(e)
				}
			}
			d.Done()
		}()
	} else {
		d.Done()
	}
	return s
}

func (r *registry) UnregisterHandler(h EventHandler, class string, ress ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(ress) == 0 {
		ress = []string{""}
	}
	rm := r.classes[class]
	if rm == nil {
		return
	}
	for _, res := range ress {
		if i := index(rm[res], h); i >= 0 {
			rm[res] = append(rm[res][:i], rm[res][i+1:]...)
			if len(rm[res]) == 0 {
				delete(rm, res)
			}
		}
	}
	if len(rm) == 0 {
		delete(r.classes, class)
	}
}

func (r *registry) TriggerEvent(e ObjectEvent) {
	for _, h := range r.handlersFor(e) {
		h.HandleEvent(e)
	}
}

func (r *registry) handlersFor(e ObjectEvent) handlers {
	r.lock.Lock()
	defer r.lock.Unlock()

	var list handlers
	for _, class := range []string{e.Class, ""} {
		rm := r.classes[class]
		if rm == nil {
			continue
		}
		for _, res := range []string{e.Resource, ""} {
			for _, h := range rm[res] {
				if index(list, h) < 0 {
					list = append(list, h)
				}
			}
		}
		if e.Class == "" {
			break
		}
	}
	return list
}

func index(list handlers, h EventHandler) int {
	for i, e := range list {
		if e == h {
			return i
		}
	}
	return -1
}
