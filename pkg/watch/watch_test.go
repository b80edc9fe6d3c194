package watch

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/events"
	"github.com/modelmesh-lang/modelmesh/pkg/resource"
)

type recorder struct {
	lock sync.Mutex
	list []events.ObjectEvent
}

func (r *recorder) HandleEvent(e events.ObjectEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.list = append(r.list, e)
}

func (r *recorder) classes() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	var c []string
	for _, e := range r.list {
		c = append(c, e.Class)
	}
	return c
}

func (r *recorder) sawClass(name string) func() bool {
	return func() bool {
		for _, c := range r.classes() {
			if c == name {
				return true
			}
		}
		return false
	}
}

type watchFixture struct {
	set     resource.ResourceSet
	res     resource.Resource
	handler *RequestHandler
	srv     *httptest.Server
	client  *Client
	ctx     context.Context
	cancel  context.CancelFunc
}

func newWatchFixture(t *testing.T) *watchFixture {
	f := &watchFixture{}
	f.set = resource.NewSet()
	f.res = f.set.CreateResource("test:model")
	f.res.Add(ecore.NewObject("Company"))

	f.handler = HttpHandler(f.set)
	f.srv = httptest.NewServer(f.handler)
	f.client = NewClient("ws" + strings.TrimPrefix(f.srv.URL, "http"))
	f.ctx, f.cancel = context.WithTimeout(context.Background(), 10*time.Second)

	t.Cleanup(func() {
		f.cancel()
		f.handler.Close()
		f.srv.Close()
	})
	return f
}

func TestWatchConnections(t *testing.T) {
	t.Run("replays the current object set on request", func(t *testing.T) {
		f := newWatchFixture(t)
		rec := &recorder{}
		_, err := f.client.Register(f.ctx, Registration{Current: true}, rec)
		require.NoError(t, err)

		assert.Eventually(t, rec.sawClass("Company"), 5*time.Second, 10*time.Millisecond)
	})

	t.Run("streams new change events", func(t *testing.T) {
		f := newWatchFixture(t)
		rec := &recorder{}
		_, err := f.client.Register(f.ctx, Registration{Current: true}, rec)
		require.NoError(t, err)
		require.Eventually(t, rec.sawClass("Company"), 5*time.Second, 10*time.Millisecond)

		f.res.Add(ecore.NewObject("Person"))
		assert.Eventually(t, rec.sawClass("Person"), 5*time.Second, 10*time.Millisecond)
	})

	t.Run("filters by class", func(t *testing.T) {
		f := newWatchFixture(t)
		rec := &recorder{}
		_, err := f.client.Register(f.ctx, Registration{Class: "Person", Current: true}, rec)
		require.NoError(t, err)

		f.res.Add(ecore.NewObject("Person"))
		require.Eventually(t, rec.sawClass("Person"), 5*time.Second, 10*time.Millisecond)
		assert.NotContains(t, rec.classes(), "Company")
	})

	t.Run("terminates the background watch on cancellation", func(t *testing.T) {
		f := newWatchFixture(t)
		rec := &recorder{}
		s, err := f.client.Register(f.ctx, Registration{}, rec)
		require.NoError(t, err)

		f.cancel()
		assert.NoError(t, s.Wait())
	})
}
