package watch

import (
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/modelmesh-lang/modelmesh/pkg/events"
)

// Registration is the wire form of a watch request: observe changes
// of objects of a class (empty for all) within selected resources
// (none for all). With Current the present object set is replayed
// first.
type Registration struct {
	Class     string   `json:"class,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Current   bool     `json:"current,omitempty"`
}

// RequestHandler upgrades incoming HTTP requests to websocket
// connections streaming object events from a handler registration,
// typically a resource set.
type RequestHandler struct {
	lock        sync.Mutex
	source      events.HandlerRegistration
	upgrader    websocket.Upgrader
	connections []*connection
}

var _ http.Handler = (*RequestHandler)(nil)

func HttpHandler(source events.HandlerRegistration) *RequestHandler {
	return &RequestHandler{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *RequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Infow("new watch request")
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		log.Errorw("websocket upgrade failed", "error", err)
		return
	}

	var registration Registration
	if err := conn.ReadJSON(&registration); err != nil {
		log.Errorw("decoding watch registration", "error", err)
		conn.WriteJSON(&Error{err.Error()})
		conn.Close()
		return
	}

	h.addConnection(newConnection(h, conn, registration))
}

func (h *RequestHandler) Close() error {
	h.lock.Lock()
	conns := slices.Clone(h.connections)
	h.lock.Unlock()

	for _, c := range conns {
		c.Close()
	}
	return nil
}

func (h *RequestHandler) addConnection(c *connection) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.connections = append(h.connections, c)
}

func (h *RequestHandler) removeConnection(c *connection) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if i := slices.Index(h.connections, c); i >= 0 {
		h.connections = slices.Delete(h.connections, i, i+1)
	}
}

////////////////////////////////////////////////////////////////////////////////

type connection struct {
	handler *RequestHandler
	// serializes writes, events may be triggered from any goroutine
	writeLock sync.Mutex
	conn      *websocket.Conn
	req       Registration
}

var _ events.EventHandler = (*connection)(nil)

func newConnection(h *RequestHandler, conn *websocket.Conn, req Registration) *connection {
	c := &connection{handler: h, conn: conn, req: req}
	h.source.RegisterHandler(c, req.Current, req.Class, req.Resources...)
	return c
}

func (c *connection) HandleEvent(e events.ObjectEvent) {
	log.Debugw("sending event", "id", e.Id, "resource", e.Resource)
	c.writeLock.Lock()
	err := c.conn.WriteJSON(&e)
	c.writeLock.Unlock()
	if err != nil {
		log.Errorw("cannot send event, closing connection", "error", err)
		c.Close()
	}
}

func (c *connection) Close() error {
	c.conn.Close()
	c.handler.source.UnregisterHandler(c, c.req.Class, c.req.Resources...)
	c.handler.removeConnection(c)
	return nil
}

type Error struct {
	Error string `json:"error"`
}
