package watch

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/modelmesh-lang/modelmesh/pkg/events"
)

type Client struct {
	dialer *websocket.Dialer
	url    string
}

func NewClient(url string, dialer ...*websocket.Dialer) *Client {
	d := websocket.DefaultDialer
	if len(dialer) > 0 && dialer[0] != nil {
		d = dialer[0]
	}
	return &Client{
		dialer: d,
		url:    url,
	}
}

func (c *Client) Watch(ctx context.Context, req Registration) (*Watch, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err := conn.WriteJSON(&req); err != nil {
		conn.Close()
		return nil, err
	}
	return &Watch{conn: conn}, nil
}

// Register runs a watch in the background, feeding received events
// into the given handler until the context is cancelled or the
// connection terminates.
func (c *Client) Register(ctx context.Context, req Registration, h events.EventHandler) (Syncher, error) {
	w, err := c.Watch(ctx, req)
	if err != nil {
		return nil, err
	}

	s := &syncher{
		wait: &sync.WaitGroup{},
	}
	s.wait.Add(1)

	go func() {
		<-ctx.Done()
		w.Close()
	}()

	go func() {
		defer s.wait.Done()
		for {
			e, err := w.Receive()
			if err != nil {
				if !isErrClosed(err) {
					s.err = err
				}
				w.Close()
				break
			}
			h.HandleEvent(e)
		}
	}()
	return s, nil
}

type Syncher interface {
	Wait() error
}

type syncher struct {
	wait *sync.WaitGroup
	err  error
}

func (s *syncher) Wait() error {
	s.wait.Wait()
	return s.err
}

////////////////////////////////////////////////////////////////////////////////

// Watch is a single established watch connection delivering one
// object event per received message.
type Watch struct {
	conn *websocket.Conn
}

func (w *Watch) Receive() (events.ObjectEvent, error) {
	var e events.ObjectEvent
	err := w.conn.ReadJSON(&e)
	return e, err
}

func (w *Watch) Close() error {
	return w.conn.Close()
}

// isErrClosed matches the error surfaces of a deliberately closed
// connection, locally or by the peer.
func isErrClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure)
}
