// Package stream serves the application event stream over a websocket.
// It models the volatile single-subscriber contract of the emitter: a
// new connection replaces the previous consumer, and events emitted
// while nobody is connected are gone.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/renwick/callpush/internal/event"
)

const writeTimeout = 10 * time.Second

// Server forwards emitted events to the single connected consumer.
type Server struct {
	emitter  *event.Emitter
	upgrader websocket.Upgrader
	log      *logrus.Entry

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewServer creates a Server bound to em.
func NewServer(em *event.Emitter, log *logrus.Entry) *Server {
	return &Server{
		emitter: em,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// ServeHTTP upgrades the request and attaches the connection as the
// active event listener, replacing any previous consumer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	if s.conn != nil {
		s.log.Infof("replacing event consumer %s", s.conn.RemoteAddr())
		_ = s.conn.Close()
	}
	s.conn = conn
	s.mu.Unlock()

	s.log.Infof("event consumer connected from %s", conn.RemoteAddr())
	s.emitter.Attach(func(ev event.Event) { s.send(conn, ev) })

	// Drain the read side so close frames and errors are noticed.
	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.detach(conn)
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, ev event.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Errorf("encoding event: %v", err)
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warnf("writing event to consumer: %v", err)
		s.detach(conn)
	}
}

// detach removes conn as the consumer, unless it was already replaced.
func (s *Server) detach(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return
	}
	s.conn = nil
	s.emitter.Detach()
	_ = conn.Close()
	s.log.Info("event consumer disconnected")
}

// ListenAndServe runs an HTTP server exposing the stream at path until
// ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, s)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Infof("serving event stream on ws://%s%s", addr, path)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
