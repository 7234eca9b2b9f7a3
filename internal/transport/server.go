// Package transport is the minimal line-delimited-JSON TCP adapter that
// makes the Session Host reachable over the network (spec §4.10 is
// transport-agnostic; this is included only so the repo is runnable
// end-to-end). It is modeled on internal/net/server.go's accept-loop
// shape, minus the L1J handshake/cipher, which has no analog here.
package transport

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/session"
)

// Server accepts TCP connections and spins up one connSession per client.
type Server struct {
	listener net.Listener
	host     *session.Host
	log      *zap.Logger
	nextID   atomic.Uint64
	closeCh  chan struct{}
}

func NewServer(bindAddr string, host *session.Host, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		host:     host,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs until Shutdown is called; it blocks, so call it from its
// own goroutine.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		s.log.Info("client connected", zap.Uint64("conn", id), zap.String("addr", conn.RemoteAddr().String()))
		sess := newConnSession(id, conn, s.host, s.log)
		go sess.run()
	}
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}
