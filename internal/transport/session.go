package transport

import (
	"bufio"
	"encoding/json"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/session"
)

// connSession is one TCP client: one line in is one Request, one line out
// is one Response. There is no cipher and no binary framing here — the
// teacher's Session encrypts/decrypts fixed-length packet frames; this
// transport has no analogous wire format, so it keeps the goroutine-pair
// shape (reader feeds the dispatcher, writer drains an outbound queue)
// and drops everything packet-specific.
type connSession struct {
	id      uint64
	conn    net.Conn
	host    *session.Host
	log     *zap.Logger
	outCh   chan Response
	closed  atomic.Bool
	closeCh chan struct{}
}

func newConnSession(id uint64, conn net.Conn, host *session.Host, log *zap.Logger) *connSession {
	return &connSession{
		id:      id,
		conn:    conn,
		host:    host,
		log:     log.With(zap.Uint64("conn", id)),
		outCh:   make(chan Response, 32),
		closeCh: make(chan struct{}),
	}
}

func (s *connSession) run() {
	go s.writeLoop()
	s.readLoop()
}

func (s *connSession) readLoop() {
	defer s.close()

	var deviceID string
	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.send(Response{Error: "malformed request: " + err.Error()})
			continue
		}
		if req.DeviceID == "" {
			s.send(Response{Error: "missing device_id"})
			continue
		}
		if deviceID == "" {
			deviceID = req.DeviceID
			s.send(Response{Events: s.host.Resume(deviceID)})
			continue
		}
		events := s.host.Dispatch(deviceID, req.Action, req.Payload)
		s.send(Response{Events: events})
	}
	if err := scanner.Err(); err != nil && !s.closed.Load() {
		s.log.Debug("read error", zap.Error(err))
	}
}

func (s *connSession) writeLoop() {
	defer s.close()
	enc := json.NewEncoder(s.conn)
	for {
		select {
		case resp := <-s.outCh:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := enc.Encode(resp); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *connSession) send(resp Response) {
	if s.closed.Load() {
		return
	}
	select {
	case s.outCh <- resp:
	default:
		s.log.Warn("outbound queue full, dropping slow connection")
		s.close()
	}
}

func (s *connSession) close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.closeCh)
		s.conn.Close()
	}
}
