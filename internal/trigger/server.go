// internal/trigger/server.go

// Package trigger receives collection-event notifications from the
// collection workflow. One request per connection: a JSON line in, a
// JSON line out.
package trigger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"time"

	"github.com/mxberg/beamline-bridge/internal/collect"
)

// Request is one collection-event notification.
type Request struct {
	Event         string         `json:"event"` // after | before | image
	Frame         int            `json:"frame"`
	RunProcessing bool           `json:"run_processing"`
	Params        collect.Params `json:"params"`
}

// Response reports the advisory outcome back to the workflow.
type Response struct {
	OK        bool   `json:"ok"`
	InputFile string `json:"input_file,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handler processes one collection event.
type Handler interface {
	HandleCollectionEvent(ctx context.Context, req Request) Response
}

// Server is the TCP listener for collection events.
type Server struct {
	handler Handler
	timeout time.Duration

	ln net.Listener
}

// New creates a server. Timeout bounds each connection's read and
// write deadlines.
func New(handler Handler, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Server{handler: handler, timeout: timeout}
}

// Listen binds the listen address and returns the bound address, which
// differs from addr when an ephemeral port was requested.
func (s *Server) Listen(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.ln = ln
	return ln.Addr().String(), nil
}

// Serve accepts connections until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return errors.New("trigger: Serve before Listen")
	}

	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

// Close stops the listener.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.timeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		log.Printf("trigger: read request: %v", err)
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		log.Printf("trigger: bad request: %v", err)
		s.reply(conn, Response{OK: false, Error: "malformed request"})
		return
	}

	resp := s.handler.HandleCollectionEvent(ctx, req)
	s.reply(conn, resp)
}

func (s *Server) reply(conn net.Conn, resp Response) {
	_ = conn.SetWriteDeadline(time.Now().Add(s.timeout))

	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("trigger: encode response: %v", err)
		return
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		log.Printf("trigger: write response: %v", err)
	}
}
