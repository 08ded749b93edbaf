package stream

import (
	"context"
	"net"

	"github.com/golang/glog"
)

// Server accepts TCP connections framed by ReadWriter.
type Server struct {
	Addr  string
	Serve func(context.Context, *ReadWriter) error

	listener net.Listener
}

// Listen binds the address, Run listens implicitly when not called.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// ListenAddr returns the bound address.
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go func(conn net.Conn) {
			glog.Infof("stream client %s connected", conn.RemoteAddr())
			rw := New(conn)
			defer rw.Close()
			if err := s.Serve(ctx, rw); err != nil {
				glog.Warningf("stream client %s: %v", conn.RemoteAddr(), err)
			}
		}(conn)
	}
}

// Dial connects to a Server.
func Dial(addr string) (*ReadWriter, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}
