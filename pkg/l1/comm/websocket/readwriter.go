// Package websocket carries packets as binary websocket messages.
package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// Dial connects to a websocket endpoint.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Server accepts websocket connections and hands each to Serve,
// which owns the connection until it returns.
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
	srv := &http.Server{
		Handler: websocket.Handler(func(conn *websocket.Conn) {
			conn.PayloadType = websocket.BinaryFrame
			glog.Infof("websocket client %s connected", conn.Request().RemoteAddr)
			if err := s.Serve(ctx, New(conn)); err != nil {
				glog.Warningf("websocket client %s: %v", conn.Request().RemoteAddr, err)
			}
		}),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(s.listener) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		srv.Close()
		return ctx.Err()
	}
}
