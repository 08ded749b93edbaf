package mqtt

import (
	"context"
	"io"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/wsm.go/pkg/l1"
)

// Topic suffixes under TYPE/ID.
const (
	TopicCmd  = "cmd"
	TopicMsg  = "msg"
	TopicMeta = "meta"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	done     chan struct{}
	sub      *Subscription
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForConnector subscribes TYPE/ID/msg and publishes TYPE/ID/cmd.
func (p *ReadWriter) ForConnector(ref l1.ControllerRef) *ReadWriter {
	prefix := ref.Name() + "/"
	return p.WithTopics(prefix+TopicMsg, prefix+TopicCmd)
}

// ForController subscribes TYPE/ID/cmd and publishes TYPE/ID/msg.
func (p *ReadWriter) ForController(ref l1.ControllerRef) *ReadWriter {
	prefix := ref.Name() + "/"
	return p.WithTopics(prefix+TopicCmd, prefix+TopicMsg)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Subscribe subscribes SubTopic ahead of Run, so packets published
// once the token completes are received.
func (p *ReadWriter) Subscribe() paho.Token {
	if p.sub == nil {
		p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	}
	return p.sub.Token
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	p.Subscribe()
	defer p.sub.Close()
	defer close(p.done)
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}
