package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
)

// Connector implements l1.Connector using MQTT.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMetaTopic extracts the ref from TYPE/ID/meta.
func ParseMetaTopic(topic string) (l1.ControllerRef, bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[2] != TopicMeta {
		return l1.ControllerRef{}, false
	}
	ref := l1.ControllerRef{Type: items[0], ID: items[1]}
	return ref, ref.IsValid()
}

// Discover collects retained registrations until DiscoverTimeout.
// Hosts with cleared registration are skipped.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	q := NewQueue(c.options, c.topicPrefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()

	var lock sync.Mutex
	found := make(map[string]l1.ControllerInfo)
	sub := q.Sub("+/+/"+TopicMeta, Handler(func(topic string, payload []byte) {
		ref, ok := ParseMetaTopic(topic)
		if !ok {
			return
		}
		lock.Lock()
		defer lock.Unlock()
		if len(payload) == 0 {
			delete(found, ref.Name())
			return
		}
		info := l1.ControllerInfo{Ref: ref}
		if err := json.Unmarshal(payload, &info.Meta); err != nil {
			glog.Warningf("%s: bad meta: %v", topic, err)
		}
		found[ref.Name()] = info
	}))
	defer sub.Close()

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	select {
	case <-time.After(dur):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	lock.Lock()
	defer lock.Unlock()
	res := make([]l1.ControllerInfo, 0, len(found))
	for _, info := range found {
		res = append(res, info)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Ref.Name() < res[j].Ref.Name() })
	return res, nil
}

// Connect implements Connector. The reply topic is subscribed before
// the connection is returned.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	conn, err := connectQueue(NewQueue(c.options, c.topicPrefix), ref)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func connectQueue(q *Queue, ref l1.ControllerRef) (*ControllerConn, error) {
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	rw := NewPacketReadWriter(q).ForConnector(ref)
	if token := rw.Subscribe(); token.Wait() && token.Error() != nil {
		q.Close()
		return nil, fmt.Errorf("subscribe %s: %w", rw.SubTopic, token.Error())
	}
	conn := &ControllerConn{Queue: q}
	conn.Init(rw)
	return conn, nil
}

// ControllerConn implements ControllerConn using MQTT.
type ControllerConn struct {
	comm.ControllerConn
	Queue *Queue
}

// Close disconnects from the broker.
func (c *ControllerConn) Close() error {
	return c.Queue.Close()
}
