package mqtt

import (
	"context"
	"encoding/json"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
)

// Registrar implements l1.Registrar using MQTT. The meta topic is
// retained while connected, the will clears it on connection loss.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	meta      []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+metaTopic(info.Ref), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("wsm:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue: NewQueue(opts, topicPrefix),
		Info:  info,
		meta:  meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.publishMeta(r.meta) }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if token := r.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("connect %s: %v", r.Info.Ref.Name(), token.Error())
	}
	<-ctx.Done()
	r.publishMeta(nil).Wait()
	return r.Queue.Close()
}

func (r *Registrar) publishMeta(meta []byte) paho.Token {
	return r.Queue.PubWith(metaTopic(r.Info.Ref), meta, 1, true)
}

func metaTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/" + TopicMeta
}
