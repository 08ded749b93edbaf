package main

import (
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/robotalks/wsm.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/wsm/"
	filter  = "#"
)

func init() {
	if val := os.Getenv("WSM_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter relative to the prefix.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.TopicMeta) {
			if len(payload) == 0 {
				log.Printf("%s: (unregistered)", topic)
			} else {
				log.Printf("%s: %s", topic, string(payload))
			}
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	}))
	<-(chan struct{})(nil)
}
