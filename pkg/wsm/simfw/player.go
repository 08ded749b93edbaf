package simfw

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Player replays BT updates into the firmware.
type Player struct {
	Firmware *Firmware
	Updates  []Update
	Interval time.Duration
}

// NewPlayer creates a Player from the updates in the config.
func NewPlayer(fw *Firmware, conf *Config) (*Player, error) {
	p := &Player{Firmware: fw, Interval: conf.UpdateInterval}
	for n, values := range conf.Updates {
		u, err := configValues(values)
		if err != nil {
			return nil, fmt.Errorf("updates[%d]: %w", n, err)
		}
		p.Updates = append(p.Updates, u)
	}
	return p, nil
}

// Name implements Named.
func (p *Player) Name() string {
	return "simfw-player"
}

// Run implements Runnable.
func (p *Player) Run(ctx context.Context) error {
	if len(p.Updates) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for n := 0; ; n = (n + 1) % len(p.Updates) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := p.Firmware.Deliver(p.Updates[n]); err != nil {
			return err
		}
		glog.V(3).Infof("delivered BT update %d", n)
	}
}
