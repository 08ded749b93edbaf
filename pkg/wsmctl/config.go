package wsmctl

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/wsm.go/pkg/l1"
	env "github.com/robotalks/wsm.go/pkg/l1/env/controller"
	"github.com/robotalks/wsm.go/pkg/wsm"
	"github.com/robotalks/wsm.go/pkg/wsm/simfw"
)

// ControllerType is the registered type of bridge hosts.
const ControllerType = "wsm"

// Config defines the bridge host.
type Config struct {
	// FirmwareConfig is the YAML file describing the simulated firmware.
	FirmwareConfig string
	PublishUpdates bool
	PollInterval   time.Duration
}

// DefaultPollInterval is the default interval polling the update flag.
const DefaultPollInterval = 200 * time.Millisecond

// Publishing is off by default, so remote UpdatedQuery sees the
// firmware's own flag semantics.
var defaultConfig = Config{
	PollInterval: DefaultPollInterval,
}

func init() {
	if val := os.Getenv("WSM_FW_CONFIG"); val != "" {
		defaultConfig.FirmwareConfig = val
	}
	if val := os.Getenv("WSM_PUBLISH_UPDATES"); val != "" {
		if on, err := strconv.ParseBool(val); err == nil {
			defaultConfig.PublishUpdates = on
		}
	}
}

// SetControllerType registers the host type and API version.
func SetControllerType() {
	env.SetControllerType(ControllerType, l1.ControllerMeta{
		Description: "Telemetry and command bridge",
		APIVersion:  wsm.FormatVersion(wsm.APIMajorVersion, wsm.APIMinorVersion),
	})
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.FirmwareConfig, "fw-config", defaultConfig.FirmwareConfig, "Simulated firmware config (YAML).")
	flag.BoolVar(&defaultConfig.PublishUpdates, "publish-updates", defaultConfig.PublishUpdates, "Publish telemetry events on BT updates, consumes edge-triggered update flags.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll-interval", defaultConfig.PollInterval, "Interval polling BT updates.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFirmware creates the simulated firmware.
func (c *Config) LoadFirmware() (*simfw.Firmware, *simfw.Config, error) {
	fwConf := simfw.DefaultConfig()
	if c.FirmwareConfig != "" {
		var err error
		if fwConf, err = simfw.LoadConfig(c.FirmwareConfig); err != nil {
			return nil, nil, fmt.Errorf("load firmware config %q: %w", c.FirmwareConfig, err)
		}
	}
	fw, err := simfw.New(fwConf)
	if err != nil {
		return nil, nil, err
	}
	return fw, fwConf, nil
}

// NewController creates the Controller on simulated firmware.
func (c *Config) NewController(e *env.Env) (*Controller, *simfw.Firmware, error) {
	fw, fwConf, err := c.LoadFirmware()
	if err != nil {
		return nil, nil, err
	}
	var opts []wsm.Option
	if fwConf.MaxLogSize > 0 {
		opts = append(opts, wsm.WithMaxLogSize(fwConf.MaxLogSize))
	}
	ctl := NewController(e.Config.Info.Ref.Name(), wsm.New(fw, opts...), e.Registrar)
	ctl.PublishUpdates = c.PublishUpdates
	ctl.PollInterval = c.PollInterval
	if len(fwConf.Updates) > 0 {
		if ctl.Feeder, err = simfw.NewPlayer(fw, fwConf); err != nil {
			return nil, nil, err
		}
	}
	return ctl, fw, nil
}
