package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	env "github.com/robotalks/wsm.go/pkg/l1/env/controller"
	"github.com/robotalks/wsm.go/pkg/wsmctl"
)

func init() {
	wsmctl.SetControllerType()
	env.SetupFlags()
	wsmctl.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	if err := e.Listen(); err != nil {
		glog.Exit(err)
	}
	ctl, _, err := wsmctl.NewConfig().NewController(e)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("bridge %s (API %s) on %v", ctl.Name(), ctl.Bridge.APIVersion(), e.RegistryURLs)

	fx.NewLoop().
		Add(e, ctl).
		RunOrFail()
}
