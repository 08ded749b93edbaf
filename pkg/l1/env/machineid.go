// Package env provides the environment shared by bridge hosts and clients.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID keys the protected machine ID so it doesn't leak the raw one.
const AppID = "wsm"

// MachineID retrieves the ID identifying the machine, empty if unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return ""
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
