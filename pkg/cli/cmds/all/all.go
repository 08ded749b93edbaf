// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/wsm.go/pkg/cli/cmds/wsm"
)
