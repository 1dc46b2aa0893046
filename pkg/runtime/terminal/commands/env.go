package commands

import (
	"io"

	"github.com/de-tools/spot-stats/pkg/runtime/terminal/export"
	"github.com/de-tools/spot-stats/pkg/services/workflow"
)

// Env is what the CLI shares with its commands.
type Env struct {
	ConfigPath *string
	Deps       workflow.Dependencies
	Progress   *export.ProgressReporter
	Table      *export.TableReporter
	Logs       io.Writer
}

func (e Env) configPath() string {
	if e.ConfigPath == nil {
		return ""
	}
	return *e.ConfigPath
}
