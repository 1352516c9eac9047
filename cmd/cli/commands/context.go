package commands

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/runroster/internal/config"
	"github.com/jakechorley/runroster/pkg/core/services"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg     *config.Config
	Session *services.Session
	Logger  *zap.Logger
	Ctx     context.Context

	// Interactive is set while the interactive session runs; quotes are then fetched in the background
	Interactive bool

	pending          sync.WaitGroup
	reportedFailures int64
}

// SetSession installs the roster session. Save failures that happened while
// opening it are treated as already reported.
func (a *AppContext) SetSession(session *services.Session) {
	a.Session = session
	a.reportedFailures = session.PersistFailures()
}

// Wait blocks until background work started by commands has finished
func (a *AppContext) Wait() {
	a.pending.Wait()
}
