package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/database"
	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/logger"
)

// Application holds shared infrastructure dependencies for all bounded contexts.
// Pass it to each context's Routes call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, request_id and actor_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item archived", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient // nil disables the read-through cache
	SessionStore sessions.Store     // Redis-backed session store; nil in worker process
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (a *Application) IsProduction() bool {
	return a.Config != nil && a.Config.Environment == config.EnvProduction
}

// AuthRequired reports whether catalog write routes demand a session.
func (a *Application) AuthRequired() bool {
	return a.Config != nil && a.Config.AuthRequired && a.SessionStore != nil
}
