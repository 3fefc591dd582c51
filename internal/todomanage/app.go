package todomanage

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/config"
	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/kv"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/colonyops/todomanage/internal/data/stores"
)

// App is the central entry point for all todo operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Todos     *TodoService
	Kiv       *KivService
	Reminders *ReminderService
	Dashboard *DashboardService
	Shares    *ShareService

	Config *config.Config
	DB     *db.DB
	KV     kv.KV
	Bus    *eventbus.EventBus
	Clock  Clock
}

// NewApp builds every service over one database.
func NewApp(cfg *config.Config, database *db.DB, bus *eventbus.EventBus, clock Clock, log zerolog.Logger) *App {
	var (
		items  = stores.NewTodoStore(database)
		events = stores.NewEventStore(database)
		kivs   = stores.NewKIVStore(database)
		shares = stores.NewShareStore(database)
		notes  = stores.NewNotifyStore(database)
		acc    = access{items: items, shares: shares}
	)

	return &App{
		Todos:     NewTodoService(items, events, kivs, acc, bus, clock, log),
		Kiv:       NewKivService(kivs, acc, bus, clock, log),
		Reminders: NewReminderService(items, notes, acc, bus, clock, log),
		Dashboard: NewDashboardService(items, events, kivs, clock, log),
		Shares:    NewShareService(shares, bus, clock, log),
		Config:    cfg,
		DB:        database,
		KV:        stores.NewKVStore(database),
		Bus:       bus,
		Clock:     clock,
	}
}
