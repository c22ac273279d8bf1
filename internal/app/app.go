package app

import (
	"fmt"
	"time"

	"livestock-client/internal/adapters/api"
	"livestock-client/internal/adapters/storage/badgerstore"
	"livestock-client/internal/config"
	"livestock-client/internal/domain/animals"
	"livestock-client/internal/domain/events"
	"livestock-client/internal/domain/inventory"
	"livestock-client/internal/domain/notifications"
	"livestock-client/internal/domain/owners"
	"livestock-client/internal/domain/reports"
	"livestock-client/internal/platform/logger"
	"livestock-client/internal/ports/storage"
	"livestock-client/internal/session"
	"livestock-client/internal/store"
)

// App es el contenedor de estado del proceso: una instancia por sesión de
// aplicación, todos los stores son singletons que viven acá. Se arma al
// arrancar y no se desarma durante la operación normal; el único reset de
// estado es el teardown de sesión.
type App struct {
	Config config.Config
	Log    logger.Logger

	Session *session.Store

	Animals   *store.Store[animals.Animal]
	Owners    *store.Store[owners.Owner]
	Events    *store.Store[events.Event]
	Inventory *store.Store[inventory.Item]
	Reports   *store.Store[reports.Report]

	Notifications *notifications.Store

	creds interface {
		storage.Credentials
		Close() error
	}
}

// Options permite sustituir piezas en tests.
type Options struct {
	// Creds opcional: si viene, no se abre badger.
	Creds storage.Credentials
	Log   logger.Logger
}

func New(cfg config.Config, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.Log.Level),
			Format: logger.ParseFormat(cfg.Log.Format),
			App:    "herdctl",
		})
	}

	a := &App{
		Config: cfg,
		Log:    log,
	}

	creds := opts.Creds
	if creds == nil {
		bs, err := badgerstore.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("app: open credential storage: %w", err)
		}
		a.creds = bs
		creds = bs
	}

	sess, err := session.New(session.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout(),
		Creds:   creds,
		Log:     log,
	})
	if err != nil {
		a.closeCreds()
		return nil, fmt.Errorf("app: build session: %w", err)
	}
	a.Session = sess

	client := api.NewClientWithHTTP(sess.HTTP())

	a.Animals = store.New("animals", client.Animals(), log)
	a.Owners = store.New("owners", client.Owners(), log)
	a.Events = store.New("events", client.Events(), log)
	a.Inventory = store.New("inventory", client.Inventory(), log)
	a.Reports = store.New("reports", client.Reports(), log)

	a.Notifications = notifications.NewStore(notifications.Fixtures(time.Now()))

	return a, nil
}

// Dashboard calcula los agregados sobre el snapshot actual de los stores.
func (a *App) Dashboard() reports.DashboardStats {
	return reports.Compute(
		a.Animals.Snapshot().Items,
		a.Owners.Snapshot().Items,
		a.Events.Snapshot().Items,
		a.Inventory.Snapshot().Items,
	)
}

func (a *App) Close() error {
	return a.closeCreds()
}

func (a *App) closeCreds() error {
	if a.creds == nil {
		return nil
	}
	return a.creds.Close()
}
