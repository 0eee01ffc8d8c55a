package application

import (
	"context"
	"embed"
	"reflect"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/eventbus"
)

// Module is a self-registering unit of the system: it wires its services,
// schema migrations and seed functions into the application at startup.
type Module interface {
	Register(app Application) error
	Name() string
}

type SeedFunc func(ctx context.Context, app Application) error

type Application interface {
	Pool() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...any)
	Service(service any) any

	RegisterSchema(fs *embed.FS)
	Schemas() []*embed.FS

	RegisterSeedFuncs(fns ...SeedFunc)
	Seed(ctx context.Context) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:      opts.Pool,
		eventBus:  opts.EventBus,
		logger:    opts.Logger,
		services:  map[reflect.Type]any{},
		seedFuncs: []SeedFunc{},
	}
}

type application struct {
	pool      *pgxpool.Pool
	eventBus  eventbus.EventBus
	logger    *logrus.Logger
	services  map[reflect.Type]any
	schemas   []*embed.FS
	seedFuncs []SeedFunc
}

func (app *application) Pool() *pgxpool.Pool                { return app.pool }
func (app *application) EventPublisher() eventbus.EventBus  { return app.eventBus }
func (app *application) Logger() *logrus.Logger             { return app.logger }

// RegisterServices registers services keyed by their concrete type.
func (app *application) RegisterServices(services ...any) {
	for _, service := range services {
		app.services[reflect.TypeOf(service)] = service
	}
}

// Service returns the registered service matching the type of the given
// (typically zero-value) sample. Panics if no such service is registered.
func (app *application) Service(service any) any {
	svc, ok := app.services[reflect.TypeOf(service)]
	if !ok {
		panic("service not registered: " + reflect.TypeOf(service).String())
	}
	return svc
}

func (app *application) RegisterSchema(fs *embed.FS) {
	app.schemas = append(app.schemas, fs)
}

func (app *application) Schemas() []*embed.FS { return app.schemas }

func (app *application) RegisterSeedFuncs(fns ...SeedFunc) {
	app.seedFuncs = append(app.seedFuncs, fns...)
}

func (app *application) Seed(ctx context.Context) error {
	for _, fn := range app.seedFuncs {
		if err := fn(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

// RegisterModules runs every module's Register hook in order.
func RegisterModules(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return err
		}
		app.Logger().WithField("module", module.Name()).Debug("module registered")
	}
	return nil
}
