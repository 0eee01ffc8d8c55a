package staffing

import (
	"embed"

	"github.com/jonboulle/clockwork"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/infrastructure/persistence"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/services"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/application"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	tables, err := eligibility.Load(conf.Staffing.EligibilityPath)
	if err != nil {
		return err
	}

	servantRepo := persistence.NewServantRepository()
	unitRepo := persistence.NewUnitRepository()
	positionRepo := persistence.NewPositionRepository()
	appointmentRepo := persistence.NewAppointmentRepository()
	bondRepo := persistence.NewBondRepository()
	placementRepo := persistence.NewPlacementRepository()
	secondmentRepo := persistence.NewSecondmentRepository()

	clock := clockwork.NewRealClock()
	timeout := conf.Staffing.TxTimeout
	log := app.Logger()
	bus := app.EventPublisher()

	compatService := services.NewCompatibilityService(persistence.NewCompatibilityRuleRepository(), unitRepo)

	app.RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewPositionService(positionRepo),
		compatService,
		services.NewVacancyService(positionRepo, appointmentRepo, compatService),
		services.NewAllocationService(
			positionRepo, appointmentRepo, bondRepo, servantRepo,
			compatService, tables, bus, clock, log, timeout,
		),
		services.NewBondService(bondRepo, servantRepo, tables, bus, clock, log, timeout),
		services.NewPlacementService(placementRepo, servantRepo, tables, bus, clock, log, timeout),
		services.NewSecondmentService(secondmentRepo, servantRepo, bus, clock, log, timeout),
		services.NewStatusService(servantRepo, bondRepo, appointmentRepo, placementRepo, secondmentRepo),
	)
	app.RegisterSeedFuncs(SeedDevFixtures)
	return nil
}

func (m *Module) Name() string {
	return "staffing"
}
