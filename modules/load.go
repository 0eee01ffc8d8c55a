package modules

import (
	"slices"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/application"
)

var BuiltInModules = []application.Module{
	staffing.NewModule(),
}

// Load registers the built-in modules plus any external ones against the
// application in order.
func Load(app application.Application, externalModules ...application.Module) error {
	return application.RegisterModules(app, slices.Concat(BuiltInModules, externalModules)...)
}
