package di

import (
	"wish-wall-server/internal/modules"
	"wish-wall-server/internal/router"
)

type Application struct {
	Router  *router.Router
	Modules *modules.AppModules
}

func NewApplication(r *router.Router, m *modules.AppModules) *Application {
	return &Application{
		Router:  r,
		Modules: m,
	}
}
