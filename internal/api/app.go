package api

import (
	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/service"
	"github.com/cassiama/ProjectLISA/internal/storage"
	"github.com/cassiama/ProjectLISA/internal/telemetry"
)

type App interface {
	Logger() internal.Logger
	Users() storage.UserRepository
	Devices() storage.DeviceRepository
	Generator() telemetry.Generator
	Reconciler() *service.Reconciler
}

type app struct {
	logger     internal.Logger
	users      storage.UserRepository
	devices    storage.DeviceRepository
	generator  telemetry.Generator
	reconciler *service.Reconciler
}

func NewApp(logger internal.Logger, users storage.UserRepository, devices storage.DeviceRepository, gen telemetry.Generator, rec *service.Reconciler) App {
	return &app{logger: logger, users: users, devices: devices, generator: gen, reconciler: rec}
}

func (a *app) Logger() internal.Logger              { return a.logger }
func (a *app) Users() storage.UserRepository        { return a.users }
func (a *app) Devices() storage.DeviceRepository    { return a.devices }
func (a *app) Generator() telemetry.Generator       { return a.generator }
func (a *app) Reconciler() *service.Reconciler      { return a.reconciler }
