//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"plantao/internal"
	"plantao/internal/controllers"
	"plantao/internal/providers"
	"plantao/internal/services"
	"plantao/internal/snapshot"
	"plantao/internal/store"
	"plantao/internal/structures"
	"plantao/internal/watcher"
)

var recordSet = wire.NewSet(
	providers.NewNormalizerProvider,
	providers.NewRecordStoreProvider,
	wire.Bind(new(providers.RecordStatter), new(*store.RecordStore)),
	wire.Bind(new(services.RecordStoreInterface), new(*store.RecordStore)),
	wire.Bind(new(snapshot.RecordWriter), new(*store.RecordStore)),
)

var snapshotSet = wire.NewSet(
	snapshot.NewZstdCompressor,
	snapshot.NewFileManager,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewRateLimiter,
		recordSet,
		snapshotSet,

		services.NewPlantaoService,
		wire.Bind(new(services.PlantaoServiceInterface), new(*services.PlantaoService)),
		controllers.NewApiController,
		controllers.NewHealthController,
		controllers.NewSiteController,
		watcher.NewWatcherProvider,
		snapshot.NewScheduler,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

func InitRestorer(cfg *structures.CliFlags) (*snapshot.Restorer, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		recordSet,
		snapshotSet,
		snapshot.NewRestorer,
	)

	return nil, nil
}
