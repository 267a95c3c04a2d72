package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	"github.com/lintang-b-s/navtraffic/pkg/engine/routing"
	"github.com/lintang-b-s/navtraffic/pkg/engine/traffic"
	"github.com/lintang-b-s/navtraffic/pkg/http"
	"github.com/lintang-b-s/navtraffic/pkg/http/usecases"
	"github.com/lintang-b-s/navtraffic/pkg/logger"
	"github.com/lintang-b-s/navtraffic/pkg/notification"
	"github.com/lintang-b-s/navtraffic/pkg/provider"
	"github.com/lintang-b-s/navtraffic/pkg/spatialindex"
	"github.com/lintang-b-s/navtraffic/pkg/store"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useMaxSpeed = flag.Bool("use_maxspeed", true, "use the osm maxspeed tag for base edge weights when present")
	indexCache  = flag.Int("index_cache", 32, "number of r-tree nearest node indexes kept in memory")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var regionProvider provider.RegionGraphProvider
	if pbfPath := viper.GetString("OSM_PBF_PATH"); pbfPath != "" {
		logger.Info("using local osm extract as region provider", zap.String("path", pbfPath))
		regionProvider = provider.NewPBFProvider(pbfPath, *useMaxSpeed, logger)
	} else {
		logger.Info("using overpass api as region provider", zap.String("url", viper.GetString("OVERPASS_URL")))
		regionProvider = provider.NewOverpassProvider(viper.GetString("OVERPASS_URL"),
			viper.GetDuration("OVERPASS_TIMEOUT"), *useMaxSpeed, logger)
	}
	cachedProvider, err := provider.NewCachedProvider(regionProvider, viper.GetInt("REGION_CACHE_SIZE"), logger)
	if err != nil {
		panic(err)
	}

	db, err := store.OpenBadger(viper.GetString("BADGER_DIR"), viper.GetBool("BADGER_IN_MEMORY"), logger)
	if err != nil {
		panic(err)
	}
	graphStore := store.NewBadgerGraphStore(db, viper.GetDuration("SNAPSHOT_TTL"), logger)
	defer graphStore.Close()

	resolver, err := spatialindex.NewNearestNodeResolver(logger, *indexCache)
	if err != nil {
		panic(err)
	}

	hub := notification.NewHub(logger)

	routingService := usecases.NewRoutingService(logger, cachedProvider, graphStore, resolver,
		traffic.NewApplicator(resolver, logger), routing.NewRoutePlanner(logger), hub,
		viper.GetFloat64("BBOX_MARGIN"))

	costFunction, ok := costfunction.ByName(viper.GetString("ROUTE_WEIGHT"))
	if !ok {
		logger.Fatal("unknown route weight", zap.String("ROUTE_WEIGHT", viper.GetString("ROUTE_WEIGHT")))
	}
	routingService.SetCostFunction(costFunction)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, viper.GetBool("USE_RATE_LIMIT"), routingService, hub); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("navtraffic route engine stopping", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil && err != context.Canceled {
		logger.Error("server stopped with error", zap.Error(err))
	}
	logger.Info("navtraffic route engine stopped")
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
