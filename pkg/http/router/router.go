package router

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/lintang-b-s/navtraffic/pkg/concurrent"
	"github.com/lintang-b-s/navtraffic/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/navtraffic/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/navtraffic/pkg/http/server"
	"github.com/lintang-b-s/navtraffic/pkg/notification"
	"github.com/mailru/easygo/netpoll"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "net/http/pprof"

	httpSwagger "github.com/swaggo/http-swagger"
)

type API struct {
	log    *zap.Logger
	hub    *notification.Hub
	poller netpoll.Poller
	pool   *concurrent.WorkerPool
}

func NewAPI(log *zap.Logger, hub *notification.Hub) *API {
	return &API{log: log, hub: hub}
}

//	@title			navtraffic API
//	@version		1.0
//	@description	Traffic aware route sessions on openstreetmap road networks.

//	@contact.name	Lintang Birda Saputra
//	@contact.url	_
//	@contact.email	lintang.birda.saputra@mail.ugm.ac.id

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,

	useRateLimit bool,
	routingService controllers.RoutingService,
) error {
	log.Info("Run httprouter API")

	router := httprouter.New()

	router.GET("/doc/*any", swaggerHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	group := router_helper.NewRouteGroup(router, "/api")

	routingRoutes := controllers.New(routingService, log)
	routingRoutes.Routes(group)

	var (
		errChan      chan error = make(chan error, 1)
		errProxyChan chan error = make(chan error, 1)
		wsServer     *http.Server
	)

	go func() {
		api.handleWebsocket(ctx, config, errChan)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", api.upstream("route updates", "tcp", "localhost"+":"+strconv.Itoa(config.WebsocketPort)))

	wsServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.ProxyPort),
		Handler: mux,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},

		ReadTimeout:       viper.GetDuration("HTTP_SERVER_READ_TIMEOUT"),
		IdleTimeout:       viper.GetDuration("HTTP_SERVER_IDLE_TIMEOUT"),
		ReadHeaderTimeout: viper.GetDuration("HTTP_SERVER_READ_HEADER_TIMEOUT"),
	}

	go func() {
		api.log.Info(fmt.Sprintf("WebSocket proxy running on port %d", config.ProxyPort))
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errProxyChan <- err
		}
	}()

	mainMwChain := alice.New(api.middlewares(useRateLimit)...).Then(router)

	srv := http_server.New(ctx, mainMwChain, config, false)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		log.Error("Websocket error, shutting down server", zap.Error(err))
		_ = srv.Shutdown(context.Background())
		_ = wsServer.Shutdown(context.Background())
		return err
	case err := <-errProxyChan:
		log.Error("Websocket proxy error, shutting down server", zap.Error(err))
		_ = srv.Shutdown(context.Background())
		return err
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		_ = wsServer.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		_ = wsServer.Shutdown(context.Background())
		return ctx.Err()
	}
}

func (api *API) middlewares(useRateLimit bool) []alice.Constructor {
	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels}
	if useRateLimit {
		mwChain = append(mwChain, Limit(viper.GetFloat64("RATE_LIMIT_RPS"), viper.GetInt("RATE_LIMIT_BURST")))
	}
	return mwChain
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
