package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/navtraffic/pkg/http/router"
	"github.com/lintang-b-s/navtraffic/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navtraffic/pkg/http/server"
	"github.com/lintang-b-s/navtraffic/pkg/notification"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. start the api, websocket & websocket proxy servers in the background. Wait reports the first failure.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	routingService controllers.RoutingService,
	hub *notification.Hub,
) (*Server, error) {
	config := http_server.Config{
		Port:          viper.GetInt("API_PORT"),
		WebsocketPort: viper.GetInt("WEBSOCKET_PORT"),
		ProxyPort:     viper.GetInt("PROXY_PORT"),
		Timeout:       viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log, hub)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(
			gctx, config, log,
			useRateLimit, routingService,
		)
	})
	s.g = g

	return s, nil
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown. blocks until SIGINT or SIGTERM
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
