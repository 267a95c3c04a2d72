package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/lintang-b-s/navtraffic/pkg/concurrent"
	http_server "github.com/lintang-b-s/navtraffic/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const wsPathPrefix = "/ws/"

var errBadWebsocketPath = errors.New("websocket path must be /ws/:user_id")

// userIDFromURI. user id of a /ws/:user_id request uri
func userIDFromURI(uri string) (string, error) {
	path, _, _ := strings.Cut(uri, "?")
	if !strings.HasPrefix(path, wsPathPrefix) {
		return "", errBadWebsocketPath
	}
	userId := strings.TrimPrefix(path, wsPathPrefix)
	if userId == "" || strings.Contains(userId, "/") {
		return "", errBadWebsocketPath
	}
	return userId, nil
}

func (api *API) handleWebsocket(ctx context.Context, config http_server.Config, errChan chan error) {
	var err error

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", config.WebsocketPort))
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("route update websocket server run on port %d", config.WebsocketPort))

	acceptDesc, err := netpoll.HandleListener(ln, netpoll.EventRead|netpoll.EventOneShot)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	api.poller, err = netpoll.New(nil)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	api.pool = concurrent.NewWorkerPool(viper.GetInt("WS_POOL_SIZE"), viper.GetInt("WS_POOL_QUEUE"))
	api.pool.Spawn(viper.GetInt("WS_POOL_SIZE") / 4)

	// accept is a channel to signal about next incoming connection Accept() results.
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(ev netpoll.Event) {
		// listener fd is registered one-shot, re-arm it once this accept is handled
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(time.Millisecond, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(conn)
		})
		if err == nil {
			err = <-accept
		}
		if err != nil {
			// pool saturated or temporary accept failure: cool down before accepting again
			if errors.Is(err, concurrent.ErrScheduleTimeout) {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else if !errors.Is(err, net.ErrClosed) && !errors.Is(err, concurrent.ErrPoolClosed) {
				api.log.Error("accept error", zap.Error(err))
			}
		}
	})

	<-ctx.Done()

	ln.Close()
	api.hub.RemoveAll()
	api.poller.Stop(acceptDesc)
	api.pool.Close()

	api.log.Info("websocket server stopped")
}

/*
handle. upgrade conn to a websocket of /ws/:user_id and register it in the hub.
the connection fd is watched with epoll instead of a blocking reader goroutine per client,
ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
*/
func (api *API) handle(conn net.Conn) {
	var userId string
	upgrader := ws.Upgrader{
		OnRequest: func(uri []byte) error {
			id, err := userIDFromURI(string(uri))
			if err != nil {
				return ws.RejectConnectionError(ws.RejectionStatus(400), ws.RejectionReason(err.Error()))
			}
			userId = id
			return nil
		},
	}

	hs, err := upgrader.Upgrade(conn)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connection", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connection", nameConn(conn)),
		zap.String("user_id", userId), zap.String("protocol", hs.Protocol))

	user := api.hub.Register(userId, conn)

	desc, err := netpoll.HandleRead(conn)
	if err != nil {
		api.log.Error("watch websocket connection", zap.Error(err), zap.String("user_id", userId))
		api.hub.Remove(user)
		return
	}

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			// peer closed its end of the connection
			api.log.Info("user disconnected from websocket server", zap.String("user_id", userId))
			api.poller.Stop(desc)
			api.hub.Remove(user)
			return
		}

		api.pool.Schedule(func() {
			if err := user.Receive(); err != nil {
				api.log.Info("websocket connection closed", zap.String("user_id", userId), zap.Error(err))
				api.poller.Stop(desc)
				api.hub.Remove(user)
			}
		})
	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
