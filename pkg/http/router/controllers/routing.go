package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	helper "github.com/lintang-b-s/navtraffic/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navtraffic/pkg/notification"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
	validate       *validator.Validate
	trans          ut.Translator
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	validate, trans := newValidator()
	return &routingAPI{
		routingService: routingService,
		log:            log,
		validate:       validate,
		trans:          trans,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/routes", api.createRoute)
	group.POST("/routes/traffic", api.refreshTraffic)
	group.GET("/routes/:user_id/path", api.getPath)
}

// createRoute
//
//	@Summary		start the route session of a user
//	@Description	fetch the road network around origin & destination, apply traffic_data and plan the least-cost route.
//	@Tags			routes
//	@Accept			json
//	@Produce		json
//	@Router			/routes [post]
//	@Success		200	{object}	notification.RouteMessage
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Failure		502	{object}	errorResponse
func (api *routingAPI) createRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request createRouteRequest
	if err := api.decode(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.routingService.CreateRoute(r.Context(), request.UserID,
		geo.NewCoordinate(*request.OriginLat, *request.OriginLon),
		geo.NewCoordinate(*request.DestinationLat, *request.DestinationLon),
		toDelayReports(request.TrafficData))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": notification.NewRouteMessage(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// refreshTraffic
//
//	@Summary		apply new traffic to the route session of a user
//	@Description	add the traffic_data delays to the persisted graph of user_id, re-plan and push the route to the user's websocket.
//	@Tags			routes
//	@Accept			json
//	@Produce		json
//	@Router			/routes/traffic [post]
//	@Success		200	{object}	notification.RouteMessage
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
func (api *routingAPI) refreshTraffic(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request refreshTrafficRequest
	if err := api.decode(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	endpoints, ok := request.endpoints()
	if !ok {
		api.BadRequestResponse(w, r,
			errors.New("origin_lat, origin_lon, destination_lat and destination_lon must be given together"))
		return
	}

	route, err := api.routingService.RefreshTraffic(r.Context(), request.UserID,
		toDelayReports(request.TrafficData), endpoints)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": notification.NewRouteMessage(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// getPath
//
//	@Summary	last planned route of a user
//	@Tags		routes
//	@Produce	json
//	@Param		user_id	path	string	true	"user id"
//	@Router		/routes/{user_id}/path [get]
//	@Success	200	{object}	notification.RouteMessage
//	@Failure	404	{object}	errorResponse
func (api *routingAPI) getPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	userId := p.ByName("user_id")
	if userId == "" {
		api.BadRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	route, err := api.routingService.GetPath(r.Context(), userId)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": notification.NewRouteMessage(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}
