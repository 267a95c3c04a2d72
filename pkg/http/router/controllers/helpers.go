package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, kind util.ErrorKind,
	message string) {
	var resp errorResponse
	resp.Error.Code = http.StatusText(status)
	resp.Error.Kind = string(kind)
	resp.Error.Message = message

	if err := api.writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		api.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, util.KindInternal, util.MessageInternalServerError)
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, util.KindBadRequest, err.Error())
}

// getStatusCode. answer err with the status of its error kind
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	kind := util.KindOf(err)
	switch kind {
	case util.KindBadRequest:
		api.errorResponse(w, r, http.StatusBadRequest, kind, err.Error())
	case util.KindNodeResolution:
		api.errorResponse(w, r, http.StatusUnprocessableEntity, kind, err.Error())
	case util.KindNoActiveRoute, util.KindNoRegionData:
		api.errorResponse(w, r, http.StatusNotFound, kind, err.Error())
	case util.KindProviderUnavailable:
		api.log.Warn("region provider unavailable", zap.Error(err))
		api.errorResponse(w, r, http.StatusBadGateway, kind, err.Error())
	case util.KindStoreUnavailable:
		api.log.Error("graph store unavailable", zap.Error(err))
		api.errorResponse(w, r, http.StatusServiceUnavailable, kind, err.Error())
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

// validateRequest. nil or a bad request error listing every failed field
func (api *routingAPI) validateRequest(request interface{}) error {
	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return validate, trans
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf("%s", e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
