package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/server"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	paramContractVersion = "version"
	paramNamespace       = "namespace"
	paramName            = "name"
	paramID              = "id"
	paramWait            = "wait"
)

type OperationResponse struct {
	ID string `json:"id"`
}

func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc(fmt.Sprintf("/v{%s}/releases", paramContractVersion), s.apply).
		Methods(http.MethodPut, http.MethodPost)
	router.HandleFunc(fmt.Sprintf("/v{%s}/releases/{%s}/{%s}", paramContractVersion, paramNamespace, paramName), s.get).
		Methods(http.MethodGet)
	router.HandleFunc(fmt.Sprintf("/v{%s}/releases/{%s}/{%s}", paramContractVersion, paramNamespace, paramName), s.delete).
		Methods(http.MethodDelete)
	router.HandleFunc(fmt.Sprintf("/v{%s}/operations/{%s}", paramContractVersion, paramID), s.operation).
		Methods(http.MethodGet)

	metricsRouter := router.Path("/metrics").Subrouter()
	metricsRouter.Handle("", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))

	//liveness and readiness checks
	router.HandleFunc("/health/live", live)
	router.HandleFunc("/health/ready", s.ready)

	return router
}

func live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Service) ready(w http.ResponseWriter, _ *http.Request) {
	if s.workerPool.IsClosed() {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Service) apply(w http.ResponseWriter, r *http.Request) {
	params := server.NewParams(r)
	if err := checkContractVersion(params); err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}

	req := &release.Request{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.logger.Warnf("Unmarshalling of release request failed: %s", err)
		server.SendHTTPError(w, http.StatusBadRequest, "", errors.Wrap(err, "failed to decode release request"))
		return
	}

	wait, waitTimeout, err := waitParam(params)
	if err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}

	if err := req.Validate(); err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}

	op, err := s.SubmitApply(req, wait, waitTimeout)
	s.sendOperation(w, op, err)
}

func (s *Service) delete(w http.ResponseWriter, r *http.Request) {
	params := server.NewParams(r)
	namespace, name, err := releaseParams(params)
	if err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}
	op, err := s.SubmitDelete(namespace, name)
	s.sendOperation(w, op, err)
}

func (s *Service) get(w http.ResponseWriter, r *http.Request) {
	params := server.NewParams(r)
	namespace, name, err := releaseParams(params)
	if err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}
	res, err := s.client.Get(r.Context(), namespace, name)
	if err != nil {
		kind := release.KindOf(err)
		server.SendHTTPError(w, httpStatus(kind), string(kind), err)
		return
	}
	server.SendJSON(w, http.StatusOK, res)
}

func (s *Service) operation(w http.ResponseWriter, r *http.Request) {
	params := server.NewParams(r)
	if err := checkContractVersion(params); err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}
	id, err := params.String(paramID)
	if err != nil {
		server.SendHTTPError(w, http.StatusBadRequest, "", err)
		return
	}
	op, ok := s.Operation(id)
	if !ok {
		server.SendHTTPError(w, http.StatusNotFound, string(release.NotFound), fmt.Errorf("operation '%s' not found", id))
		return
	}
	server.SendJSON(w, http.StatusOK, op)
}

func (s *Service) sendOperation(w http.ResponseWriter, op *Operation, err error) {
	switch {
	case errors.Is(err, ErrPoolFull):
		server.SendHTTPError(w, http.StatusTooManyRequests, "", err)
	case err != nil && s.workerPool.IsClosed():
		server.SendHTTPError(w, http.StatusServiceUnavailable, "", err)
	case err != nil:
		server.SendHTTPError(w, http.StatusInternalServerError, "", err)
	default:
		w.Header().Set("Location", fmt.Sprintf("/v1/operations/%s", op.ID))
		server.SendJSON(w, http.StatusAccepted, &OperationResponse{ID: op.ID})
	}
}

func checkContractVersion(params *server.Params) error {
	contractVersion, err := params.String(paramContractVersion)
	if err != nil {
		return err
	}
	if contractVersion != "1" {
		return fmt.Errorf("contract version '%s' is not supported", contractVersion)
	}
	return nil
}

func releaseParams(params *server.Params) (string, string, error) {
	if err := checkContractVersion(params); err != nil {
		return "", "", err
	}
	namespace, err := params.String(paramNamespace)
	if err != nil {
		return "", "", err
	}
	name, err := params.String(paramName)
	if err != nil {
		return "", "", err
	}
	return namespace, name, nil
}

//waitParam accepts 'wait=true' (default timeout of the waiter) or a timeout like 'wait=90s'
func waitParam(params *server.Params) (bool, time.Duration, error) {
	if !params.Has(paramWait) {
		return false, 0, nil
	}
	if wait, err := params.Bool(paramWait); err == nil {
		return wait, 0, nil
	}
	timeout, err := params.Duration(paramWait)
	if err != nil {
		return false, 0, errors.Wrapf(err, "parameter '%s' is neither a boolean nor a duration", paramWait)
	}
	if timeout <= 0 {
		return false, 0, fmt.Errorf("parameter '%s' has to be a positive duration", paramWait)
	}
	return true, timeout, nil
}

func httpStatus(kind release.Kind) int {
	switch kind {
	case release.NotFound:
		return http.StatusNotFound
	case release.Conflict, release.InvalidState:
		return http.StatusConflict
	case release.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
