package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/logger"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/release/mocks"
	"github.com/kyma-incubator/app-reconciler/pkg/server"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const requestBody = `{
	"namespace": "suse-ai",
	"name": "ollama",
	"chartRepo": "suse-ai-charts",
	"chartName": "ollama",
	"chartVersion": "1.16.0",
	"values": {"gpu": {"enabled": true}}
}`

func newTestService(t *testing.T, client release.Client, workers int) (*Service, *httptest.Server) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc, err := NewService(ctx, client, logger.NewOptionalLogger(true), Config{
		Workers:       workers,
		RetryAttempts: 3,
		RetryDelay:    10 * time.Millisecond,
		Waiter:        release.WaiterConfig{Interval: 10 * time.Millisecond},
		Deleter:       release.DeleterConfig{Pause: 10 * time.Millisecond},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(svc.Router())
	t.Cleanup(srv.Close)
	return svc, srv
}

func call(t *testing.T, method, url, body string) (int, []byte) {
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func submit(t *testing.T, method, url, body string) string {
	status, data := call(t, method, url, body)
	require.Equal(t, http.StatusAccepted, status, string(data))
	resp := &OperationResponse{}
	require.NoError(t, json.Unmarshal(data, resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func awaitOperation(t *testing.T, srvURL, id string) *Operation {
	op := &Operation{}
	require.Eventually(t, func() bool {
		status, data := call(t, http.MethodGet, fmt.Sprintf("%s/v1/operations/%s", srvURL, id), "")
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(data, op))
		return op.Status.IsFinal()
	}, 5*time.Second, 20*time.Millisecond)
	return op
}

func notFound() error {
	return &release.Error{Kind: release.NotFound, Code: 404, Message: "not found"}
}

func TestApply(t *testing.T) {
	t.Run("Install and wait", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").Return(nil, notFound()).Once()
		client.On("InvokeAction", mock.Anything, "suse-ai-charts", release.ActionInstall, mock.MatchedBy(func(p *release.ActionPayload) bool {
			return p.Charts[0].Values["gpu"].(map[string]interface{})["enabled"] == true
		})).Return(nil).Once()
		client.On("Get", mock.Anything, "suse-ai", "ollama").
			Return(&release.Resource{Name: "ollama", Namespace: "suse-ai", Generation: 1, ObservedGeneration: 1}, nil)

		_, srv := newTestService(t, client, 2)
		id := submit(t, http.MethodPost, srv.URL+"/v1/releases?wait=5s", requestBody)

		op := awaitOperation(t, srv.URL, id)
		require.Equal(t, StatusSuccess, op.Status)
		require.Equal(t, OperationApply, op.Type)
		require.Equal(t, "suse-ai", op.Namespace)
		require.Equal(t, "ollama", op.Name)
		client.AssertNumberOfCalls(t, "Get", 2)
	})

	t.Run("Failed write is not repeated", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").Return(nil, notFound()).Once()
		client.On("InvokeAction", mock.Anything, "suse-ai-charts", release.ActionInstall, mock.Anything).
			Return(&release.Error{Kind: release.Unknown, Code: 0, Message: "Client.Timeout exceeded while awaiting headers"}).Once()

		_, srv := newTestService(t, client, 2)
		id := submit(t, http.MethodPost, srv.URL+"/v1/releases", requestBody)

		op := awaitOperation(t, srv.URL, id)
		require.Equal(t, StatusFailed, op.Status)
		require.Equal(t, release.Unknown, op.Kind)
		require.Contains(t, op.Error, "Client.Timeout")
		client.AssertNumberOfCalls(t, "InvokeAction", 1)
	})

	t.Run("Unclassified existence check failures are retried", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").
			Return(nil, &release.Error{Kind: release.Unknown, Code: 503, Message: "service unavailable"}).Once()
		client.On("Get", mock.Anything, "suse-ai", "ollama").Return(nil, notFound()).Once()
		client.On("InvokeAction", mock.Anything, "suse-ai-charts", release.ActionInstall, mock.Anything).Return(nil).Once()

		_, srv := newTestService(t, client, 2)
		id := submit(t, http.MethodPost, srv.URL+"/v1/releases", requestBody)

		op := awaitOperation(t, srv.URL, id)
		require.Equal(t, StatusSuccess, op.Status)
		client.AssertNumberOfCalls(t, "Get", 2)
		client.AssertNumberOfCalls(t, "InvokeAction", 1)
	})

	t.Run("Explicit action options are sent unchanged", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").Return(nil, notFound()).Once()
		client.On("InvokeAction", mock.Anything, "suse-ai-charts", release.ActionInstall, mock.MatchedBy(func(p *release.ActionPayload) bool {
			return !p.Wait && p.Timeout == "60s"
		})).Return(nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		svc, err := NewService(ctx, client, logger.NewOptionalLogger(true), Config{
			Workers:       1,
			ActionOptions: &release.ActionOptions{Wait: false, Timeout: "60s"},
		})
		require.NoError(t, err)
		srv := httptest.NewServer(svc.Router())
		defer srv.Close()

		id := submit(t, http.MethodPost, srv.URL+"/v1/releases", requestBody)
		require.Equal(t, StatusSuccess, awaitOperation(t, srv.URL, id).Status)
	})

	t.Run("Conflicts are final", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("Get", mock.Anything, "suse-ai", "ollama").
			Return(&release.Resource{Name: "ollama", Namespace: "suse-ai", ResourceVersion: "7"}, nil).Once()
		client.On("Update", mock.Anything, mock.Anything, "7").
			Return(nil, &release.Error{Kind: release.Conflict, Code: 409, Message: "the object has been modified"}).Once()

		_, srv := newTestService(t, client, 2)
		id := submit(t, http.MethodPost, srv.URL+"/v1/releases", requestBody)

		op := awaitOperation(t, srv.URL, id)
		require.Equal(t, StatusFailed, op.Status)
		require.Equal(t, release.Conflict, op.Kind)
		require.Contains(t, op.Error, "the object has been modified")
		client.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("Invalid requests", func(t *testing.T) {
		_, srv := newTestService(t, mocks.NewClient(t), 2)

		status, _ := call(t, http.MethodPost, srv.URL+"/v1/releases", "{no-json")
		require.Equal(t, http.StatusBadRequest, status)

		status, data := call(t, http.MethodPost, srv.URL+"/v1/releases", `{"namespace":"suse-ai","name":"ollama"}`)
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, string(data), "chart repository is undefined")

		status, _ = call(t, http.MethodPost, srv.URL+"/v2/releases", requestBody)
		require.Equal(t, http.StatusBadRequest, status)

		status, _ = call(t, http.MethodPost, srv.URL+"/v1/releases?wait=soon", requestBody)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Full worker pool", func(t *testing.T) {
		block := make(chan struct{})
		client := mocks.NewClient(t)
		client.On("InvokeAction", mock.Anything, "suse-ai-charts", release.ActionUpgrade, mock.Anything).
			Run(func(args mock.Arguments) { <-block }).
			Return(nil).Once()

		svc, srv := newTestService(t, client, 1)
		body := `{"namespace":"suse-ai","name":"ollama","chartRepo":"suse-ai-charts","chartName":"ollama",` +
			`"chartVersion":"1.16.0","preferredAction":"upgrade"}`
		id := submit(t, http.MethodPost, srv.URL+"/v1/releases", body)
		require.Eventually(t, func() bool { return svc.workerPool.Running() == 1 }, time.Second, 10*time.Millisecond)

		status, _ := call(t, http.MethodPost, srv.URL+"/v1/releases", body)
		require.Equal(t, http.StatusTooManyRequests, status)

		close(block)
		require.Equal(t, StatusSuccess, awaitOperation(t, srv.URL, id).Status)
	})
}

func TestGet(t *testing.T) {
	client := mocks.NewClient(t)
	client.On("Get", mock.Anything, "suse-ai", "ollama").
		Return(&release.Resource{Name: "ollama", Namespace: "suse-ai", ResourceVersion: "7", Generation: 2, ObservedGeneration: 2, State: "deployed"}, nil).Once()
	client.On("Get", mock.Anything, "suse-ai", "open-webui").Return(nil, notFound()).Once()

	_, srv := newTestService(t, client, 2)

	status, data := call(t, http.MethodGet, srv.URL+"/v1/releases/suse-ai/ollama", "")
	require.Equal(t, http.StatusOK, status)
	res := &release.Resource{}
	require.NoError(t, json.Unmarshal(data, res))
	require.Equal(t, "deployed", res.State)
	require.True(t, res.Converged())

	status, data = call(t, http.MethodGet, srv.URL+"/v1/releases/suse-ai/open-webui", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Contains(t, string(data), `"kind":"NotFound"`)
}

func TestDelete(t *testing.T) {
	client := mocks.NewClient(t)
	client.On("Delete", mock.Anything, "suse-ai", "ollama").Return(nil).Once()
	client.On("Delete", mock.Anything, "suse-ai", "open-webui").Return(notFound()).Once()

	_, srv := newTestService(t, client, 2)

	op := awaitOperation(t, srv.URL, submit(t, http.MethodDelete, srv.URL+"/v1/releases/suse-ai/ollama", ""))
	require.Equal(t, StatusSuccess, op.Status)
	require.Equal(t, OperationDelete, op.Type)

	op = awaitOperation(t, srv.URL, submit(t, http.MethodDelete, srv.URL+"/v1/releases/suse-ai/open-webui", ""))
	require.Equal(t, StatusFailed, op.Status)
	require.Equal(t, release.NotFound, op.Kind)
	client.AssertNumberOfCalls(t, "Delete", 2)
}

func TestOperationEndpoints(t *testing.T) {
	_, srv := newTestService(t, mocks.NewClient(t), 2)

	status, _ := call(t, http.MethodGet, srv.URL+"/v1/operations/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, http.MethodGet, srv.URL+"/health/live", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, http.MethodGet, srv.URL+"/health/ready", "")
	require.Equal(t, http.StatusOK, status)

	status, data := call(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(data), "app_reconciler_worker_pool_occupancy")
}

func TestWaitParam(t *testing.T) {
	tests := []struct {
		query   string
		wait    bool
		timeout time.Duration
		wantErr bool
	}{
		{query: "", wait: false},
		{query: "wait=true", wait: true},
		{query: "wait=false", wait: false},
		{query: "wait=90s", wait: true, timeout: 90 * time.Second},
		{query: "wait=30", wait: true, timeout: 30 * time.Second},
		{query: "wait=-5s", wantErr: true},
		{query: "wait=later", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/releases?"+tt.query, nil)
			wait, timeout, err := waitParam(server.NewParams(req))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wait, wait)
			require.Equal(t, tt.timeout, timeout)
		})
	}
}

func TestConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Config{}
		require.NoError(t, cfg.validate())
		require.Equal(t, release.DefaultActionOptions(), *cfg.ActionOptions)
		require.Equal(t, defaultRetryAttempts, cfg.RetryAttempts)
	})

	t.Run("Disabled wait is kept", func(t *testing.T) {
		cfg := Config{ActionOptions: &release.ActionOptions{}}
		require.NoError(t, cfg.validate())
		require.False(t, cfg.ActionOptions.Wait)
	})

	t.Run("Invalid values", func(t *testing.T) {
		require.Error(t, (&Config{Workers: -1}).validate())
		require.Error(t, (&Config{RetryAttempts: -1}).validate())
		require.Error(t, (&Config{JobTimeout: -1}).validate())
	})
}
