package rancher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/logger"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
	"github.com/kyma-incubator/app-reconciler/pkg/test"
	"github.com/stretchr/testify/require"
)

const (
	clusterID   = "c-m-4711"
	token       = "token-abc:secret"
	clusterPath = "/k8s/clusters/" + clusterID
	appURLPath  = clusterPath + "/apis/catalog.cattle.io/v1/namespaces/suse-ai/apps/ollama"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   []byte
}

type fakeRancher struct {
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	calls    int32
}

func newFakeRancher(t *testing.T, status int, contentType, response string) *fakeRancher {
	fake := &fakeRancher{}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fake.calls, 1)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		fake.mu.Lock()
		defer fake.mu.Unlock()
		fake.requests = append(fake.requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, err = w.Write([]byte(response))
		require.NoError(t, err)
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeRancher) lastRequest(t *testing.T) recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, url string) *Client {
	client, err := NewClient(Config{
		URL:       url,
		Token:     token,
		ClusterID: clusterID,
		QPS:       -1,
		Timeout:   5 * time.Second,
	}, logger.NewOptionalLogger(true))
	require.NoError(t, err)
	return client
}

func statusBody(code int, reason, message string) string {
	return `{"kind":"Status","apiVersion":"v1","metadata":{},"status":"Failure","message":"` + message +
		`","reason":"` + reason + `","code":` + jsonInt(code) + `}`
}

func jsonInt(i int) string {
	data, _ := json.Marshal(i)
	return string(data)
}

func newRequest() *release.Request {
	return &release.Request{
		Namespace:    "suse-ai",
		Name:         "ollama",
		ChartRepo:    "suse-ai-charts",
		ChartName:    "ollama",
		ChartVersion: "1.16.0",
		Values:       map[string]interface{}{"replicas": float64(2)},
	}
}

func TestClientGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing app", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusOK, "application/json", `{
			"apiVersion": "catalog.cattle.io/v1",
			"kind": "App",
			"metadata": {"name": "ollama", "namespace": "suse-ai", "resourceVersion": "4711", "generation": 3},
			"status": {"observedGeneration": 2, "conditions": [{"type": "Deployed", "status": "True"}, {"type": "Ready", "status": "False"}]}
		}`)

		res, err := newTestClient(t, fake.server.URL).Get(ctx, "suse-ai", "ollama")
		require.NoError(t, err)
		require.Equal(t, &release.Resource{
			Name:               "ollama",
			Namespace:          "suse-ai",
			ResourceVersion:    "4711",
			Generation:         3,
			ObservedGeneration: 2,
			State:              "False",
		}, res)

		req := fake.lastRequest(t)
		require.Equal(t, http.MethodGet, req.method)
		require.Equal(t, appURLPath, req.path)
		require.Equal(t, "Bearer "+token, req.auth)
	})

	t.Run("Missing app", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusNotFound, "application/json",
			statusBody(http.StatusNotFound, "NotFound", `apps.catalog.cattle.io \"ollama\" not found`))

		_, err := newTestClient(t, fake.server.URL).Get(ctx, "suse-ai", "ollama")
		require.True(t, release.IsNotFound(err))
		require.Equal(t, http.StatusNotFound, release.StatusCode(err))

		var clientErr *release.Error
		require.ErrorAs(t, err, &clientErr)
		require.Equal(t, `apps.catalog.cattle.io "ollama" not found`, clientErr.Message)
	})

	t.Run("Server failure is not retried", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusServiceUnavailable, "text/plain", "cluster agent is disconnected")

		_, err := newTestClient(t, fake.server.URL).Get(ctx, "suse-ai", "ollama")
		require.Equal(t, release.Unknown, release.KindOf(err))
		require.Equal(t, http.StatusServiceUnavailable, release.StatusCode(err))
		require.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
	})

	t.Run("Unreachable server", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusOK, "application/json", "{}")
		url := fake.server.URL
		fake.server.Close()

		_, err := newTestClient(t, url).Get(ctx, "suse-ai", "ollama")
		require.Equal(t, release.Unknown, release.KindOf(err))
		require.Equal(t, 0, release.StatusCode(err))
	})
}

func TestClientUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Update carries resource version", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusOK, "application/json",
			`{"metadata": {"name": "ollama", "namespace": "suse-ai", "resourceVersion": "4712", "generation": 4},
			  "status": {"observedGeneration": 3, "summary": {"state": "deployed"}}}`)

		res, err := newTestClient(t, fake.server.URL).Update(ctx, newRequest(), "4711")
		require.NoError(t, err)
		require.Equal(t, "4712", res.ResourceVersion)
		require.Equal(t, "deployed", res.State)
		require.False(t, res.Converged())

		req := fake.lastRequest(t)
		require.Equal(t, http.MethodPut, req.method)
		require.Equal(t, appURLPath, req.path)

		app := &App{}
		require.NoError(t, json.Unmarshal(req.body, app))
		require.Equal(t, "catalog.cattle.io/v1", app.APIVersion)
		require.Equal(t, "App", app.Kind)
		require.Equal(t, "4711", app.ResourceVersion)
		require.Equal(t, "suse-ai-charts", app.Labels[release.LabelClusterRepoName])
		require.Equal(t, "ollama", app.Spec.Name)
		require.Equal(t, "suse-ai", app.Spec.Namespace)
		require.Equal(t, ChartMetadata{Name: "ollama", Version: "1.16.0"}, app.Spec.Chart.Metadata)
		require.Equal(t, map[string]interface{}{"replicas": float64(2)}, app.Spec.Values)
	})

	t.Run("Stale resource version", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusConflict, "application/json",
			statusBody(http.StatusConflict, "Conflict", "the object has been modified"))

		_, err := newTestClient(t, fake.server.URL).Update(ctx, newRequest(), "1")
		require.True(t, release.IsConflict(err))
		require.Equal(t, http.StatusConflict, release.StatusCode(err))
		require.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
	})
}

func TestClientCreate(t *testing.T) {
	fake := newFakeRancher(t, http.StatusCreated, "application/json",
		`{"metadata": {"name": "ollama", "namespace": "suse-ai", "resourceVersion": "1", "generation": 1}}`)

	res, err := newTestClient(t, fake.server.URL).Create(context.Background(), newRequest())
	require.NoError(t, err)
	require.Equal(t, "1", res.ResourceVersion)
	require.Equal(t, "Unknown", res.State)

	req := fake.lastRequest(t)
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, clusterPath+"/apis/catalog.cattle.io/v1/namespaces/suse-ai/apps", req.path)

	app := &App{}
	require.NoError(t, json.Unmarshal(req.body, app))
	require.Empty(t, app.ResourceVersion)
	require.Equal(t, "ollama", app.Name)
}

func TestClientInvokeAction(t *testing.T) {
	fake := newFakeRancher(t, http.StatusOK, "application/json", `{"operationName": "helm-operation-abc"}`)

	payload := release.NewActionPayload(newRequest(), release.DefaultActionOptions())
	err := newTestClient(t, fake.server.URL).InvokeAction(context.Background(), "suse-ai-charts", release.ActionUpgrade, payload)
	require.NoError(t, err)

	req := fake.lastRequest(t)
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, clusterPath+"/v1/catalog.cattle.io.clusterrepos/suse-ai-charts", req.path)
	require.Equal(t, "action=upgrade", req.query)

	sent := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(req.body, &sent))
	require.Equal(t, "suse-ai", sent["namespace"])
	require.Equal(t, true, sent["wait"])
	require.Equal(t, "600s", sent["timeout"])
	require.Equal(t, false, sent["noHooks"])
	require.Equal(t, false, sent["disableOpenAPIValidation"])
	require.Equal(t, false, sent["skipCRDs"])
	charts := sent["charts"].([]interface{})
	require.Len(t, charts, 1)
	chart := charts[0].(map[string]interface{})
	require.Equal(t, "ollama", chart["chartName"])
	require.Equal(t, "1.16.0", chart["version"])
	require.Equal(t, "ollama", chart["releaseName"])
	require.Equal(t, map[string]interface{}{
		release.AnnotationSourceRepoType: "cluster",
		release.AnnotationSourceRepo:     "suse-ai-charts",
	}, chart["annotations"])
}

func TestClientDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Uninstall action", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusOK, "application/json", "{}")

		require.NoError(t, newTestClient(t, fake.server.URL).Delete(ctx, "suse-ai", "ollama"))

		req := fake.lastRequest(t)
		require.Equal(t, http.MethodPost, req.method)
		require.Equal(t, clusterPath+"/v1/catalog.cattle.io.apps/suse-ai/ollama", req.path)
		require.Equal(t, "action=uninstall", req.query)
		require.JSONEq(t, `{"timeout":"600s"}`, string(req.body))
	})

	t.Run("Missing app", func(t *testing.T) {
		fake := newFakeRancher(t, http.StatusNotFound, "application/json",
			statusBody(http.StatusNotFound, "NotFound", `apps.catalog.cattle.io \"ollama\" not found`))

		err := newTestClient(t, fake.server.URL).Delete(ctx, "suse-ai", "ollama")
		require.True(t, release.IsNotFound(err))
	})
}

func TestConfig(t *testing.T) {
	t.Run("URL or kubeconfig required", func(t *testing.T) {
		_, err := NewClient(Config{}, nil)
		require.Error(t, err)
	})

	t.Run("Invalid uninstall timeout", func(t *testing.T) {
		_, err := NewClient(Config{URL: "https://rancher.local", UninstallTimeout: "ten minutes"}, nil)
		require.Error(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		cfg := Config{URL: "https://rancher.local/", Token: token, Insecure: true}
		require.NoError(t, cfg.validate())
		require.Equal(t, defaultClusterID, cfg.ClusterID)
		require.Equal(t, defaultTimeout, cfg.Timeout)
		require.Equal(t, defaultUninstallTimeout, cfg.UninstallTimeout)

		restCfg, err := cfg.restConfig()
		require.NoError(t, err)
		require.Equal(t, "https://rancher.local/k8s/clusters/local", restCfg.Host)
		require.Equal(t, token, restCfg.BearerToken)
		require.True(t, restCfg.Insecure)
	})

	t.Run("Kubeconfig", func(t *testing.T) {
		kubeconfig := test.WriteFile(t, "kubeconfig.yaml", `apiVersion: v1
kind: Config
clusters:
- name: rancher
  cluster:
    server: https://rancher.local/k8s/clusters/c-m-4711
contexts:
- name: rancher
  context:
    cluster: rancher
    user: rancher
current-context: rancher
users:
- name: rancher
  user:
    token: kubeconfig-token
`)
		cfg := Config{Kubeconfig: kubeconfig}
		require.NoError(t, cfg.validate())
		restCfg, err := cfg.restConfig()
		require.NoError(t, err)
		require.Equal(t, "https://rancher.local/k8s/clusters/c-m-4711", restCfg.Host)
		require.Equal(t, "kubeconfig-token", restCfg.BearerToken)
	})
}
