package security_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"sgsync/core/cluster"
	"sgsync/core/scheduler"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"
	"sgsync/feature/membership/mocks"
	"sgsync/feature/security"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, registry membership.Registry) (*fiber.App, *firewall.MemoryProvider) {
	identity := cluster.StaticIdentity{
		AppName: "cass_test", Region: "us-east", HostName: "10.0.0.1", HostIP: "1.2.3.4",
		StoragePort: 7000, SSLStoragePort: 7001,
	}
	provider := firewall.NewMemoryProvider(firewall.PortRange{From: 7000, To: 7001})
	r := security.NewReconciler(provider, registry, identity, zap.NewNop())
	svc := security.NewService(r, scheduler.NewOneShotTimer(security.TaskName).WithRunOnStop(), false, zap.NewNop())

	feature := security.NewFeature(svc)
	assert.Equal(t, "security", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, provider
}

func peers() []membership.Member {
	return []membership.Member{
		{InstanceID: "i-west", AppID: "cass_test", Region: "us-west", HostName: "10.0.0.2", HostIP: "5.6.7.8"},
	}
}

func TestHandleReconcile(t *testing.T) {
	store := new(mocks.Store)
	store.On("ListMembers", mock.Anything, "cass_test").Return(peers(), nil)
	app, provider := setupApp(t, store)

	t.Run("Dry run", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/security/reconcile?dry_run=true", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var run security.Run
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
		assert.True(t, run.DryRun)
		assert.Len(t, run.Plan.Actions, 3)

		ranges, _ := provider.List(context.Background(), firewall.PortRange{From: 7000, To: 7001})
		assert.Empty(t, ranges)
	})

	t.Run("Apply", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/security/reconcile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ranges, _ := provider.List(context.Background(), firewall.PortRange{From: 7000, To: 7001})
		assert.Equal(t, []string{"1.2.3.4/32", "10.0.0.1/32", "5.6.7.8/32"}, ranges)
	})

	t.Run("Status", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/security", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var st security.Status
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
		assert.Equal(t, security.TaskName, st.Task)
		assert.False(t, st.Seed)
		assert.Empty(t, st.Interval)
		assert.True(t, st.Bootstrapped)
		require.NotNil(t, st.LastRun)
		assert.Equal(t, 3, st.LastRun.Plan.Summary.AddActions)
	})
}

func TestHandleReconcile_Error(t *testing.T) {
	store := new(mocks.Store)
	store.On("ListMembers", mock.Anything, "cass_test").Return(nil, errors.New("registry down"))
	app, _ := setupApp(t, store)

	resp, err := app.Test(httptest.NewRequest("POST", "/security/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "registry down")
}
