package indexer

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"media-manager/core/notify"
	"media-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, root string) (*fiber.App, *mocks.Client) {
	t.Helper()
	client := new(mocks.Client)
	svc := NewService(setupDB(t), "", client, "media", root, notify.NewHub(), zap.NewNop())
	require.NoError(t, svc.Migrate())

	app := fiber.New()
	feature := NewFeature(svc)
	assert.Equal(t, "indexer", feature.Name())
	assert.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, client
}

func TestHandleScanDir(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		app, _ := setupTestApp(t, "")
		resp, err := app.Test(httptest.NewRequest("POST", "/index/scan/dir", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Scans", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root+"/a.jpg", 3)
		app, _ := setupTestApp(t, root)

		resp, err := app.Test(httptest.NewRequest("POST", "/index/scan/dir", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var report ScanReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, 1, report.Added)
	})
}

func TestHandleScanBucket_Failure(t *testing.T) {
	app, client := setupTestApp(t, "")
	client.On("BucketExists", mock.Anything, "media").Return(false, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/index/scan?prefix=DCIM/", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/index/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "files", body["table"])
}
