package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"page-store/feature/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp() (*fiber.App, *mockLister) {
	app := fiber.New()
	lister := new(mockLister)
	feature := NewFeature(lister, zap.NewNop())
	_ = feature.Load(app)
	return app, lister
}

func TestHandleDocumentCheck(t *testing.T) {
	app, lister := setupTestApp()
	lister.On("List", mock.Anything, pages.Prefix(testSession, "report.pdf"), MaxPages).Return([]string{
		pages.Key(testSession, "report.pdf", 1),
		pages.Key(testSession, "report.pdf", 3),
	}, nil)

	req := httptest.NewRequest("GET", "/integrity/"+testSession.String()+"/report.pdf", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Status   string `json:"status"`
		Complete bool   `json:"complete"`
		Report   Report `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "incomplete", body.Status)
	assert.False(t, body.Complete)
	assert.Equal(t, []int{2}, body.Report.Missing)
}

func TestHandleDocumentCheck_InvalidSession(t *testing.T) {
	app, lister := setupTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/not-a-uuid/report.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	lister.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleDocumentCheck_ListFailure(t *testing.T) {
	app, lister := setupTestApp()
	lister.On("List", mock.Anything, mock.Anything, MaxPages).Return(nil, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/"+testSession.String()+"/report.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
}
