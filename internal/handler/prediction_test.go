package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirMaid/CloudCS-Lab1/internal/domain"
	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
	"github.com/KirMaid/CloudCS-Lab1/internal/model"
	"github.com/KirMaid/CloudCS-Lab1/internal/service"
	"github.com/KirMaid/CloudCS-Lab1/internal/testutil"
)

func newPredictionApp(provider model.Provider) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger, false)})
	app.Use(middleware.RequestID())

	svc := service.NewPredictionService(provider, "/models/penguins.json", logger)
	h := NewPredictionHandler(svc, logger)
	auth := middleware.BearerAuth(service.NewStaticTokenValidator(testutil.ReferenceToken), logger)

	app.Post("/predictions", auth, h.Predict)
	NewHealthHandler(BuildInfo{}).RegisterRoutes(app)
	return app
}

func doPredict(t *testing.T, app *fiber.App, token, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", "/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestPredictionHandler_Scenarios(t *testing.T) {
	app := newPredictionApp(testutil.StubProvider(domain.SpeciesAdelie))

	t.Run("valid token", func(t *testing.T) {
		status, body := doPredict(t, app, testutil.ReferenceToken, testutil.ScenarioABody)
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"species":"Adelie"}`, body)
	})

	t.Run("wrong token", func(t *testing.T) {
		status, body := doPredict(t, app, "kedjkj", testutil.ScenarioABody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.JSONEq(t, `{"detail":"Invalid authentication credentials"}`, body)
	})

	t.Run("no token", func(t *testing.T) {
		status, body := doPredict(t, app, "", testutil.ScenarioABody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.JSONEq(t, `{"detail":"Not authenticated"}`, body)
	})

	t.Run("repeated requests", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			status, body := doPredict(t, app, testutil.ReferenceToken, testutil.ScenarioABody)
			assert.Equal(t, fiber.StatusOK, status)
			assert.JSONEq(t, `{"species":"Adelie"}`, body)
		}
	})
}

func TestPredictionHandler_AuthPrecedesValidation(t *testing.T) {
	app := newPredictionApp(testutil.StubProvider(domain.SpeciesAdelie))

	for _, body := range []string{"", "{", `{"sex":"male"}`, "[]"} {
		status, resp := doPredict(t, app, "kedjkj", body)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.JSONEq(t, `{"detail":"Invalid authentication credentials"}`, resp)

		status, resp = doPredict(t, app, "", body)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.JSONEq(t, `{"detail":"Not authenticated"}`, resp)
	}
}

func TestPredictionHandler_ValidationErrors(t *testing.T) {
	provider := new(testutil.MockProvider)
	app := newPredictionApp(provider)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing field",
			body: `{"culmen_length_mm":36.7,"culmen_depth_mm":19.3,"flipper_length_mm":193.0,` +
				`"body_mass_g":3450.0,"island_Biscoe":0,"island_Dream":0,"island_Torgersen":1}`,
			want: `{"detail":[{"loc":["body","sex"],"msg":"field required","type":"value_error.missing"}]}`,
		},
		{
			name: "string for float",
			body: `{"culmen_length_mm":"long","culmen_depth_mm":19.3,"flipper_length_mm":193.0,` +
				`"body_mass_g":3450.0,"sex":1,"island_Biscoe":0,"island_Dream":0,"island_Torgersen":1}`,
			want: `{"detail":[{"loc":["body","culmen_length_mm"],"msg":"value is not a valid float","type":"type_error.float"}]}`,
		},
		{
			name: "fractional float for int",
			body: `{"culmen_length_mm":36.7,"culmen_depth_mm":19.3,"flipper_length_mm":193.0,` +
				`"body_mass_g":3450.0,"sex":0.5,"island_Biscoe":0,"island_Dream":0,"island_Torgersen":1}`,
			want: `{"detail":[{"loc":["body","sex"],"msg":"value is not a valid integer","type":"type_error.integer"}]}`,
		},
		{
			name: "malformed json",
			body: `{"culmen_length_mm":`,
			want: `{"detail":[{"loc":["body"],"msg":"invalid JSON body","type":"value_error.jsondecode"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doPredict(t, app, testutil.ReferenceToken, tt.body)
			assert.Equal(t, fiber.StatusUnprocessableEntity, status)
			assert.JSONEq(t, tt.want, body)
		})
	}

	provider.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestPredictionHandler_ModelFailure(t *testing.T) {
	provider := new(testutil.MockProvider)
	provider.On("Load", mock.Anything, "/models/penguins.json").Return(nil, errors.New("no such file"))
	app := newPredictionApp(provider)

	status, body := doPredict(t, app, testutil.ReferenceToken, testutil.ScenarioABody)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, body)
	assert.NotContains(t, body, "no such file")
}

func TestPredictionHandler_TreeModel(t *testing.T) {
	path := testutil.WriteTree(t, t.TempDir(), "penguins.json", testutil.NewPenguinTree())
	logger := zap.NewNop()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger, false)})
	svc := service.NewPredictionService(model.NewTreeProvider(model.Sources{}, logger), path, logger)
	app.Post("/predictions", NewPredictionHandler(svc, logger).Predict)

	gentoo := `{"culmen_length_mm":47.5,"culmen_depth_mm":15.0,"flipper_length_mm":218.0,` +
		`"body_mass_g":4950.0,"sex":0,"island_Biscoe":1,"island_Dream":0,"island_Torgersen":0}`

	status, body := doPredict(t, app, "", testutil.ScenarioABody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"species":"Adelie"}`, body)

	status, body = doPredict(t, app, "", gentoo)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"species":"Gentoo"}`, body)
}

func TestHealthcheck_IgnoresModelState(t *testing.T) {
	provider := new(testutil.MockProvider)
	provider.On("Load", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))
	app := newPredictionApp(provider)

	resp, err := app.Test(httptest.NewRequest("GET", "/healthcheck", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	provider.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestPredictionHandler_CoercesNumericStrings(t *testing.T) {
	app := newPredictionApp(testutil.StubProvider(domain.SpeciesAdelie))

	body := `{"culmen_length_mm":"36.7","culmen_depth_mm":19.3,"flipper_length_mm":193.0,` +
		`"body_mass_g":3450.0,"sex":1.0,"island_Biscoe":"0","island_Dream":0,"island_Torgersen":1}`

	status, got := doPredict(t, app, testutil.ReferenceToken, body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"species":"Adelie"}`, got)
}

func TestPredictionHandler_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger, false)})
	svc := service.NewPredictionService(testutil.StubProvider(domain.SpeciesGentoo), "/models/penguins.json", logger)
	auth := middleware.BearerAuth(service.NewStaticTokenValidator(testutil.ReferenceToken), logger)
	app.Post("/predictions", auth, NewPredictionHandler(svc, logger).Predict)

	status, _ := doPredict(t, app, testutil.ReferenceToken, testutil.ScenarioABody)
	require.Equal(t, fiber.StatusOK, status)

	served := logs.FilterMessage("prediction served").All()
	require.Len(t, served, 1)
	fields := served[0].ContextMap()
	assert.Equal(t, "static", fields["auth_type"])
	assert.Equal(t, domain.SpeciesGentoo, fields["species"])

	status, _ = doPredict(t, app, testutil.ReferenceToken, `{"sex":1}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, 1, logs.FilterMessage("prediction request rejected").Len())
}
