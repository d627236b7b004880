package authRoutes

import (
	"bytes"
	"encoding/json"
	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, app *fiber.App, path string, body fiber.Map) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSignupAndLogin(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	SetupAuthRoutes(app)

	signup := fiber.Map{"name": "Asha Rao", "email": "Asha@Example.com", "password": "s3cret-pass"}
	code, body := post(t, app, "/auth/signup", signup)
	require.Equal(t, fiber.StatusCreated, code, body["message"])

	var perms []models.Permission
	require.NoError(t, db.Find(&perms).Error)
	assert.Len(t, perms, len(models.DefaultPermissions(models.RoleStudent)))

	code, _ = post(t, app, "/auth/signup", signup)
	assert.Equal(t, fiber.StatusConflict, code)

	code, body = post(t, app, "/auth/signup", fiber.Map{"name": "A", "email": "nope", "password": "short"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Len(t, body["data"], 3)

	code, _ = post(t, app, "/auth/login", fiber.Map{"email": "asha@example.com", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body = post(t, app, "/auth/login", fiber.Map{"email": "asha@example.com", "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, code, body["message"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}
