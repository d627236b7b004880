package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"learnhub/config"
	authController "learnhub/controllers/auth"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func setup(t *testing.T) (admin, student client) {
	config.AppConfig = &config.Config{
		JWTKey:                 "test-secret",
		SaltRound:              4,
		CertificateBaseURL:     "https://learnhub.test/certificates",
		DefaultWatchPercentage: 80,
		DefaultPassingScore:    70,
		MaxPlaybackRate:        2,
	}
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}
	services.Init(db, nil)

	app := fiber.New()
	SetupCourseRoutes(app)
	SetupAdminCourseRoutes(app)

	user := func(name, role string) client {
		u := models.User{Name: name, Email: name + "@learnhub.test", Role: role, Password: "x"}
		require.NoError(t, db.Create(&u).Error)
		require.NoError(t, authController.SeedPermissions(db, role, u.ID))
		token, err := middleware.GenerateJWT(u.ID, u.Name, u.Role, u.Email)
		require.NoError(t, err)
		return client{t: t, app: app, token: token}
	}
	return user("admin", models.RoleAdmin), user("student", models.RoleStudent)
}

type idOnly struct {
	ID uint `json:"ID"`
}

// publishedCourse authors a published course with one article session.
func publishedCourse(t *testing.T, admin client, price float64) (courseID, sessionID uint) {
	code, env := admin.do("POST", "/admin/course/create", fiber.Map{"title": "Go in Practice", "price": price})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	courseID = decode[idOnly](t, env).ID

	code, env = admin.do("POST", fmt.Sprintf("/admin/course/%d/module", courseID), fiber.Map{"title": "Basics"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	moduleID := decode[idOnly](t, env).ID

	code, env = admin.do("POST", fmt.Sprintf("/admin/module/%d/session", moduleID), fiber.Map{
		"title":        "Read me",
		"session_type": "ARTICLE",
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	sessionID = decode[idOnly](t, env).ID

	code, env = admin.do("POST", fmt.Sprintf("/admin/course/%d/publish", courseID), fiber.Map{"publish": true})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	return courseID, sessionID
}

func TestFreeCourseToVerifiedCertificate(t *testing.T) {
	admin, student := setup(t)
	courseID, sessionID := publishedCourse(t, admin, 0)

	code, env := student.do("POST", fmt.Sprintf("/course/%d/enroll", courseID), nil)
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	assert.Equal(t, "ACTIVE", decode[struct {
		Status string `json:"status"`
	}](t, env).Status)

	code, env = student.do("POST", fmt.Sprintf("/course/%d/session/%d/complete", courseID, sessionID), fiber.Map{"acknowledged": true})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	result := decode[struct {
		Percentage      int  `json:"percentage"`
		CourseCompleted bool `json:"course_completed"`
	}](t, env)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.CourseCompleted)

	code, env = student.do("GET", fmt.Sprintf("/course/%d/certificate", courseID), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	number := decode[struct {
		Number string `json:"certificate_number"`
	}](t, env).Number
	require.NotEmpty(t, number)

	public := client{t: t, app: student.app}
	code, env = public.do("GET", "/certificates/verify/"+number, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	verified := decode[struct {
		StudentName string `json:"student_name"`
		CourseTitle string `json:"course_title"`
	}](t, env)
	assert.Equal(t, "student", verified.StudentName)
	assert.Equal(t, "Go in Practice", verified.CourseTitle)

	code, _ = public.do("GET", "/certificates/verify/CERT-000000-0000000000", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestPaidCourseNeedsReview(t *testing.T) {
	admin, student := setup(t)
	courseID, _ := publishedCourse(t, admin, 499)

	code, env := student.do("POST", fmt.Sprintf("/course/%d/enroll", courseID), fiber.Map{"evidence_ref": "/uploads/evidence/shot.png"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	enrollment := decode[struct {
		ID     uint   `json:"ID"`
		Status string `json:"status"`
	}](t, env)
	assert.Equal(t, "UNDER_REVIEW", enrollment.Status)

	code, env = student.do("GET", fmt.Sprintf("/course/%d/sessions", courseID), nil)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "access denied", decode[map[string]string](t, env)["code"])

	code, _ = student.do("POST", fmt.Sprintf("/course/%d/enroll", courseID), nil)
	assert.Equal(t, fiber.StatusConflict, code)

	// students hold no review permission
	code, _ = student.do("POST", fmt.Sprintf("/admin/enrollment/%d/review", enrollment.ID), fiber.Map{"decision": "APPROVE"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env = admin.do("POST", fmt.Sprintf("/admin/enrollment/%d/review", enrollment.ID), fiber.Map{"decision": "REJECT"})
	assert.Equal(t, fiber.StatusBadRequest, code, env.Message)

	code, env = admin.do("POST", fmt.Sprintf("/admin/enrollment/%d/review", enrollment.ID), fiber.Map{"decision": "APPROVE"})
	require.Equal(t, fiber.StatusOK, code, env.Message)

	code, env = student.do("GET", fmt.Sprintf("/course/%d/sessions", courseID), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	sessions := decode[[]struct {
		Unlocked bool `json:"unlocked"`
	}](t, env)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Unlocked)

	code, env = admin.do("GET", fmt.Sprintf("/admin/enrollment/%d/audit", enrollment.ID), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Len(t, decode[[]json.RawMessage](t, env), 4)
}

func TestRequestValidation(t *testing.T) {
	admin, student := setup(t)

	code, env := student.do("POST", "/course/abc/enroll", nil)
	assert.Equal(t, fiber.StatusBadRequest, code, env.Message)

	code, _ = student.do("POST", "/course/999/enroll", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, env = admin.do("POST", "/admin/course/create", fiber.Map{"title": "Go"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, decode[map[string]string](t, env), "title")

	code, _ = client{t: t, app: student.app}.do("GET", "/user/enrollments", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
