package router_test

import (
	"VideoForge/internal/config"
	"VideoForge/internal/data"
	"VideoForge/internal/handler"
	"VideoForge/internal/repository"
	"VideoForge/internal/router"
	"VideoForge/internal/service"
	"VideoForge/internal/testutil"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-test-secret"

type app struct {
	engine *gin.Engine
	users  service.UserService
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	videoRepo := repository.NewVideoRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	cache := repository.NewReportCache(nil)
	uow := data.NewUnitOfWork(db, videoRepo, ratingRepo)

	users := service.NewUserService(repository.NewUserRepository(db), secret)
	videos := service.NewVideoService(videoRepo, uow, cache, nil, service.Channels{})
	cfg := &config.Config{Automation: config.Automation{GithubToken: "ghp_secret"}}

	engine := router.SetupRouter(secret, router.Handlers{
		User:    handler.NewUserHandler(users),
		Video:   handler.NewVideoHandler(videos),
		Comment: handler.NewCommentHandler(service.NewCommentService(repository.NewCommentRepository(db), videoRepo)),
		Rating:  handler.NewRatingHandler(service.NewRatingService(ratingRepo, cache)),
		Report:  handler.NewReportHandler(service.NewReportService(videoRepo, ratingRepo, cache, 0, 0)),
		Admin:   handler.NewAdminHandler(cfg),
	})
	return &app{engine: engine, users: users}
}

func (a *app) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (a *app) login(t *testing.T, username, password string) string {
	t.Helper()
	code, _ := a.do(t, http.MethodPost, "/api/v1/users/register", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, code)
	code, body := a.do(t, http.MethodPost, "/api/v1/users/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, code)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (a *app) adminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, a.users.EnsureAdmin(context.Background(), "admin", "adminpass"))
	token, err := a.users.Login(context.Background(), "admin", "adminpass")
	require.NoError(t, err)
	return token
}

func TestPing(t *testing.T) {
	a := newApp(t)
	code, body := a.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pang", body["message"])
}

func TestSubmitAndList(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "maya", "password1")

	code, _ := a.do(t, http.MethodPost, "/api/v1/videos", "", gin.H{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.do(t, http.MethodPost, "/api/v1/videos", token, gin.H{
		"title": "Harbour", "description": "boats", "storage_link": "https://drive.example.com/h",
	})
	require.Equal(t, http.StatusCreated, code)
	video := body["data"].(map[string]interface{})
	assert.Equal(t, "maya", video["maker"])
	assert.Equal(t, "submitted", video["status"])
	assert.Equal(t, "Submitted", video["status_display"])
	assert.Nil(t, video["editor"])

	code, body = a.do(t, http.MethodPost, "/api/v1/videos", token, gin.H{
		"title": "Bad", "description": "d", "storage_link": "ftp:/nope",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "storage_link")

	code, body = a.do(t, http.MethodGet, "/api/v1/videos?page=1&per_page=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, page["total"])
	assert.Len(t, page["items"], 1)

	code, _ = a.do(t, http.MethodGet, "/api/v1/videos/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(t, http.MethodGet, "/api/v1/videos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRatingEndpoints(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "rater", "password1")

	code, _ := a.do(t, http.MethodPut, "/api/v1/editors/ed-1/rating", token, gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPut, "/api/v1/editors/ed-1/rating", token, gin.H{"rating": 4})
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodPut, "/api/v1/editors/ed-1/rating", token, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, code)

	code, body := a.do(t, http.MethodGet, "/api/v1/editors/ed-1/rating", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, body["data"].(map[string]interface{})["rating"])

	code, body = a.do(t, http.MethodGet, "/api/v1/editors/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "ed-1", first["editor_id"])
	assert.EqualValues(t, 5, first["avg_rating"])
	assert.EqualValues(t, 1, first["total_ratings"])
}

func TestCommentsAndLeaderboard(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "erin", "password1")
	_, body := a.do(t, http.MethodPost, "/api/v1/videos", token, gin.H{
		"title": "t", "description": "d", "storage_link": "https://x.io/v",
	})
	id := body["data"].(map[string]interface{})["id"].(float64)
	path := "/api/v1/videos/" + jsonNumber(id) + "/comments"

	code, _ := a.do(t, http.MethodPost, path, token, gin.H{"content": "great"})
	require.Equal(t, http.StatusCreated, code)
	code, body = a.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, code)
	comments := body["data"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "erin", comments[0].(map[string]interface{})["author"].(map[string]interface{})["username"])

	code, _ = a.do(t, http.MethodPost, "/api/v1/videos/999/comments", token, gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = a.do(t, http.MethodGet, "/api/v1/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, code)
	board := body["data"].([]interface{})
	require.Len(t, board, 1)
	assert.EqualValues(t, 1, board[0].(map[string]interface{})["rank"])
}

func TestAnalyticsRequiresLogin(t *testing.T) {
	a := newApp(t)
	code, _ := a.do(t, http.MethodGet, "/api/v1/analytics/monthly", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token := a.login(t, "viewer", "password1")
	code, body := a.do(t, http.MethodGet, "/api/v1/analytics/status", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["data"])
}

func TestAdminRoutes(t *testing.T) {
	a := newApp(t)
	userToken := a.login(t, "plain", "password1")
	_, body := a.do(t, http.MethodPost, "/api/v1/videos", userToken, gin.H{
		"title": "t", "description": "d", "storage_link": "https://x.io/v",
	})
	id := jsonNumber(body["data"].(map[string]interface{})["id"].(float64))

	code, _ := a.do(t, http.MethodDelete, "/api/v1/videos/"+id, userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	admin := a.adminToken(t)
	code, body = a.do(t, http.MethodGet, "/api/v1/config", admin, nil)
	require.Equal(t, http.StatusOK, code)
	values := body["data"].(map[string]interface{})["values"].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", values["github_token"])

	code, _ = a.do(t, http.MethodPost, "/api/v1/videos/"+id+"/publish", admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = a.do(t, http.MethodDelete, "/api/v1/videos/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodDelete, "/api/v1/videos/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoginErrors(t *testing.T) {
	a := newApp(t)
	a.login(t, "zoe", "password1")

	code, _ := a.do(t, http.MethodPost, "/api/v1/users/register", "", gin.H{"username": "zoe", "password": "password2"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = a.do(t, http.MethodPost, "/api/v1/users/login", "", gin.H{"username": "zoe", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(t, http.MethodGet, "/api/v1/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(uint64(f))
	return string(b)
}
