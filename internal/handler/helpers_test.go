package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusgrid/studentportal/internal/bootstrap"
	"github.com/campusgrid/studentportal/internal/middleware"
	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/repository"
	"github.com/campusgrid/studentportal/internal/service"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fixture wires the real services over in-memory sqlite and a temp upload
// root, with the same route table the server uses.
type fixture struct {
	router *gin.Engine
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tokens := token.NewService("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, tokens)
	authHandler := NewAuthHandler(authService, tokens)

	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, fileStorage)
	studentHandler := NewStudentHandler(studentService)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	router := gin.New()
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	protected.GET("/auth/verify", authHandler.Verify)
	protected.POST("/auth/refresh", authHandler.Refresh)
	protected.GET("/students", studentHandler.GetStudents)
	protected.GET("/students/files/*filepath", studentHandler.DownloadFile)
	protected.GET("/students/:id", studentHandler.GetStudentByID)

	faculty := protected.Group("")
	faculty.Use(authMiddleware.RequireRole(model.RoleFaculty))
	faculty.POST("/students", studentHandler.CreateStudent)
	faculty.PUT("/students/:id", studentHandler.UpdateStudent)
	faculty.DELETE("/students/:id", studentHandler.DeleteStudent)

	return &fixture{router: router, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(t *testing.T, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return f.do(t, method, path, bearer, bytes.NewReader(data), "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// register creates a user through the API and returns its access token.
func (f *fixture) register(t *testing.T, email string, role model.Role) string {
	t.Helper()

	w := f.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
		"role":             string(role),
		"name":             "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode(t, w)["access_token"].(string)
}

type filePart struct {
	field    string
	fileName string
	content  string
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, fp := range files {
		part, err := mw.CreateFormFile(fp.field, fp.fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fp.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}
