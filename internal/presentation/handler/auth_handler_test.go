package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/employee-manager/internal/application/service"
	"github.com/employee-manager/internal/domain/entity"
	"github.com/employee-manager/internal/domain/repository"
	"github.com/employee-manager/internal/infrastructure/cache"
	"github.com/employee-manager/internal/presentation/handler"
	"github.com/employee-manager/internal/presentation/middleware"
	"github.com/employee-manager/internal/presentation/routes"
	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "handler-test-secret"

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return m.findBy(func(u *entity.User) bool { return u.ID == id })
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (m *memUserRepo) FindByResetOTP(ctx context.Context, otp string) (*entity.User, error) {
	return m.findBy(func(u *entity.User) bool { return u.ResetPasswordToken != "" && u.ResetPasswordToken == otp })
}

func (m *memUserRepo) FindByLinkToken(ctx context.Context, token string) (*entity.User, error) {
	return m.findBy(func(u *entity.User) bool { return u.Token != "" && u.Token == token })
}

func (m *memUserRepo) findBy(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memEmployeeRepo struct {
	mu        sync.Mutex
	employees map[primitive.ObjectID]*entity.Employee
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: map[primitive.ObjectID]*entity.Employee{}}
}

func (m *memEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employee.ID]; !ok {
		return repository.ErrNotFound
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployeeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *memEmployeeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee, ok := m.employees[id]; ok {
		return employee, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memEmployeeRepo) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, employee := range m.employees {
		if employee.Email == email {
			return employee, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memEmployeeRepo) FindAll(ctx context.Context) ([]*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*entity.Employee, 0, len(m.employees))
	for _, employee := range m.employees {
		all = append(all, employee)
	}
	return all, nil
}

func (m *memEmployeeRepo) List(ctx context.Context, q repository.ListQuery) (*repository.ListPage, error) {
	all, _ := m.FindAll(ctx)
	return &repository.ListPage{Data: all, TotalRecords: int64(len(all)), TotalPages: 1}, nil
}

type noopSender struct{}

func (noopSender) Send(to, subject, body string) error { return nil }

type fakeVerifier struct {
	email string
	err   error
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.email, nil
}

type testEnv struct {
	router   *gin.Engine
	userRepo *memUserRepo
	verifier *fakeVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newMemUserRepo()
	verifier := &fakeVerifier{}
	logg := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := service.NewAuthService(userRepo, noopSender{}, verifier, logg, testJWTSecret, "http://localhost:8080")
	employeeService := service.NewEmployeeService(newMemEmployeeRepo(), cache.NewNoopCache(), logg)

	router := gin.New()
	routes.SetupRoutes(router,
		handler.NewAuthHandler(authService, logg),
		handler.NewEmployeeHandler(employeeService, logg),
		middleware.AuthMiddleware(testJWTSecret))

	return &testEnv{router: router, userRepo: userRepo, verifier: verifier}
}

func (e *testEnv) post(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signupPayload(email string) map[string]string {
	return map[string]string{
		"name":     "A",
		"email":    email,
		"password": "p",
		"country":  "US",
	}
}

func TestSignupEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/signup", signupPayload("a@x.com"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	newUser, ok := body["newUser"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", newUser["email"])
	assert.NotEmpty(t, body["qrCodeUrl"])
	// Secrets never appear in the response.
	assert.NotContains(t, newUser, "password")
	assert.NotContains(t, newUser, "mfaSecret")
}

func TestSignupDuplicateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.post(t, "/signup", signupPayload("a@x.com")).Code)

	w := env.post(t, "/signup", signupPayload("a@x.com"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Email is already in use.", decodeBody(t, w)["error"])
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/signup", signupPayload("a@x.com"))

	w := env.post(t, "/login", map[string]string{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	// No session token on password login; that requires the MFA step.
	assert.NotContains(t, body, "jwtToken")

	w = env.post(t, "/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])
}

func TestMFAVerifyEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/signup", signupPayload("a@x.com"))

	user, err := env.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	code, err := totp.GenerateCode(user.MFASecret, time.Now())
	require.NoError(t, err)

	w := env.post(t, "/mfa-verify", map[string]string{"email": "a@x.com", "mfaToken": code})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Verification successful", body["message"])
	assert.NotEmpty(t, body["jwtToken"])

	w = env.post(t, "/mfa-verify", map[string]string{"email": "a@x.com", "mfaToken": "000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, w)["error"])
}

func TestResetPasswordEndpointUnknownOTP(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/reset-password", map[string]string{
		"otp":             "000000",
		"password":        "x",
		"confirmPassword": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid or expired OTP", decodeBody(t, w)["error"])
}

func TestForgotPasswordEndpointUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/forgot-password", map[string]string{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["error"])
}

func TestGoogleTokenEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.err = errors.New("signature mismatch")

	w := env.post(t, "/verify-google-token", map[string]string{"token": "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid token", body["error"])
	assert.NotContains(t, body, "jwtToken")

	w = env.post(t, "/verify-google-token", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please provide token", decodeBody(t, w)["error"])

	env.verifier.err = nil
	env.verifier.email = "federated@x.com"
	w = env.post(t, "/verify-google-token", map[string]string{"token": "valid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["jwtToken"])
}

func TestEmployeeRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A token from the MFA flow opens the employee routes.
	env.post(t, "/signup", signupPayload("a@x.com"))
	user, err := env.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	code, err := totp.GenerateCode(user.MFASecret, time.Now())
	require.NoError(t, err)
	verify := env.post(t, "/mfa-verify", map[string]string{"email": "a@x.com", "mfaToken": code})
	token := decodeBody(t, verify)["jwtToken"].(string)

	req = httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
