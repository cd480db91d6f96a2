package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"criticizeit/internal/handlers"
	"criticizeit/internal/middleware"
	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
	"criticizeit/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp wires the full route surface against an in-memory SQLite database,
// mirroring the composition in main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	v := viper.New()
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.AutomaticEnv()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Service{}, &models.Review{}, &models.User{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	serviceRepo := repositories.NewGORMServiceRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	authService := services.NewAuthService(v.GetString("JWT_SECRET"))
	catalogService := services.NewCatalogService(serviceRepo)
	reviewService := services.NewReviewService(reviewRepo, nil) // no broker in tests
	userService := services.NewUserService(userRepo)

	authHandler := handlers.NewAuthHandler(authService, false)
	serviceHandler := handlers.NewServiceHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()

	auth := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(app)
	serviceHandler.RegisterRoutes(app, auth)
	reviewHandler.RegisterRoutes(app, auth)
	userHandler.RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CriticizeIt server is running")
	})

	return app
}

// login issues a session via POST /jwt and returns the token cookie value.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	jsonBody, _ := json.Marshal(map[string]string{"email": email})
	req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			assert.True(t, cookie.HttpOnly, "session cookie must be HTTP-only")
			assert.NotEmpty(t, cookie.Value)
			return cookie.Value
		}
	}
	t.Fatal("no token cookie set on login")
	return ""
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) *http.Response {
	t.Helper()
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		withToken(req, token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func TestLiveness(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSessionLifecycle(t *testing.T) {
	app := setupApp(t)

	// Missing email is a validation failure.
	resp := postJSON(t, app, "/jwt", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "a@x.com")

	// Logout clears the cookie immediately.
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cleared bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			cleared = true
			assert.Empty(t, cookie.Value)
			assert.LessOrEqual(t, cookie.MaxAge, 0)
		}
	}
	assert.True(t, cleared, "logout must clear the token cookie")
	resp.Body.Close()

	// A protected route without the cookie is unauthorized.
	req = httptest.NewRequest(http.MethodGet, "/myServices/a@x.com", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A garbage cookie is unauthorized too.
	req = withToken(httptest.NewRequest(http.MethodGet, "/myServices/a@x.com", nil), "not.a.token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The valid token still works.
	req = withToken(httptest.NewRequest(http.MethodGet, "/myServices/a@x.com", nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestOwnerScopedRoutes(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	// Own resources are readable.
	req := withToken(httptest.NewRequest(http.MethodGet, "/myServices/a@x.com", nil), token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Varying the URL to another user's email is unauthorized even with a
	// valid token, with the same message as a missing token.
	req = withToken(httptest.NewRequest(http.MethodGet, "/myServices/b@x.com", nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unauthorized access", body["message"])
	resp.Body.Close()

	req = withToken(httptest.NewRequest(http.MethodGet, "/myReviews/b@x.com", nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestServiceEndpoints(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	// Mutations require auth.
	resp := postJSON(t, app, "/add-service", "", map[string]interface{}{
		"title": "Web Design", "category": "IT", "owner_email": "a@x.com",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Create and fetch round trip.
	resp = postJSON(t, app, "/add-service", token, map[string]interface{}{
		"title":       "Web Design",
		"category":    "IT",
		"description": "Responsive sites",
		"price":       150.0,
		"owner_email": "a@x.com",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Service
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/serviceDetails/"+created.ID, nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Service
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Web Design", fetched.Title)
	assert.Equal(t, "IT", fetched.Category)
	assert.Equal(t, 150.0, fetched.Price)
	assert.Equal(t, "a@x.com", fetched.OwnerEmail)
	resp.Body.Close()

	// Unknown ids are an explicit 404.
	req = httptest.NewRequest(http.MethodGet, "/serviceDetails/missing-id", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Validation failures are a 400.
	resp = postJSON(t, app, "/add-service", token, map[string]interface{}{
		"title": "x", "category": "IT", "owner_email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Delete requires auth, then the document is gone.
	req = httptest.NewRequest(http.MethodDelete, "/service/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = withToken(httptest.NewRequest(http.MethodDelete, "/service/"+created.ID, nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = withToken(httptest.NewRequest(http.MethodDelete, "/service/"+created.ID, nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestServiceListingFilters(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	seed := []map[string]interface{}{
		{"title": "Web Design", "category": "IT", "owner_email": "a@x.com"},
		{"title": "Logo Design", "category": "Design", "owner_email": "a@x.com"},
		{"title": "Plumbing", "category": "Home", "owner_email": "b@x.com"},
	}
	for _, doc := range seed {
		resp := postJSON(t, app, "/add-service", token, doc)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	listServices := func(path string) []models.Service {
		req := withToken(httptest.NewRequest(http.MethodGet, path, nil), token)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var results []models.Service
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
		resp.Body.Close()
		return results
	}

	assert.Len(t, listServices("/all-services"), 3)
	assert.Len(t, listServices("/all-services?search=DESIGN"), 2)
	assert.Len(t, listServices("/all-services?filter=IT"), 1)
	assert.Len(t, listServices("/all-services?search=design&filter=Design"), 1)
	assert.Len(t, listServices("/all-services?search=design&filter=Home"), 0)

	// Owner-scoped listing conjoins the owner email with the search.
	assert.Len(t, listServices("/myServices/a@x.com"), 2)
	assert.Len(t, listServices("/myServices/a@x.com?search=logo"), 1)
	assert.Len(t, listServices("/myServices/a@x.com?search=plumbing"), 0)
}

func TestFeaturedServicesCap(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	for i := 0; i < 8; i++ {
		resp := postJSON(t, app, "/add-service", token, map[string]interface{}{
			"title":       fmt.Sprintf("Service %02d", i),
			"category":    "IT",
			"owner_email": "a@x.com",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var featured []models.Service
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&featured))
	assert.LessOrEqual(t, len(featured), 6)
	resp.Body.Close()
}

func TestServiceUpsert(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	// Updating a nonexistent id creates the document.
	body, _ := json.Marshal(map[string]interface{}{
		"title": "Created By Upsert", "category": "IT", "owner_email": "a@x.com",
	})
	req := withToken(httptest.NewRequest(http.MethodPut, "/update-service/svc-777", bytes.NewReader(body)), token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var upsertResp struct {
		Created bool           `json:"created"`
		Service models.Service `json:"service"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&upsertResp))
	assert.True(t, upsertResp.Created)
	assert.Equal(t, "svc-777", upsertResp.Service.ID)
	resp.Body.Close()

	// Updating an existing id overwrites supplied fields and preserves the rest.
	body, _ = json.Marshal(map[string]interface{}{"title": "Renamed"})
	req = withToken(httptest.NewRequest(http.MethodPut, "/update-service/svc-777", bytes.NewReader(body)), token)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&upsertResp))
	assert.False(t, upsertResp.Created)
	assert.Equal(t, "Renamed", upsertResp.Service.Title)
	assert.Equal(t, "IT", upsertResp.Service.Category)
	assert.Equal(t, "a@x.com", upsertResp.Service.OwnerEmail)
	resp.Body.Close()
}

func TestReviewEndpoints(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "a@x.com")

	// Mutations require auth.
	resp := postJSON(t, app, "/add-review", "", map[string]interface{}{
		"service_id": "svc-1", "owner_email": "a@x.com", "rating": 4.0,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/add-review", token, map[string]interface{}{
		"service_id":  "svc-1",
		"owner_email": "a@x.com",
		"rating":      4.5,
		"comment":     "Great service",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Review
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	resp.Body.Close()

	// Reviews for a service are public.
	req := httptest.NewRequest(http.MethodGet, "/reviews/svc-1", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var forService []models.Review
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&forService))
	assert.Len(t, forService, 1)
	assert.Equal(t, "Great service", forService[0].Comment)
	resp.Body.Close()

	// Own reviews are owner-scoped.
	req = withToken(httptest.NewRequest(http.MethodGet, "/myReviews/a@x.com", nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []models.Review
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&mine))
	assert.Len(t, mine, 1)
	resp.Body.Close()

	// Edit via upsert.
	body, _ := json.Marshal(map[string]interface{}{"rating": 5.0, "comment": "Even better"})
	req = withToken(httptest.NewRequest(http.MethodPut, "/update-review/"+created.ID, bytes.NewReader(body)), token)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var upsertResp struct {
		Created bool          `json:"created"`
		Review  models.Review `json:"review"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&upsertResp))
	assert.False(t, upsertResp.Created)
	assert.Equal(t, 5.0, upsertResp.Review.Rating)
	assert.Equal(t, "svc-1", upsertResp.Review.ServiceID)
	resp.Body.Close()

	// Delete, then the listing is empty.
	req = withToken(httptest.NewRequest(http.MethodDelete, "/review/"+created.ID, nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/reviews/svc-1", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&forService))
	assert.Len(t, forService, 0)
	resp.Body.Close()

	req = withToken(httptest.NewRequest(http.MethodDelete, "/review/"+created.ID, nil), token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUserEndpoints(t *testing.T) {
	app := setupApp(t)

	resp := postJSON(t, app, "/users", "", map[string]interface{}{
		"email": "a@x.com",
		"name":  "Alice",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
	resp.Body.Close()

	resp = postJSON(t, app, "/users", "", map[string]interface{}{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
