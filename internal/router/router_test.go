package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdminPassword = "admin-secret"

type testServer struct {
	engine    *gin.Engine
	container *provider.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, models.EnsureAdmin(db, "admin@elwarcha.ma", testAdminPassword))

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "release", SiteURL: "https://elwarcha.ma"},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		JWT:      config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1, Issuer: "elwarcha-test"},
		Cart:     config.CartConfig{CookieName: "guest_cart_v1", CookieMaxAge: 3600},
		Catalog:  config.CatalogConfig{PageSize: 10},
		Metrics:  config.MetricsConfig{Enabled: true, Namespace: "gallery_test"},
	}
	c, err := provider.NewContainerWithDB(cfg, db)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return &testServer{engine: SetupRouter(cfg, c), container: c}
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func (s *testServer) do(t *testing.T, req request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.body))
	}
	httpReq := httptest.NewRequest(req.method, req.path, &body)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, cookie := range req.cookies {
		httpReq.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httpReq)
	return w, decodeEnvelope(t, w)
}

// payload returns the data object of a successful reply.
func payload(t *testing.T, resp envelope) map[string]interface{} {
	t.Helper()
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	return resp.object(t)
}

func (s *testServer) seedPainting(t *testing.T, title string, price int64) *models.Painting {
	t.Helper()
	painting := &models.Painting{
		Title:       title,
		Kind:        constants.PaintingKindRecreatable,
		PriceMAD:    price,
		WidthCm:     50,
		HeightCm:    70,
		Orientation: constants.OrientationPortrait,
		Available:   true,
	}
	require.NoError(t, s.container.DB.Create(painting).Error)
	return painting
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	_, resp := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": email, "password": password}})
	token, _ := payload(t, resp)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, request{method: http.MethodGet, path: "/health"})
	assert.Equal(t, "ok", payload(t, resp)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/nothing"})
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", resp.object(t)["error"])
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	painting := s.seedPainting(t, "Atlas", 1200)
	s.seedPainting(t, "Médina", 3000)

	_, resp := s.do(t, request{method: http.MethodGet, path: "/api/v1/paintings?minPrice=2000"})
	page := payload(t, resp)
	assert.Equal(t, true, page["filters_applied"])
	assert.EqualValues(t, 1, page["total"])

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/paintings?minPrice=abc"})
	page = payload(t, resp)
	assert.Equal(t, false, page["filters_applied"])
	assert.EqualValues(t, 2, page["total"])

	_, resp = s.do(t, request{method: http.MethodGet, path: fmt.Sprintf("/api/v1/paintings/%d", painting.ID)})
	assert.Equal(t, "Atlas", payload(t, resp)["title"])

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/paintings/999"})
	assert.Equal(t, 404, resp.StatusCode)

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/facets"})
	assert.Contains(t, payload(t, resp), "artists")
}

func TestGuestCartMergesOnRegisterAndCheckout(t *testing.T) {
	s := newTestServer(t)
	painting := s.seedPainting(t, "Atlas", 1200)

	w, resp := s.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"painting_id": painting.ID, "quantity": 2}})
	assert.EqualValues(t, 2, payload(t, resp)["count"])
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/cart/count", cookies: cookies})
	assert.EqualValues(t, 2, payload(t, resp)["count"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/orders", body: gin.H{}, cookies: cookies})
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "AUTH_REQUIRED", resp.object(t)["error"])

	_, resp = s.do(t, request{
		method:  http.MethodPost,
		path:    "/api/v1/auth/register",
		body:    gin.H{"name": "Amina", "email": "amina@example.com", "password": "secret1"},
		cookies: cookies,
	})
	token, _ := payload(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/cart", token: token})
	cart := payload(t, resp)
	assert.EqualValues(t, 2400, cart["subtotal_mad"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: token, body: gin.H{"email": "bad"}})
	assert.Equal(t, 422, resp.StatusCode)
	fields, ok := resp.object(t)["field_errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "postalCode")

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: token, body: gin.H{
		"fullName":   "Amina Benali",
		"email":      "amina@example.com",
		"phone":      "0612345678",
		"address":    "12 rue des Arts",
		"city":       "Casablanca",
		"postalCode": "20000",
	}})
	placed := payload(t, resp)
	assert.EqualValues(t, 2400, placed["total_mad"])
	assert.NotEmpty(t, placed["reference"])

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/cart/count", token: token})
	assert.EqualValues(t, 0, payload(t, resp)["count"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: token, body: gin.H{
		"fullName": "Amina Benali", "email": "amina@example.com", "phone": "0612345678",
		"address": "12 rue des Arts", "city": "Casablanca", "postalCode": "20000",
	}})
	assert.Equal(t, "EMPTY_CART", resp.object(t)["error"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	painting := s.seedPainting(t, "Atlas", 1000)

	_, resp := s.do(t, request{method: http.MethodGet, path: "/api/v1/admin/orders"})
	assert.Equal(t, 401, resp.StatusCode)

	_, resp = s.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   gin.H{"name": "Karim", "email": "karim@example.com", "password": "secret1"},
	})
	customer, _ := payload(t, resp)["token"].(string)

	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/admin/orders", token: customer})
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", resp.object(t)["error"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", token: customer, body: gin.H{"painting_id": painting.ID}})
	payload(t, resp)
	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: customer, body: gin.H{
		"fullName": "Karim Alaoui", "email": "karim@example.com", "phone": "0612345678",
		"address": "4 avenue Hassan II", "city": "Rabat", "postalCode": "10000",
	}})
	orderID := payload(t, resp)["order_id"]

	admin := s.login(t, "admin@elwarcha.ma", testAdminPassword)
	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/admin/orders", token: admin})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	orders := resp.list(t)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0]["id"])
	require.NotNil(t, resp.Pagination)
	assert.EqualValues(t, 1, resp.Pagination.Total)

	statusPath := fmt.Sprintf("/api/v1/admin/orders/%v/status", orderID)
	_, resp = s.do(t, request{method: http.MethodPatch, path: statusPath, token: admin, body: gin.H{"status": constants.OrderStatusInProgress}})
	assert.Equal(t, false, payload(t, resp)["unchanged"])

	_, resp = s.do(t, request{method: http.MethodPatch, path: statusPath, token: admin, body: gin.H{"status": constants.OrderStatusInProgress}})
	assert.Equal(t, true, payload(t, resp)["unchanged"])

	_, resp = s.do(t, request{method: http.MethodPatch, path: statusPath, token: admin, body: gin.H{"status": "LOST"}})
	assert.Equal(t, "INVALID_INPUT", resp.object(t)["error"])
}

func TestAdminDiscountLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@elwarcha.ma", testAdminPassword)

	_, resp := s.do(t, request{method: http.MethodPost, path: "/api/v1/admin/discounts", token: admin, body: gin.H{"code": "ete-25", "percent": 25}})
	created := payload(t, resp)
	assert.Equal(t, "ETE-25", created["code"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/admin/discounts", token: admin, body: gin.H{"code": "ETE-25", "percent": 10}})
	assert.Equal(t, "DISCOUNT_EXISTS", resp.object(t)["error"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/discounts/validate", body: gin.H{"code": "ete-25"}})
	validation := payload(t, resp)
	assert.Equal(t, true, validation["valid"])
	assert.EqualValues(t, 25, validation["percent"])

	_, resp = s.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/api/v1/admin/discounts/%v", created["id"]), token: admin})
	assert.Equal(t, 0, resp.StatusCode)
}

func TestContactFormReachesAdminInbox(t *testing.T) {
	s := newTestServer(t)
	form := gin.H{
		"name":    "Youssef",
		"email":   "youssef@example.com",
		"subject": "Commande spéciale",
		"message": "Bonjour, je cherche une toile en 120 x 80.",
	}

	_, resp := s.do(t, request{method: http.MethodPost, path: "/api/v1/contact", body: form})
	assert.Equal(t, false, payload(t, resp)["ignored"])

	form["website"] = "http://spam.example"
	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/contact", body: form})
	assert.Equal(t, true, payload(t, resp)["ignored"])

	_, resp = s.do(t, request{method: http.MethodPost, path: "/api/v1/contact", body: gin.H{"email": "x"}})
	assert.Equal(t, "VALIDATION", resp.object(t)["error"])

	admin := s.login(t, "admin@elwarcha.ma", testAdminPassword)
	_, resp = s.do(t, request{method: http.MethodGet, path: "/api/v1/admin/messages?unread=true", token: admin})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	messages := resp.list(t)
	require.Len(t, messages, 1)
	assert.Equal(t, "Commande spéciale", messages[0]["subject"])
	assert.EqualValues(t, 25, resp.Pagination.PageSize)

	path := fmt.Sprintf("/api/v1/admin/messages/%v", messages[0]["id"])
	_, resp = s.do(t, request{method: http.MethodPatch, path: path + "/read", token: admin})
	assert.Equal(t, 0, resp.StatusCode)
	_, resp = s.do(t, request{method: http.MethodGet, path: path, token: admin})
	assert.NotNil(t, payload(t, resp)["read_at"])
	_, resp = s.do(t, request{method: http.MethodDelete, path: path, token: admin})
	assert.Equal(t, 0, resp.StatusCode)
	_, resp = s.do(t, request{method: http.MethodGet, path: path, token: admin})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestProfileAndPasswordRoutes(t *testing.T) {
	s := newTestServer(t)
	_, resp := s.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   gin.H{"name": "Karim", "email": "karim@example.com", "password": "secret1"},
	})
	token, _ := payload(t, resp)["token"].(string)

	_, resp = s.do(t, request{method: http.MethodPatch, path: "/api/v1/me", body: gin.H{"name": "Karim"}})
	assert.Equal(t, 401, resp.StatusCode)

	_, resp = s.do(t, request{method: http.MethodPatch, path: "/api/v1/me", token: token, body: gin.H{"name": "Karim Alaoui"}})
	assert.Equal(t, "Karim Alaoui", payload(t, resp)["name"])

	_, resp = s.do(t, request{method: http.MethodPut, path: "/api/v1/me/password", token: token, body: gin.H{"current_password": "nope", "new_password": "secret2"}})
	assert.Equal(t, "WRONG_PASSWORD", resp.object(t)["error"])
	_, resp = s.do(t, request{method: http.MethodPut, path: "/api/v1/me/password", token: token, body: gin.H{"current_password": "secret1", "new_password": "secret2"}})
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)
	s.login(t, "karim@example.com", "secret2")
}

func TestAdminTaxonomyRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@elwarcha.ma", testAdminPassword)

	_, resp := s.do(t, request{method: http.MethodPost, path: "/api/v1/admin/styles", token: admin, body: gin.H{"name": "Abstrait"}})
	style := payload(t, resp)
	stylePath := fmt.Sprintf("/api/v1/admin/styles/%v", style["id"])

	_, resp = s.do(t, request{method: http.MethodPut, path: stylePath, token: admin, body: gin.H{"name": "Abstraction"}})
	assert.Equal(t, "Abstraction", payload(t, resp)["name"])

	painting := s.seedPainting(t, "Atlas", 1000)
	require.NoError(t, s.container.DB.Model(painting).Update("style_id", uint(style["id"].(float64))).Error)
	_, resp = s.do(t, request{method: http.MethodDelete, path: stylePath, token: admin})
	assert.Equal(t, "TAXONOMY_IN_USE", resp.object(t)["error"])

	image := &models.PaintingImage{PaintingID: painting.ID, URL: "https://cdn.example.com/a.jpg"}
	require.NoError(t, s.container.DB.Create(image).Error)
	imagePath := fmt.Sprintf("/api/v1/admin/paintings/%d/images/%d", painting.ID, image.ID)
	_, resp = s.do(t, request{method: http.MethodDelete, path: imagePath, token: admin})
	assert.Equal(t, 0, resp.StatusCode)
	_, resp = s.do(t, request{method: http.MethodDelete, path: imagePath, token: admin})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, request{method: http.MethodGet, path: "/health"})

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gallery_test_http_requests_total")
}
