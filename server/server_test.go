package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/YuBaichuan2000/e-commerce/auth"
	"github.com/YuBaichuan2000/e-commerce/catalog"
	"github.com/YuBaichuan2000/e-commerce/catalog/repofake"
	"github.com/YuBaichuan2000/e-commerce/checkout"
	"github.com/YuBaichuan2000/e-commerce/checkout/gatewayfake"
	"github.com/YuBaichuan2000/e-commerce/coupon"
	couponfake "github.com/YuBaichuan2000/e-commerce/coupon/repofake"
	"github.com/YuBaichuan2000/e-commerce/internal/config"
	orderfake "github.com/YuBaichuan2000/e-commerce/order/repofake"
	"github.com/YuBaichuan2000/e-commerce/server"
	"github.com/YuBaichuan2000/e-commerce/token"
	tokenfake "github.com/YuBaichuan2000/e-commerce/token/repofake"
	userfake "github.com/YuBaichuan2000/e-commerce/users/repofake"
)

type serverFixture struct {
	ts      *httptest.Server
	client  *http.Client
	gateway *gatewayfake.FakeGateway
	orders  *orderfake.FakeOrderRepo
}

func newServerFixture(t *testing.T, products ...catalog.Product) *serverFixture {
	t.Helper()

	cfg := &config.Config{
		Env:                  "development",
		AccessTokenSecret:    "access-secret",
		RefreshTokenSecret:   "refresh-secret",
		RewardThresholdCents: 20_000,
		StoreTimeout:         3 * time.Second,
		GatewayTimeout:       3 * time.Second,
	}
	log := zerolog.Nop()

	userRepo := userfake.NewFakeUserRepo()
	productRepo := repofake.NewFakeProductRepo(products...)
	couponRepo := couponfake.NewFakeCouponRepo()
	orderRepo := orderfake.NewFakeOrderRepo()
	gateway := gatewayfake.NewFakeGateway()

	tokens, err := token.NewService(tokenfake.NewFakeCacheRepo(), token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
	})
	require.NoError(t, err)

	authSvc, err := auth.NewService(userRepo, tokens, log)
	require.NoError(t, err)

	ledger, err := coupon.NewLedger(couponRepo, log)
	require.NoError(t, err)

	orchestrator, err := checkout.NewOrchestrator(gateway, ledger, orderRepo, checkout.Config{
		SuccessURL:           "http://storefront/success",
		CancelURL:            "http://storefront/cancel",
		RewardThresholdCents: cfg.RewardThresholdCents,
	}, log)
	require.NoError(t, err)

	srv, err := server.New(cfg, server.Deps{
		Auth:     authSvc,
		Tokens:   tokens,
		Users:    userRepo,
		Catalog:  productRepo,
		Coupons:  ledger,
		Checkout: orchestrator,
	}, log)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &serverFixture{
		ts:      ts,
		client:  &http.Client{Jar: jar},
		gateway: gateway,
		orders:  orderRepo,
	}
}

func (f *serverFixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := f.client.Post(f.ts.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func (f *serverFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.ts.URL + path)
	require.NoError(t, err)
	return resp
}

func (f *serverFixture) signup(t *testing.T, email string) {
	t.Helper()
	resp := f.post(t, "/api/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "correct horse battery",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestSignupSetsSessionCookies(t *testing.T) {
	f := newServerFixture(t)

	resp := f.post(t, "/api/auth/signup", map[string]string{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "longenoughpassword",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	names := make(map[string]bool)
	for _, c := range resp.Cookies() {
		names[c.Name] = true
		require.True(t, c.HttpOnly)
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestProfileRequiresAuth(t *testing.T) {
	f := newServerFixture(t)

	resp, err := http.Get(f.ts.URL + "/api/auth/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileAfterSignup(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.get(t, "/api/auth/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Email string `json:"email"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "jane@example.com", body.Email)
}

func TestLogoutClearsSession(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.get(t, "/api/auth/profile")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshIssuesNewAccessCookie(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/auth/refresh", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var hasAccess bool
	for _, c := range resp.Cookies() {
		if c.Name == "accessToken" && c.Value != "" {
			hasAccess = true
		}
	}
	require.True(t, hasAccess)
}

func TestFeaturedProductsArePublic(t *testing.T) {
	f := newServerFixture(t,
		catalog.Product{ID: "p-1", Name: "Jacket", Price: 49.99, IsFeatured: true},
		catalog.Product{ID: "p-2", Name: "Socks", Price: 4.99},
	)

	resp, err := http.Get(f.ts.URL + "/api/products/featured")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []catalog.Product `json:"products"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 1)
	require.Equal(t, "p-1", body.Products[0].ID)
}

func TestProductListIsAdminOnly(t *testing.T) {
	f := newServerFixture(t, catalog.Product{ID: "p-1", Name: "Jacket", Price: 49.99})
	f.signup(t, "customer@example.com")

	resp := f.get(t, "/api/products/")
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCartLifecycle(t *testing.T) {
	f := newServerFixture(t, catalog.Product{ID: "p-1", Name: "Jacket", Price: 49.99})
	f.signup(t, "jane@example.com")

	// Add twice: second add increments.
	for i := 0; i < 2; i++ {
		resp := f.post(t, "/api/cart/", map[string]string{"productId": "p-1"})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := f.get(t, "/api/cart/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart []struct {
		ID       string  `json:"_id"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	decodeBody(t, resp, &cart)
	require.Len(t, cart, 1)
	require.Equal(t, "p-1", cart[0].ID)
	require.Equal(t, 2, cart[0].Quantity)

	// Set quantity to zero removes the line.
	req, err := http.NewRequest(http.MethodPut, f.ts.URL+"/api/cart/p-1", bytes.NewReader([]byte(`{"quantity":0}`)))
	require.NoError(t, err)
	putResp, err := f.client.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	resp = f.get(t, "/api/cart/")
	decodeBody(t, resp, &cart)
	require.Empty(t, cart)
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	req, err := http.NewRequest(http.MethodPut, f.ts.URL+"/api/cart/ghost", bytes.NewReader([]byte(`{"quantity":3}`)))
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateUnknownCoupon(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/coupons/validate", map[string]string{"code": "NOPE42"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutRoundTrip(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/payments/create-checkout-session", map[string]any{
		"products": []map[string]any{
			{"_id": "p-1", "name": "Jacket", "price": 49.99, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session struct {
		ID          string  `json:"id"`
		TotalAmount float64 `json:"totalAmount"`
	}
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.ID)
	require.InDelta(t, 99.98, session.TotalAmount, 0.001)

	// Before payment the confirm endpoint refuses.
	resp = f.post(t, "/api/payments/checkout-success", map[string]string{"sessionId": session.ID})
	resp.Body.Close()
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	f.gateway.MarkPaid(session.ID)

	resp = f.post(t, "/api/payments/checkout-success", map[string]string{"sessionId": session.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var confirm struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	decodeBody(t, resp, &confirm)
	require.True(t, confirm.Success)
	require.NotEmpty(t, confirm.OrderID)
	require.Equal(t, 1, f.orders.Count())

	// Confirming again returns the same order and creates nothing new.
	resp = f.post(t, "/api/payments/checkout-success", map[string]string{"sessionId": session.ID})
	var again struct {
		OrderID string `json:"orderId"`
	}
	decodeBody(t, resp, &again)
	require.Equal(t, confirm.OrderID, again.OrderID)
	require.Equal(t, 1, f.orders.Count())
}

func TestCheckoutUnknownSession(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/payments/checkout-success", map[string]string{"sessionId": "cs_missing"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/payments/create-checkout-session", map[string]any{"products": []any{}})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "invalid_cart", body.Error)
}

func TestDuplicateSignupEmail(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/auth/signup", map[string]string{
		"name":     "Other",
		"email":    "jane@example.com",
		"password": "longenoughpassword",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newServerFixture(t)
	f.signup(t, "jane@example.com")

	resp := f.post(t, "/api/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "not the password",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
