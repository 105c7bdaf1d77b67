package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jeuanimo/expensegate/internal/adapter/backend"
	"github.com/jeuanimo/expensegate/internal/adapter/middleware"
	"github.com/jeuanimo/expensegate/internal/core/proxy"
	"github.com/jeuanimo/expensegate/internal/core/session"
)

// fakeRemote emulates the remote record service for full round trips
// through middleware, handlers and the proxy core.
func fakeRemote(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username == "alice" && creds.Password == "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"user_id":5,"username":"alice"}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":1,"user_id":5,"title":"Lunch","amount":"12.75"},
				{"id":2,"user_id":9,"description":"other user","amount":5}
			]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
		}
	})
	return httptest.NewServer(mux)
}

func newTestApp(backendURL string) *fiber.App {
	store := session.NewMemoryStore()
	sessions := session.NewManager(24 * time.Hour)
	client := backend.NewClient(backendURL, time.Second)
	gateway := proxy.NewService(client, sessions)

	authHandler := &AuthHandler{Proxy: gateway, Store: store}
	expenseHandler := &ExpenseHandler{Proxy: gateway}

	app := fiber.New()
	api := app.Group("/v1")
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/logout", authHandler.Logout)

	private := api.Use(middleware.Protected(store, sessions))
	private.Get("/expenses", expenseHandler.List)
	private.Post("/expenses", expenseHandler.Create)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("body not json: %v (%q)", err, data)
	}
	return body
}

func TestLoginThenListRoundTrip(t *testing.T) {
	remote := fakeRemote(t)
	defer remote.Close()
	app := newTestApp(remote.URL)

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"alice","password":"secret"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, "GET", "/v1/expenses", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["degraded"] != false {
		t.Fatalf("degraded=%v want false", body["degraded"])
	}
	expenses, ok := body["expenses"].([]any)
	if !ok || len(expenses) != 1 {
		t.Fatalf("expenses=%v want exactly the caller's record", body["expenses"])
	}
}

func TestListWithoutSession(t *testing.T) {
	remote := fakeRemote(t)
	defer remote.Close()
	app := newTestApp(remote.URL)

	resp := doJSON(t, app, "GET", "/v1/expenses", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["redirect"] != "/login" {
		t.Fatalf("redirect=%v", body["redirect"])
	}
}

func TestLoginRejected(t *testing.T) {
	remote := fakeRemote(t)
	defer remote.Close()
	app := newTestApp(remote.URL)

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"alice","password":"wrong"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", resp.StatusCode)
	}
}

func TestDemoModeEndToEnd(t *testing.T) {
	remote := fakeRemote(t)
	remote.Close() // backend is down from the start
	app := newTestApp(remote.URL)

	// Wrong credentials stay locked out even offline
	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"alice","password":"secret"}`, "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", resp.StatusCode)
	}

	// Demo credentials synthesize a session
	resp = doJSON(t, app, "POST", "/v1/auth/login", `{"username":"demo","password":"demo123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("demo login status=%d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	// Listing degrades to the sample data
	resp = doJSON(t, app, "GET", "/v1/expenses", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["degraded"] != true {
		t.Fatalf("degraded=%v want true", body["degraded"])
	}

	// Writes are never faked offline
	resp = doJSON(t, app, "POST", "/v1/expenses", `{"description":"Lunch","amount":"10"}`, cookie)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("create status=%d want 503", resp.StatusCode)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	remote := fakeRemote(t)
	defer remote.Close()
	app := newTestApp(remote.URL)

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"alice","password":"secret"}`, "")
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, "POST", "/v1/expenses", `{"description":"Lunch","amount":"abc"}`, cookie)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/v1/expenses", `{"description":"Lunch","amount":"12.75"}`, cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d want 201", resp.StatusCode)
	}
}

// Logout is idempotent: both calls succeed, and the session is gone.
func TestLogoutIdempotent(t *testing.T) {
	remote := fakeRemote(t)
	defer remote.Close()
	app := newTestApp(remote.URL)

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"alice","password":"secret"}`, "")
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, "POST", "/v1/auth/logout", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first logout status=%d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/v1/auth/logout", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second logout status=%d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/v1/expenses", "", cookie)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("list after logout status=%d want 401", resp.StatusCode)
	}
}

func TestRegisterPassthrough(t *testing.T) {
	var remoteCalled bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		remoteCalled = true
		w.WriteHeader(http.StatusCreated)
	})
	remote := httptest.NewServer(mux)
	defer remote.Close()
	app := newTestApp(remote.URL)

	// Password mismatch fails locally, remote never sees it
	resp := doJSON(t, app, "POST", "/v1/auth/register",
		`{"username":"bob","password":"a","confirm_password":"b","email":"b@x.com","first_name":"Bob","last_name":"Lee"}`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}
	if remoteCalled {
		t.Fatal("remote called for locally invalid registration")
	}

	resp = doJSON(t, app, "POST", "/v1/auth/register",
		`{"username":"bob","password":"a","confirm_password":"a","email":"b@x.com","first_name":"Bob","last_name":"Lee"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d want 201", resp.StatusCode)
	}
	if !remoteCalled {
		t.Fatal("valid registration never dispatched")
	}
}
