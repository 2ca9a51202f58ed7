package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/beancode/signalist-backend/internal/http/handlers"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewRouter(RouterConfig{
		SignupHandler: httpH.NewSignupHandler(log, nil, nil, nil),
		DigestHandler: httpH.NewDigestHandler(log, nil, nil, nil),
		HealthHandler: httpH.NewHealthHandler(),
	})
}

func TestHealthcheck(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/signup-events", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != 400 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSignupRejectsMissingNameOrEmail(t *testing.T) {
	cases := []string{
		`{"email":"a@x.com"}`,
		`{"name":"A"}`,
		`{"name":"  ","email":"a@x.com"}`,
	}
	r := testRouter(t)
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/signup-events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != 400 {
			t.Fatalf("body %s: status = %d", body, w.Code)
		}
	}
}

func TestDigestTriggerWithoutBackend(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/digest/runs", nil)
	r.ServeHTTP(w, req)
	if w.Code != 503 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
