package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/platform/ctxutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type stubAuth struct {
	userID uuid.UUID
	err    error
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: s.userID}), nil
}

func (s stubAuth) IssueToken(uuid.UUID, string, time.Duration) (string, error) { return "", nil }

func authRouter(auth stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDs())
	r.Use(NewAuthMiddleware(logger.NewNop(), auth).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.UserID.String())
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name   string
		auth   stubAuth
		header string
		status int
	}{
		{"missing header", stubAuth{userID: id}, "", http.StatusUnauthorized},
		{"wrong scheme", stubAuth{userID: id}, "Basic abc", http.StatusUnauthorized},
		{"rejected token", stubAuth{err: errors.New("expired")}, "Bearer abc", http.StatusUnauthorized},
		{"nil user", stubAuth{userID: uuid.Nil}, "Bearer abc", http.StatusForbidden},
		{"ok", stubAuth{userID: id}, "bearer abc", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			authRouter(tc.auth).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatalf("request id header missing")
			}
			if tc.status == http.StatusOK {
				if rec.Body.String() != id.String() {
					t.Fatalf("handler saw %q", rec.Body.String())
				}
				return
			}
			var env struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Error.Code == "" {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRequestIDsEchoesClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDs())
	r.GET("/", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-123" || rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("trace id header missing")
	}
}
