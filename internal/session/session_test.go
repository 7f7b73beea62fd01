package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourbook/internal/logger"
	"tourbook/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestIssueParseRoundTrip(t *testing.T) {
	auth := NewAuthenticator("secret", logger.Discard())
	u := model.User{ID: uuid.New(), Email: "asha@example.com", FullName: "Asha Rao"}
	token, err := auth.Issue(u, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := auth.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *got != u {
		t.Fatalf("got %+v, want %+v", *got, u)
	}
}

func TestParseRejects(t *testing.T) {
	auth := NewAuthenticator("secret", logger.Discard())
	other := NewAuthenticator("other", logger.Discard())
	u := model.User{ID: uuid.New()}

	foreign, _ := other.Issue(u, time.Hour)
	expired, _ := auth.Issue(u, -time.Minute)
	for name, token := range map[string]string{"foreign": foreign, "expired": expired, "garbage": "abc"} {
		if _, err := auth.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s token: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator("secret", logger.Discard())
	r := gin.New()
	r.Use(auth.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		s := FromContext(c)
		if !s.SignedIn() {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, s.User.Email)
	})

	u := model.User{ID: uuid.New(), Email: "asha@example.com"}
	token, _ := auth.Issue(u, time.Hour)

	cases := []struct {
		name string
		set  func(*http.Request)
		want string
	}{
		{"no token", func(*http.Request) {}, "anonymous"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, u.Email},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, u.Email},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "anonymous"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		tc.set(req)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Body.String() != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, rec.Body.String(), tc.want)
		}
	}
}
