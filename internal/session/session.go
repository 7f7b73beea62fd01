// Package session предоставляет явный объект сессии вместо чтения пользователя из хранилища
// клиента. Сессия строится из подписанного токена доступа (HS256).
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tourbook/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName - cookie, в которой браузер хранит токен доступа.
const CookieName = "session"

const contextKey = "session"

// ErrInvalidToken - токен не прошел проверку подписи, срока действия или содержимого.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Claims - содержимое токена доступа. Subject - идентификатор пользователя.
type Claims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Session - состояние аутентификации запроса: вошел пользователь или нет.
type Session struct {
	User *model.User
}

// SignedIn сообщает, есть ли в сессии пользователь.
func (s Session) SignedIn() bool { return s.User != nil }

// Authenticator проверяет и выпускает токены доступа.
type Authenticator struct {
	secret []byte
	log    *slog.Logger
}

// NewAuthenticator создает Authenticator с общим секретом подписи.
func NewAuthenticator(secret string, log *slog.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), log: log}
}

// Issue выпускает токен для пользователя. Используется локально и в тестах: в рабочей среде
// токены выдает внешний сервис аутентификации с тем же секретом.
func (a *Authenticator) Issue(u model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        u.Email,
		UserMetadata: map[string]any{"full_name": u.FullName},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("не удалось подписать токен: %w", err)
	}
	return token, nil
}

// Parse проверяет токен и возвращает пользователя.
func (a *Authenticator) Parse(token string) (*model.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	name, _ := claims.UserMetadata["full_name"].(string)
	return &model.User{ID: id, Email: claims.Email, FullName: name}, nil
}

// Middleware кладет Session в контекст запроса. Без токена или с недействительным токеном
// сессия остается анонимной: страницы при этом продолжают отображаться.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var s Session
		if token := tokenFrom(c); token != "" {
			user, err := a.Parse(token)
			if err != nil {
				a.log.Warn("[session] токен отклонен", "path", c.Request.URL.Path, "err", err)
			} else {
				s.User = user
			}
		}
		c.Set(contextKey, s)
		c.Next()
	}
}

// FromContext возвращает сессию текущего запроса.
func FromContext(c *gin.Context) Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}
	}
	s, _ := v.(Session)
	return s
}

// SignIn сохраняет токен в cookie браузера.
func SignIn(c *gin.Context, token string, ttl time.Duration) {
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", false, true)
}

// SignOut удаляет cookie сессии.
func SignOut(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if v, err := c.Cookie(CookieName); err == nil {
		return v
	}
	return ""
}
