package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cfp/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const CallerContextKey contextKey = "caller"

// Claims identify the caller. Tokens are issued by the account service; this
// process only verifies them.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateToken(userID uint, email string, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// ErrorWriter renders a failed request.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate reads the token from the "token" cookie or a bearer
// Authorization header and stores the caller's user id in the request
// context. Requests without a valid token are answered with
// UNAUTHENTICATED.
func Authenticate(writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFrom(r)
			if tokenString == "" {
				writeError(w, r, apperrors.ErrUnauthenticated)
				return
			}

			claims, err := ValidateToken(tokenString)
			if err != nil {
				// Clear invalid cookie
				http.SetCookie(w, &http.Cookie{
					Name:     "token",
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				writeError(w, r, apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid token", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), claims.UserID)))
		})
	}
}

func tokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// CallerID returns the authenticated user id, 0 when there is none.
func CallerID(ctx context.Context) uint {
	id, _ := ctx.Value(CallerContextKey).(uint)
	return id
}

// WithCaller returns ctx carrying userID as the authenticated caller.
func WithCaller(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, CallerContextKey, userID)
}
