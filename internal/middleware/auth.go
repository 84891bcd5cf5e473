package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey struct{}

// Claims are the access-token claims issued by the auth platform.
// The company may be a top-level claim or live in app_metadata.
type Claims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id,omitempty"`
	AppMetadata struct {
		CompanyID string `json:"company_id,omitempty"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

func (c *Claims) company() string {
	if c.CompanyID != "" {
		return c.CompanyID
	}
	return c.AppMetadata.CompanyID
}

// AuthMiddleware verifies the bearer token and puts the employee in the request context
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	secret := []byte(cfg.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				http.Error(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			companyID, err := uuid.Parse(claims.company())
			if err != nil {
				http.Error(w, "Token has no company", http.StatusForbidden)
				return
			}

			employee := models.Employee{
				ID:        claims.Subject,
				Email:     claims.Email,
				CompanyID: companyID,
				Role:      claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithEmployee(r.Context(), employee)))
		})
	}
}

// WithEmployee returns a context carrying the authenticated employee
func WithEmployee(ctx context.Context, e models.Employee) context.Context {
	return context.WithValue(ctx, contextKey{}, e)
}

// EmployeeFrom returns the authenticated employee of a request context
func EmployeeFrom(ctx context.Context) (models.Employee, bool) {
	e, ok := ctx.Value(contextKey{}).(models.Employee)
	return e, ok
}
