package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gigboard/gigboard/internal/domain"
	"github.com/gigboard/gigboard/internal/repository"
)

type contextKey string

const (
	// ContextKeyPrincipal is the key for storing the principal in request context.
	ContextKeyPrincipal contextKey = "principal"
)

// AuthMiddleware resolves Bearer tokens to marketplace principals.
//
// Authentication is optional by default: requests without an Authorization
// header proceed anonymously and the service layer decides per operation
// whether a principal is required. A header that is present but invalid is
// still rejected.
type AuthMiddleware struct {
	businessRepo *repository.BusinessRepository
	employeeRepo *repository.EmployeeRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(businessRepo *repository.BusinessRepository, employeeRepo *repository.EmployeeRepository) *AuthMiddleware {
	return &AuthMiddleware{
		businessRepo: businessRepo,
		employeeRepo: employeeRepo,
	}
}

// Resolve attaches the principal for a valid Bearer token to the request
// context and passes anonymous requests through untouched.
func (m *AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		principal, err := m.resolveToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrPrincipalUnknown) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveToken looks the token up among businesses first, then employees.
func (m *AuthMiddleware) resolveToken(ctx context.Context, token string) (*domain.Principal, error) {
	business, err := m.businessRepo.GetByToken(ctx, token)
	if err == nil {
		return &domain.Principal{
			ID:   business.PrincipalID,
			Kind: domain.PrincipalKindBusiness,
			Name: business.Name,
		}, nil
	}
	if !errors.Is(err, domain.ErrBusinessNotFound) {
		return nil, err
	}

	employee, err := m.employeeRepo.GetByToken(ctx, token)
	if err == nil {
		return &domain.Principal{
			ID:   employee.PrincipalID,
			Kind: domain.PrincipalKindEmployee,
			Name: employee.Name,
		}, nil
	}
	if !errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, err
	}

	return nil, domain.ErrPrincipalUnknown
}

// PrincipalFromContext retrieves the resolved principal, or nil for an
// anonymous request.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	principal, ok := ctx.Value(ContextKeyPrincipal).(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

// PrincipalID returns the principal id from the context, or "" for an
// anonymous request.
func PrincipalID(ctx context.Context) string {
	if principal := PrincipalFromContext(ctx); principal != nil {
		return principal.ID
	}
	return ""
}
