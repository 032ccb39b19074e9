package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"kafeku/internal/models"
	"kafeku/internal/store"

	"github.com/dgrijalva/jwt-go"
)

// AuthService issues and validates JWT tokens on top of the catalog store's
// session manager. The store remains the source of truth for credentials and
// the persisted session; tokens only carry the identity across HTTP requests.
type AuthService struct {
	catalog    *store.CatalogStore
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(catalog *store.CatalogStore, jwtSecret string) *AuthService {
	return &AuthService{
		catalog:    catalog,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// Login authenticates against the catalog store and returns a signed token
// together with the authenticated user. Failures are reported opaquely; the
// caller learns only that the credentials were invalid.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.catalog.Login(email, password)
	if err != nil {
		if errors.Is(err, store.ErrNotReady) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"cafe_id": user.CafeID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// Logout clears the catalog store's session.
func (s *AuthService) Logout() {
	s.catalog.Logout()
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UserFromClaims resolves the token's subject against the catalog store. A
// token for a user that no longer exists (e.g. their café was deleted) is
// rejected.
func (s *AuthService) UserFromClaims(claims jwt.MapClaims) (*models.User, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid token: missing user_id claim")
	}
	user, err := s.catalog.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return user, nil
}
