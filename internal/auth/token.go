package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/secops-service/internal/domain"
)

var (
	// ErrInvalidToken covers every reason a presented token is rejected.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned when a TokenManager is built without a signing secret.
	ErrEmptySecret = errors.New("token signing secret must not be empty")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. A non-positive ttl falls back to seven days.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes JWT payload.
type Claims struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT for the identity.
func (tm *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role:      identity.Role,
		Name:      identity.DisplayName(),
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a token and returns its claims. Errors carry the underlying reason.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Authenticate decodes a token into the identity it was issued for.
// Any failure collapses to ErrInvalidToken.
func (tm *TokenManager) Authenticate(tokenStr string) (*domain.Identity, error) {
	claims, err := tm.Parse(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims.Identity(), nil
}

// Identity rebuilds the principal carried by the claims.
func (c *Claims) Identity() *domain.Identity {
	return &domain.Identity{
		ID:        c.Subject,
		Username:  c.Username,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
	}
}

// Session is the token payload view of the claims.
func (c *Claims) Session() domain.Session {
	s := domain.Session{SubjectID: c.Subject, Role: c.Role, DisplayName: c.Name}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
