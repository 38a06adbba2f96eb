package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
)

// Claims is the stateless access-token payload: {sub, role, team_id?, iat, exp, jti}.
type Claims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
}

// Manager issues and verifies stateless HS256 bearer tokens. There is no
// refresh-token flow and no session store: verification is pure parse +
// signature check + expiry check.
type Manager struct {
	config *config.JWTConfig
}

// NewManager creates a new JWT manager.
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// Issue generates a signed access token for the given principal.
func (m *Manager) Issue(userID, role, teamID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Role:   role,
		TeamID: teamID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates tokenString, returning the resulting
// Principal. Implements httputil.TokenVerifier.
func (m *Manager) Verify(tokenString string) (httputil.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		if err.Error() == "token has invalid claims: token is expired" {
			return httputil.Principal{}, errors.TokenExpired()
		}
		return httputil.Principal{}, errors.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return httputil.Principal{}, errors.TokenInvalid()
	}

	return httputil.Principal{
		UserID: claims.Subject,
		Role:   claims.Role,
		TeamID: claims.TeamID,
	}, nil
}

// GetTokenExpiry returns the configured access token lifetime.
func (m *Manager) GetTokenExpiry() time.Duration {
	return m.config.AccessExpiry
}
