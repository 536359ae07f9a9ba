package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by teller tokens issued by the central
// office.
type Claims struct {
	jwt.RegisteredClaims
	TellerID   uuid.UUID `json:"teller_id"`
	TellerName string    `json:"teller_name"`
	BranchCode string    `json:"branch_code"`
	Roles      []string  `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Teller roles.
const (
	RoleTeller     = "teller"
	RoleSupervisor = "supervisor"
)

// JWTService validates teller tokens signed with HMAC-SHA256. The branch
// service only validates; issuing happens at the central office.
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a validator for tokens signed with the given secret.
func NewJWTService(secret, issuer string) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTService{secret: []byte(secret), issuer: issuer}, nil
}

// GenerateToken signs a token for the given teller. Used by tests and local
// development; production tokens come from the central office.
func (s *JWTService) GenerateToken(tellerID uuid.UUID, tellerName, branchCode string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   tellerID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		TellerID:   tellerID,
		TellerName: tellerName,
		BranchCode: branchCode,
		Roles:      roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a teller token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("invalid issuer: got %q, want %q", claims.Issuer, s.issuer)
	}
	return claims, nil
}
