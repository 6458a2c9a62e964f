package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/example/inventory-api/internal/clock"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUnauthorized = errors.New("token does not belong to this user")
)

// DefaultTokenTTL is the validity of an access token issued at login.
const DefaultTokenTTL = time.Hour

var signingMethod = jwt.SigningMethodHS256

// Claims represents JWT claims
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService issues access tokens and verifies them against a claimed user id.
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	clock     clock.Clock
	parser    *jwt.Parser
}

// NewJWTService creates a new JWT service. A nil clock means the system clock.
func NewJWTService(secretKey string, ttl time.Duration, c clock.Clock) *JWTService {
	if c == nil {
		c = clock.NewSystem()
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		clock:     c,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(c.Now),
		),
	}
}

// IssueToken creates a signed access token for userID.
func (s *JWTService) IssueToken(userID int64) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := jwt.NewNumericDate(now.Add(s.ttl))

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: expiresAt,
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Time, nil
}

// ValidateToken decodes a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authenticate checks that tokenString is a live token issued to claimedUserID.
func (s *JWTService) Authenticate(claimedUserID int64, tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	if claims.UserID != claimedUserID {
		return ErrUnauthorized
	}
	return nil
}

// TokenTTL returns the access token validity.
func (s *JWTService) TokenTTL() time.Duration {
	return s.ttl
}
