package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email string `json:"email,omitempty"`
	Plan  string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier resolves a bearer token issued by the auth provider into a
// caller identity.
type TokenVerifier interface {
	Verify(token string) (*ctxutil.Identity, error)
}

type jwtVerifier struct {
	log    *logger.Logger
	secret []byte
	issuer string
}

func NewJWTVerifier(log *logger.Logger, secret, issuer string) TokenVerifier {
	return &jwtVerifier{
		log:    log.With("service", "JWTVerifier"),
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
	}
}

func (v *jwtVerifier) Verify(tokenString string) (*ctxutil.Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(v.secret) == 0 {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &ctxutil.Identity{UserID: sub, Email: claims.Email, Plan: claims.Plan}, nil
}

// SignToken issues an HS256 token. Used by the CLI and tests; production
// tokens come from the auth provider.
func SignToken(secret, issuer, userID, email, plan string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Plan:  plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
