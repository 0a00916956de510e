// Package auth implements credential issuance/verification and the
// ownership-based authorization policy.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"murmur/internal/config"
	"murmur/internal/models"
)

// Credential failure modes. Expired and invalid credentials already carry
// their external kind; a missing secret is a configuration fault and falls
// through the classifier as an internal error.
var (
	ErrNoSecret     = errors.New("credential signing secret is not configured")
	ErrExpiredToken = &models.AppError{Kind: models.KindUnauthenticated, Message: "Credential has expired"}
	ErrInvalidToken = &models.AppError{Kind: models.KindUnauthenticated, Message: "Invalid credential"}
)

// Claims is the verified identity carried by a credential.
type Claims struct {
	UserID    uint
	Username  string
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueOptions overrides codec defaults for a single issuance.
// Zero values fall back to the configured defaults.
type IssueOptions struct {
	TTL      time.Duration
	Issuer   string
	Audience string
}

// tokenClaims is the on-the-wire claim set.
type tokenClaims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes, decodes, and validates bearer credentials. It is built once
// from the immutable process configuration; no global state is consulted per
// call, and the only side effect of any method is the HMAC computation.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewCodec creates a credential codec from the process configuration.
func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL(),
	}
}

// Issue signs a new credential for the given subject. opts may be nil.
// Fails with ErrNoSecret when no signing secret is configured.
func (cd *Codec) Issue(userID uint, username string, role models.Role, opts *IssueOptions) (string, error) {
	if len(cd.secret) == 0 {
		return "", ErrNoSecret
	}

	ttl := cd.ttl
	issuer := cd.issuer
	audience := cd.audience
	if opts != nil {
		if opts.TTL > 0 {
			ttl = opts.TTL
		}
		if opts.Issuer != "" {
			issuer = opts.Issuer
		}
		if opts.Audience != "" {
			audience = opts.Audience
		}
	}
	if role == "" {
		role = models.RoleUser
	}

	now := time.Now()
	claims := tokenClaims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        newJTI(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cd.secret)
}

// Verify checks signature, algorithm, expiry, issuer, and audience together
// and returns the authenticated claims. A credential satisfying only some of
// those checks is rejected outright: ErrExpiredToken for a stale credential,
// ErrInvalidToken for everything else.
func (cd *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return cd.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cd.issuer),
		jwt.WithAudience(cd.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claimsFromToken(claims)
}

// Decode inspects a credential without verifying it. Returns nil when the
// payload cannot be parsed. The output is NOT authenticated and must only be
// used for diagnostics.
func (cd *Codec) Decode(tokenString string) *Claims {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return nil
	}
	decoded, err := claimsFromToken(&claims)
	if err != nil {
		return nil
	}
	return decoded
}

// Reissue verifies the input credential and issues a fresh one carrying the
// same subject, username, and role. ttl <= 0 uses the configured default.
// A credential that fails Verify cannot be refreshed.
func (cd *Codec) Reissue(tokenString string, ttl time.Duration) (string, error) {
	claims, err := cd.Verify(tokenString)
	if err != nil {
		return "", err
	}

	var opts *IssueOptions
	if ttl > 0 {
		opts = &IssueOptions{TTL: ttl}
	}
	return cd.Issue(claims.UserID, claims.Username, claims.Role, opts)
}

func claimsFromToken(claims *tokenClaims) (*Claims, error) {
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	role := models.Role(claims.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		UserID:   uint(userID),
		Username: claims.Username,
		Role:     role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// newJTI creates a unique credential id.
func newJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
