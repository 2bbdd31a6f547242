package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/retroshelf/retroshelf/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrMissingSecret  = errors.New("token secret not configured")
)

// Claims carries the authenticated identity inside both token kinds.
// Fresh marks an access token obtained directly from a login rather than a
// refresh.
type Claims struct {
	jwt.RegisteredClaims
	Type      string `json:"type"`
	Fresh     bool   `json:"fresh,omitempty"`
	UserID    uint   `json:"uid"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	ImageFile string `json:"image_file,omitempty"`
}

// TokenIssuer signs and validates access/refresh token pairs with separate
// HMAC secrets.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess signs a short-lived access token for the user.
func (t *TokenIssuer) IssueAccess(user *models.User, fresh bool) (string, error) {
	return t.sign(user, TokenTypeAccess, fresh, t.accessTTL, t.accessSecret)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (t *TokenIssuer) IssueRefresh(user *models.User) (string, error) {
	return t.sign(user, TokenTypeRefresh, false, t.refreshTTL, t.refreshSecret)
}

func (t *TokenIssuer) sign(user *models.User, tokenType string, fresh bool, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:      tokenType,
		Fresh:     fresh,
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ImageFile: user.ImageFile,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccess(tokenString string) (*Claims, error) {
	return t.parse(tokenString, TokenTypeAccess, t.accessSecret)
}

// ParseRefresh validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefresh(tokenString string) (*Claims, error) {
	return t.parse(tokenString, TokenTypeRefresh, t.refreshSecret)
}

func (t *TokenIssuer) parse(tokenString, wantType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
