package infrastructure

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

const tokenIssuer = "userhub"

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrWrongType    = errors.New("token has wrong type")
)

type JWTService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// tokenClaims is the wire form of both token types.
type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
}

func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secretKey:  []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (j *JWTService) WithClock(now func() time.Time) *JWTService {
	j.now = now
	return j
}

func (j *JWTService) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// GeneratePair mints an access and a refresh token for userID. The claims of
// the refresh token are returned so the caller can record it.
func (j *JWTService) GeneratePair(userID uuid.UUID) (entities.TokenPair, *entities.TokenClaims, error) {
	access, _, err := j.GenerateToken(userID, entities.AccessToken)
	if err != nil {
		return entities.TokenPair{}, nil, err
	}
	refresh, refreshClaims, err := j.GenerateToken(userID, entities.RefreshToken)
	if err != nil {
		return entities.TokenPair{}, nil, err
	}
	return entities.TokenPair{Access: access, Refresh: refresh}, refreshClaims, nil
}

func (j *JWTService) GenerateToken(userID uuid.UUID, typ entities.TokenType) (string, *entities.TokenClaims, error) {
	ttl := j.accessTTL
	if typ == entities.RefreshToken {
		ttl = j.refreshTTL
	}
	now := j.now().UTC().Truncate(time.Second)
	jti := strings.ReplaceAll(uuid.NewString(), "-", "")

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: string(typ),
		UserID:    userID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, &entities.TokenClaims{
		UserId:    userID,
		Type:      typ,
		JTI:       jti,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// ParseToken checks signature, algorithm, expiry and token type.
func (j *JWTService) ParseToken(raw string, want entities.TokenType) (*entities.TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if entities.TokenType(claims.TokenType) != want {
		return nil, ErrWrongType
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	out := &entities.TokenClaims{
		UserId: userID,
		Type:   want,
		JTI:    claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
