package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret     []byte
	Algorithm  string // HS256, HS384 or HS512
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// TokenService signs and verifies HMAC JWTs with a single pinned algorithm.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// tokenClaims is the wire form of domain.TokenClaims.
type tokenClaims struct {
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

var errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token service: empty secret")
	}
	method, err := hmacMethod(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token service: ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &TokenService{
		secret:     cfg.Secret,
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

func hmacMethod(alg string) (jwt.SigningMethod, error) {
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedAlgorithm, alg)
	}
	return method, nil
}

// Issue signs a token of the given kind. A non-positive ttl selects the
// configured default for that kind.
func (s *TokenService) Issue(subject string, role domain.Role, kind domain.TokenKind, ttl time.Duration) (string, *domain.TokenClaims, error) {
	if subject == "" || !role.Valid() {
		return "", nil, errors.New("issue token: missing subject or role")
	}
	if ttl <= 0 {
		switch kind {
		case domain.TokenAccess:
			ttl = s.accessTTL
		case domain.TokenRefresh:
			ttl = s.refreshTTL
		default:
			return "", nil, fmt.Errorf("issue token: unknown kind %q", kind)
		}
	}

	now := s.now()
	claims := tokenClaims{
		Role: string(role),
		Type: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	// NumericDate truncates to seconds; ttl below that would collapse exp onto iat.
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return "", nil, fmt.Errorf("issue token: ttl %s too short", ttl)
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.toDomain(), nil
}

// IssuePair issues a fresh access and refresh token for account.
func (s *TokenService) IssuePair(account *domain.Account) (*domain.TokenPair, error) {
	access, _, err := s.Issue(account.ID, account.Role, domain.TokenAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.Issue(account.ID, account.Role, domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.accessTTL,
	}, nil
}

// Verify checks signature, algorithm, expiry, required claims and kind.
func (s *TokenService) Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.Subject == "" || claims.ID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidToken
	}
	if !domain.Role(claims.Role).Valid() {
		return nil, domain.ErrInvalidToken
	}
	if domain.TokenKind(claims.Type) != kind {
		return nil, domain.ErrInvalidToken
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return nil, domain.ErrInvalidToken
	}
	// No leeway: a token is dead at its exp instant.
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, domain.ErrInvalidToken
	}

	return claims.toDomain(), nil
}

func (c tokenClaims) toDomain() *domain.TokenClaims {
	return &domain.TokenClaims{
		Subject:   c.Subject,
		Role:      domain.Role(c.Role),
		Kind:      domain.TokenKind(c.Type),
		ID:        c.ID,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}
}
