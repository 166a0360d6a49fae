package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

// fixedClock returns a settable clock starting at a whole second.
type fixedClock struct{ t time.Time }

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(t *testing.T, clock *fixedClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		Secret:     []byte(testSecret),
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := newFixedClock()
	svc := newTestTokens(t, clock)

	token, issued, err := svc.Issue("acc-1", domain.RolePatient, domain.TokenAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatalf("expected jti to be set")
	}
	if want := clock.Now().Add(30 * time.Minute); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("expected exp %s, got %s", want, issued.ExpiresAt)
	}

	claims, err := svc.Verify(token, domain.TokenAccess)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "acc-1" || claims.Role != domain.RolePatient || claims.Kind != domain.TokenAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != issued.ID {
		t.Fatalf("jti mismatch: %s != %s", claims.ID, issued.ID)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	clock := newFixedClock()
	svc := newTestTokens(t, clock)

	token, _, err := svc.Issue("acc-1", domain.RoleDoctor, domain.TokenAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.Advance(time.Minute - time.Second)
	if _, err := svc.Verify(token, domain.TokenAccess); err != nil {
		t.Fatalf("expected token valid one second before expiry, got %v", err)
	}

	clock.Advance(time.Second)
	if _, err := svc.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at exact expiry, got %v", err)
	}

	clock.Advance(time.Hour)
	if _, err := svc.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenService_KindIsEnforced(t *testing.T) {
	svc := newTestTokens(t, newFixedClock())

	refresh, _, _ := svc.Issue("acc-1", domain.RolePatient, domain.TokenRefresh, 0)
	if _, err := svc.Verify(refresh, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}

	access, _, _ := svc.Issue("acc-1", domain.RolePatient, domain.TokenAccess, 0)
	if _, err := svc.Verify(access, domain.TokenRefresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
}

func TestTokenService_ForeignSecret(t *testing.T) {
	clock := newFixedClock()
	svc := newTestTokens(t, clock)

	other, err := NewTokenService(TokenConfig{
		Secret:     []byte("another-secret-entirely-9876543210"),
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	for _, role := range []domain.Role{domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin} {
		forged, _, _ := other.Issue("acc-1", role, domain.TokenAccess, 0)
		if _, err := svc.Verify(forged, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token signed with foreign secret accepted for role %s", role)
		}
	}
}

func TestTokenService_AlgorithmPinned(t *testing.T) {
	clock := newFixedClock()
	svc := newTestTokens(t, clock)

	claims := tokenClaims{
		Role: string(domain.RoleAdmin),
		Type: string(domain.TokenAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc-1",
			ID:        "jti-1",
			IssuedAt:  jwt.NewNumericDate(clock.Now()),
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := svc.Verify(hs512, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected when HS256 is configured")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(none, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	clock := newFixedClock()
	svc := newTestTokens(t, clock)
	iat := jwt.NewNumericDate(clock.Now())
	exp := jwt.NewNumericDate(clock.Now().Add(time.Hour))

	cases := map[string]tokenClaims{
		"no subject": {Role: "patient", Type: "access", RegisteredClaims: jwt.RegisteredClaims{ID: "j", IssuedAt: iat, ExpiresAt: exp}},
		"no role":    {Type: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ID: "j", IssuedAt: iat, ExpiresAt: exp}},
		"bad role":   {Role: "root", Type: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ID: "j", IssuedAt: iat, ExpiresAt: exp}},
		"no type":    {Role: "patient", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ID: "j", IssuedAt: iat, ExpiresAt: exp}},
		"no iat":     {Role: "patient", Type: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ID: "j", ExpiresAt: exp}},
		"no exp":     {Role: "patient", Type: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ID: "j", IssuedAt: iat}},
		"no jti":     {Role: "patient", Type: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "s", IssuedAt: iat, ExpiresAt: exp}},
	}

	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			if _, err := svc.Verify(signed, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokens(t, newFixedClock())

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(raw, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestTokenService_IssuePair(t *testing.T) {
	svc := newTestTokens(t, newFixedClock())

	pair, err := svc.IssuePair(&domain.Account{ID: "acc-9", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.TokenType != "bearer" || pair.ExpiresIn != 30*time.Minute {
		t.Fatalf("unexpected pair metadata: %+v", pair)
	}
	if _, err := svc.Verify(pair.AccessToken, domain.TokenAccess); err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	rc, err := svc.Verify(pair.RefreshToken, domain.TokenRefresh)
	if err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
	if rc.ExpiresAt.Sub(rc.IssuedAt) != 7*24*time.Hour {
		t.Fatalf("unexpected refresh lifetime: %s", rc.ExpiresAt.Sub(rc.IssuedAt))
	}
}

func TestTokenService_IssueRejectsSubSecondTTL(t *testing.T) {
	svc := newTestTokens(t, newFixedClock())

	if _, _, err := svc.Issue("acc-1", domain.RolePatient, domain.TokenAccess, 500*time.Millisecond); err == nil {
		t.Fatalf("expected error for ttl that collapses exp onto iat")
	}
}

func TestNewTokenService_RejectsNonHMAC(t *testing.T) {
	for _, alg := range []string{"RS256", "ES256", "none", "HS1"} {
		_, err := NewTokenService(TokenConfig{Secret: []byte(testSecret), Algorithm: alg, AccessTTL: time.Minute, RefreshTTL: time.Hour})
		if err == nil {
			t.Fatalf("expected algorithm %q to be rejected", alg)
		}
	}
}
