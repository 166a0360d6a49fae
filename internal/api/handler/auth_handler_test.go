package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/middleware"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, input ports.RegisterInput) (*domain.Account, error)
	loginFn      func(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error)
	refreshFn    func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	logoutFn     func(ctx context.Context, access *domain.TokenClaims, refreshToken string) error
	getProfileFn func(ctx context.Context, account *domain.Account) (domain.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, access *domain.TokenClaims, refreshToken string) error {
	return s.logoutFn(ctx, access, refreshToken)
}

func (s *stubAuthService) GetProfileFor(ctx context.Context, account *domain.Account) (domain.Profile, error) {
	return s.getProfileFn(ctx, account)
}

// newJSONContext builds a context with the validator registered, as the router does.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, account *domain.Account) {
	c.Set(middleware.AccountKey, account)
	c.Set(middleware.ClaimsKey, &domain.TokenClaims{
		Subject: account.ID,
		Role:    account.Role,
		Kind:    domain.TokenAccess,
		ID:      "jti-" + account.ID,
	})
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func testPair() *domain.TokenPair {
	return &domain.TokenPair{AccessToken: "access123", RefreshToken: "refresh123", TokenType: "bearer", ExpiresIn: 15 * time.Minute}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
			if input.Email != "alice@example.com" || input.Role != domain.RolePatient || input.FullName != "Alice" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Account{ID: "a1", Email: input.Email, Role: input.Role, FullName: input.FullName, Active: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"secret123","full_name":"Alice","role":"patient"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["role"] != "patient" || resp["is_active"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	cases := map[string]string{
		"not json":       "not-json",
		"bad email":      `{"email":"nope","password":"secret123","full_name":"A","role":"patient"}`,
		"short password": `{"email":"a@example.com","password":"abc","full_name":"A","role":"patient"}`,
		"admin role":     `{"email":"a@example.com","password":"secret123","full_name":"A","role":"admin"}`,
		"missing name":   `{"email":"a@example.com","password":"secret123","role":"doctor"}`,
		// 20 characters, 80 bytes.
		"long password":  `{"email":"a@example.com","password":"` + strings.Repeat("😀", 20) + `","full_name":"A","role":"patient"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := newJSONContext(http.MethodPost, "/auth/register", body)

			expectStatus(t, NewAuthHandler(stub).Register(c), http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/register",
		`{"email":"bob@example.com","password":"secret123","full_name":"Bob","role":"doctor"}`)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
			if email != "alice@example.com" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return testPair(), &domain.Account{ID: "a1", Email: email, Role: domain.RolePatient, Active: true}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret123"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "access123" || resp.RefreshToken != "refresh123" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp.ExpiresIn != 900 {
		t.Fatalf("expected expires_in 900, got %d", resp.ExpiresIn)
	}
	if resp.User == nil || resp.User.ID != "a1" {
		t.Fatalf("expected user in response")
	}
}

func TestAuthHandler_Login_FormEncoded(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
			if email != "alice@example.com" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return testPair(), &domain.Account{ID: "a1"}, nil
		},
	}

	form := url.Values{"username": {"alice@example.com"}, "password": {"secret123"}}
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com"}`)

	expectStatus(t, NewAuthHandler(stub).Login(c), http.StatusBadRequest)
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
			if refreshToken != "refresh-old" {
				t.Fatalf("unexpected token %q", refreshToken)
			}
			return testPair(), nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/refresh", `{"refresh_token":"refresh-old"}`)

	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "access123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["user"]; ok {
		t.Fatalf("refresh should not render the user")
	}
}

func TestAuthHandler_Refresh_Replayed(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
			return nil, domain.ErrInvalidToken
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/refresh", `{"refresh_token":"used"}`)

	if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	account := &domain.Account{ID: "a1", Role: domain.RoleDoctor, Active: true}

	t.Run("with refresh token", func(t *testing.T) {
		var gotAccess *domain.TokenClaims
		var gotRefresh string
		stub := &stubAuthService{
			logoutFn: func(ctx context.Context, access *domain.TokenClaims, refreshToken string) error {
				gotAccess, gotRefresh = access, refreshToken
				return nil
			},
		}
		c, rec := newJSONContext(http.MethodPost, "/auth/logout", `{"refresh_token":"r1"}`)
		authenticate(c, account)

		if err := NewAuthHandler(stub).Logout(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotAccess == nil || gotAccess.ID != "jti-a1" || gotRefresh != "r1" {
			t.Fatalf("unexpected logout args: %+v %q", gotAccess, gotRefresh)
		}
	})

	t.Run("without body", func(t *testing.T) {
		stub := &stubAuthService{
			logoutFn: func(ctx context.Context, access *domain.TokenClaims, refreshToken string) error {
				if refreshToken != "" {
					t.Fatalf("expected no refresh token, got %q", refreshToken)
				}
				return nil
			},
		}
		c, _ := newJSONContext(http.MethodPost, "/auth/logout", "")
		authenticate(c, account)

		if err := NewAuthHandler(stub).Logout(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		stub := &stubAuthService{}
		c, _ := newJSONContext(http.MethodPost, "/auth/logout", "")

		if err := NewAuthHandler(stub).Logout(c); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestAuthHandler_WhoAmI(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/auth/whoami", "")
	authenticate(c, &domain.Account{ID: "a1", Email: "alice@example.com", Role: domain.RoleAdmin, Active: true})

	if err := NewAuthHandler(&stubAuthService{}).WhoAmI(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "a1" || resp["role"] != "admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	patient := &domain.Account{ID: "a1", Role: domain.RolePatient, FullName: "Alice", Active: true}

	t.Run("patient", func(t *testing.T) {
		stub := &stubAuthService{
			getProfileFn: func(ctx context.Context, account *domain.Account) (domain.Profile, error) {
				return domain.NewPatientProfile(account, time.Now()), nil
			},
		}
		c, rec := newJSONContext(http.MethodGet, "/users/me/profile", "")
		authenticate(c, patient)

		if err := NewAuthHandler(stub).Profile(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp["account_id"] != "a1" || resp["full_name"] != "Alice" {
			t.Fatalf("unexpected payload: %+v", resp)
		}
	})

	t.Run("admin", func(t *testing.T) {
		stub := &stubAuthService{
			getProfileFn: func(ctx context.Context, account *domain.Account) (domain.Profile, error) {
				return nil, domain.ErrProfileNotFound
			},
		}
		c, _ := newJSONContext(http.MethodGet, "/users/me/profile", "")
		authenticate(c, &domain.Account{ID: "root", Role: domain.RoleAdmin})

		if err := NewAuthHandler(stub).Profile(c); !errors.Is(err, domain.ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})
}
