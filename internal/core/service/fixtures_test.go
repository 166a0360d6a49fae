package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// authFixture wires an AuthService over in-memory stubs.
type authFixture struct {
	clock       *fixedClock
	accounts    *stubAccountRepo
	patients    *stubPatientRepo
	doctors     *stubDoctorRepo
	revocations *stubRevocations
	tokens      *TokenService
	svc         *AuthService
	resolver    *IdentityResolver
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		clock:       newFixedClock(),
		accounts:    newStubAccountRepo(),
		patients:    newStubPatientRepo(),
		doctors:     newStubDoctorRepo(),
		revocations: newStubRevocations(),
	}
	f.tokens = newTestTokens(t, f.clock)
	f.svc = NewAuthService(AuthDependencies{
		Accounts:    f.accounts,
		Patients:    f.patients,
		Doctors:     f.doctors,
		Hasher:      NewBcryptHasher(bcrypt.MinCost),
		Tokens:      f.tokens,
		Revocations: f.revocations,
		Logger:      zerolog.Nop(),
		Now:         f.clock.Now,
	})
	f.resolver = NewIdentityResolver(f.tokens, f.accounts, f.revocations)
	return f
}

func (f *authFixture) register(t *testing.T, email string, role domain.Role) *domain.Account {
	t.Helper()
	account, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Password: "secret123",
		FullName: "Test " + string(role),
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return account
}
