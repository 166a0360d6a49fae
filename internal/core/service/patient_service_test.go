package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

func TestPatientService_Create(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewPatientService(f.patients, f.accounts, zerolog.Nop())
	ctx := context.Background()

	// An account registered as a patient already has a profile.
	patient := f.register(t, "p@x.com", domain.RolePatient)
	if _, err := svc.Create(ctx, ports.CreatePatientInput{AccountID: patient.ID}); !errors.Is(err, domain.ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}

	doctor := f.register(t, "d@x.com", domain.RoleDoctor)
	if _, err := svc.Create(ctx, ports.CreatePatientInput{AccountID: doctor.ID}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Create(ctx, ports.CreatePatientInput{AccountID: "acc-missing"}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	// Profile removed by an admin can be recreated with initial data.
	existing, _ := f.patients.FindByAccountID(ctx, patient.ID)
	_ = svc.Delete(ctx, existing.ID)
	age := 41
	p, err := svc.Create(ctx, ports.CreatePatientInput{
		AccountID:     patient.ID,
		PatientUpdate: ports.PatientUpdate{Age: &age, Allergies: []string{"penicillin"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Age == nil || *p.Age != 41 || len(p.Allergies) != 1 {
		t.Fatalf("initial data not applied: %+v", p)
	}
}

func TestPatientService_UpdateOwnership(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewPatientService(f.patients, f.accounts, zerolog.Nop())
	ctx := context.Background()

	me := f.register(t, "me@x.com", domain.RolePatient)
	other := f.register(t, "other@x.com", domain.RolePatient)
	doctor := f.register(t, "d@x.com", domain.RoleDoctor)
	otherProfile, _ := f.patients.FindByAccountID(ctx, other.ID)

	gender := "f"
	if _, err := svc.Update(ctx, me, otherProfile.ID, ports.PatientUpdate{Gender: &gender}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, doctor, otherProfile.ID, ports.PatientUpdate{Gender: &gender}); err != nil {
		t.Fatalf("doctor update: %v", err)
	}

	mine, err := svc.UpdateMine(ctx, me, ports.PatientUpdate{Conditions: []string{"asthma"}})
	if err != nil || len(mine.Conditions) != 1 {
		t.Fatalf("UpdateMine: %+v, %v", mine, err)
	}
	if _, err := svc.Mine(ctx, doctor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected doctor forbidden from patient self-service, got %v", err)
	}
}

func TestDoctorService_UpdateOwnership(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewDoctorService(f.doctors, f.accounts, zerolog.Nop())
	ctx := context.Background()

	me := f.register(t, "me@x.com", domain.RoleDoctor)
	other := f.register(t, "other@x.com", domain.RoleDoctor)
	admin := f.register(t, "admin@x.com", domain.RoleAdmin)
	otherProfile, _ := f.doctors.FindByAccountID(ctx, other.ID)

	specialty := "cardiology"
	if _, err := svc.Update(ctx, me, otherProfile.ID, ports.DoctorUpdate{Specialization: &specialty}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := svc.Update(ctx, admin, otherProfile.ID, ports.DoctorUpdate{Specialization: &specialty})
	if err != nil || got.Specialization != specialty {
		t.Fatalf("admin update: %+v, %v", got, err)
	}

	slots := []domain.AvailabilitySlot{{Day: "mon", Start: "09:00", End: "13:00"}}
	mine, err := svc.UpdateMine(ctx, me, ports.DoctorUpdate{Availability: slots})
	if err != nil || len(mine.Availability) != 1 {
		t.Fatalf("UpdateMine: %+v, %v", mine, err)
	}
}

func TestUserService_List(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewUserService(f.accounts, zerolog.Nop())
	f.register(t, "alice@x.com", domain.RolePatient)
	f.register(t, "bob@x.com", domain.RoleDoctor)

	page, err := svc.List(context.Background(), ports.ListFilter{Query: "ALICE"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Items[0].Email != "alice@x.com" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
