package domain

import "testing"

func TestConsultationStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ConsultationStatus
		want     bool
	}{
		{ConsultationScheduled, ConsultationInProgress, true},
		{ConsultationScheduled, ConsultationCompleted, true},
		{ConsultationScheduled, ConsultationCancelled, true},
		{ConsultationInProgress, ConsultationCompleted, true},
		{ConsultationInProgress, ConsultationCancelled, true},
		{ConsultationInProgress, ConsultationScheduled, false},
		{ConsultationCompleted, ConsultationCancelled, false},
		{ConsultationCancelled, ConsultationScheduled, false},
		{ConsultationScheduled, ConsultationScheduled, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RolePatient, RoleDoctor, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("expected %q to be valid", r)
		}
	}
	if Role("nurse").Valid() {
		t.Fatalf("expected unknown role to be invalid")
	}
	if RoleAdmin.HasProfile() {
		t.Fatalf("admin must not have a profile")
	}
}
