package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID      map[string]*domain.Account
	seq       int
	createErr error
	deleted   []string
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	copy := cloneAccount(a)
	copy.ID = fmt.Sprintf("acc-%d", r.seq)
	r.byID[copy.ID] = copy
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, id string, u ports.AccountUpdate) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if u.FullName != nil {
		a.FullName = *u.FullName
	}
	if u.Active != nil {
		a.Active = *u.Active
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.Account, int64, error) {
	var matched []*domain.Account
	for _, a := range r.byID {
		if f.Query != "" && !strings.Contains(strings.ToLower(a.Email+" "+a.FullName), strings.ToLower(f.Query)) {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

type stubPatientRepo struct {
	byID      map[string]*domain.PatientProfile
	seq       int
	createErr error
	findErr   error
	lastList  ports.ListFilter
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{byID: make(map[string]*domain.PatientProfile)}
}

func clonePatient(p *domain.PatientProfile) *domain.PatientProfile {
	clone := *p
	return &clone
}

func (r *stubPatientRepo) Create(_ context.Context, p *domain.PatientProfile) (*domain.PatientProfile, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.AccountID == p.AccountID {
			return nil, domain.ErrProfileExists
		}
	}
	r.seq++
	copy := clonePatient(p)
	copy.ID = fmt.Sprintf("pat-%d", r.seq)
	r.byID[copy.ID] = copy
	return clonePatient(copy), nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, id string) (*domain.PatientProfile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	return clonePatient(p), nil
}

func (r *stubPatientRepo) FindByAccountID(_ context.Context, accountID string) (*domain.PatientProfile, error) {
	for _, p := range r.byID {
		if p.AccountID == accountID {
			return clonePatient(p), nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *stubPatientRepo) Update(_ context.Context, id string, u ports.PatientUpdate) (*domain.PatientProfile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	applyPatientUpdate(p, u)
	return clonePatient(p), nil
}

func (r *stubPatientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPatientNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPatientRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.PatientProfile, int64, error) {
	r.lastList = f
	var matched []*domain.PatientProfile
	for _, p := range r.byID {
		matched = append(matched, clonePatient(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

type stubDoctorRepo struct {
	byID      map[string]*domain.DoctorProfile
	seq       int
	createErr error
	findErr   error
}

func newStubDoctorRepo() *stubDoctorRepo {
	return &stubDoctorRepo{byID: make(map[string]*domain.DoctorProfile)}
}

func cloneDoctor(d *domain.DoctorProfile) *domain.DoctorProfile {
	clone := *d
	return &clone
}

func (r *stubDoctorRepo) Create(_ context.Context, d *domain.DoctorProfile) (*domain.DoctorProfile, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.AccountID == d.AccountID {
			return nil, domain.ErrProfileExists
		}
	}
	r.seq++
	copy := cloneDoctor(d)
	copy.ID = fmt.Sprintf("doc-%d", r.seq)
	r.byID[copy.ID] = copy
	return cloneDoctor(copy), nil
}

func (r *stubDoctorRepo) FindByID(_ context.Context, id string) (*domain.DoctorProfile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return cloneDoctor(d), nil
}

func (r *stubDoctorRepo) FindByAccountID(_ context.Context, accountID string) (*domain.DoctorProfile, error) {
	for _, d := range r.byID {
		if d.AccountID == accountID {
			return cloneDoctor(d), nil
		}
	}
	return nil, domain.ErrDoctorNotFound
}

func (r *stubDoctorRepo) Update(_ context.Context, id string, u ports.DoctorUpdate) (*domain.DoctorProfile, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	applyDoctorUpdate(d, u)
	return cloneDoctor(d), nil
}

func (r *stubDoctorRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrDoctorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubDoctorRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.DoctorProfile, int64, error) {
	var matched []*domain.DoctorProfile
	for _, d := range r.byID {
		matched = append(matched, cloneDoctor(d))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

type stubConsultationRepo struct {
	byID     map[string]*domain.Consultation
	seq      int
	lastList ports.ConsultationFilter
}

func newStubConsultationRepo() *stubConsultationRepo {
	return &stubConsultationRepo{byID: make(map[string]*domain.Consultation)}
}

func (r *stubConsultationRepo) Create(_ context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	r.seq++
	copy := *c
	copy.ID = fmt.Sprintf("con-%d", r.seq)
	r.byID[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubConsultationRepo) FindByID(_ context.Context, id string) (*domain.Consultation, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubConsultationRepo) Update(_ context.Context, id string, u ports.ConsultationUpdate) (*domain.Consultation, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}
	if u.ScheduledAt != nil {
		c.ScheduledAt = *u.ScheduledAt
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	out := *c
	return &out, nil
}

func (r *stubConsultationRepo) List(_ context.Context, f ports.ConsultationFilter) ([]*domain.Consultation, int64, error) {
	r.lastList = f
	var matched []*domain.Consultation
	for _, c := range r.byID {
		if f.PatientID != "" && c.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && c.DoctorID != f.DoctorID {
			continue
		}
		out := *c
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return page(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

type stubRecordRepo struct {
	byID     map[string]*domain.MedicalRecord
	seq      int
	lastList ports.RecordFilter
}

func newStubRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{byID: make(map[string]*domain.MedicalRecord)}
}

func (r *stubRecordRepo) Create(_ context.Context, rec *domain.MedicalRecord) (*domain.MedicalRecord, error) {
	r.seq++
	copy := *rec
	copy.ID = fmt.Sprintf("rec-%d", r.seq)
	r.byID[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubRecordRepo) FindByID(_ context.Context, id string) (*domain.MedicalRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

func (r *stubRecordRepo) List(_ context.Context, f ports.RecordFilter) ([]*domain.MedicalRecord, int64, error) {
	r.lastList = f
	var matched []*domain.MedicalRecord
	for _, rec := range r.byID {
		if rec.PatientID != f.PatientID {
			continue
		}
		out := *rec
		matched = append(matched, &out)
	}
	return page(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

// stubRevocations mirrors the SETNX semantics of the Redis store.
type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.revoked[jti]; ok {
		return false, nil
	}
	s.revoked[jti] = ttl
	return true, nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[jti]
	return ok, nil
}
