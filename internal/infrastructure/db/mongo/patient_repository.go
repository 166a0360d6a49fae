package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

const collectionPatients = "patients"

type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

type mongoPatient struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	AccountID      string             `bson:"account_id"`
	FullName       string             `bson:"full_name"`
	Age            *int               `bson:"age,omitempty"`
	Gender         string             `bson:"gender,omitempty"`
	Conditions     []string           `bson:"conditions"`
	MedicalHistory []string           `bson:"medical_history"`
	Allergies      []string           `bson:"allergies"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (m mongoPatient) toDomain() *domain.PatientProfile {
	return &domain.PatientProfile{
		ID:             m.ID.Hex(),
		AccountID:      m.AccountID,
		FullName:       m.FullName,
		Age:            m.Age,
		Gender:         m.Gender,
		Conditions:     nonNil(m.Conditions),
		MedicalHistory: nonNil(m.MedicalHistory),
		Allergies:      nonNil(m.Allergies),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Create inserts a patient profile. The unique account_id index rejects a
// second profile for the same account.
func (r *PatientRepository) Create(ctx context.Context, p *domain.PatientProfile) (*domain.PatientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPatient{
		AccountID:      p.AccountID,
		FullName:       p.FullName,
		Age:            p.Age,
		Gender:         p.Gender,
		Conditions:     nonNil(p.Conditions),
		MedicalHistory: nonNil(p.MedicalHistory),
		Allergies:      nonNil(p.Allergies),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, storageErr("insert patient", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.PatientProfile, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PatientRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.PatientProfile, error) {
	return r.findOne(ctx, bson.M{"account_id": accountID})
}

func (r *PatientRepository) findOne(ctx context.Context, filter bson.M) (*domain.PatientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPatient
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, storageErr("find patient", err)
	}
	return doc.toDomain(), nil
}

func (r *PatientRepository) Update(ctx context.Context, id string, u ports.PatientUpdate) (*domain.PatientProfile, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.Age != nil {
		set["age"] = *u.Age
	}
	if u.Gender != nil {
		set["gender"] = *u.Gender
	}
	if u.Conditions != nil {
		set["conditions"] = u.Conditions
	}
	if u.MedicalHistory != nil {
		set["medical_history"] = u.MedicalHistory
	}
	if u.Allergies != nil {
		set["allergies"] = u.Allergies
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPatient
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, storageErr("update patient", err)
	}
	return doc.toDomain(), nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storageErr("delete patient", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// List matches Query against the patient's name.
func (r *PatientRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.PatientProfile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Query != "" {
		filter["full_name"] = containsFold(f.Query)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("count patients", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Skip, f.Limit))
	if err != nil {
		return nil, 0, storageErr("list patients", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPatient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storageErr("decode patients", err)
	}

	items := make([]*domain.PatientProfile, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
