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

const collectionConsultations = "consultations"

type ConsultationRepository struct {
	col *mongo.Collection
}

func NewConsultationRepository(db *mongo.Database) *ConsultationRepository {
	return &ConsultationRepository{col: db.Collection(collectionConsultations)}
}

type mongoConsultation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	PatientID   string             `bson:"patient_id"`
	DoctorID    string             `bson:"doctor_id"`
	ScheduledAt time.Time          `bson:"scheduled_at"`
	Notes       string             `bson:"notes,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m mongoConsultation) toDomain() *domain.Consultation {
	return &domain.Consultation{
		ID:          m.ID.Hex(),
		PatientID:   m.PatientID,
		DoctorID:    m.DoctorID,
		ScheduledAt: m.ScheduledAt.UTC(),
		Notes:       m.Notes,
		Status:      domain.ConsultationStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoConsultation{
		PatientID:   c.PatientID,
		DoctorID:    c.DoctorID,
		ScheduledAt: c.ScheduledAt,
		Notes:       c.Notes,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storageErr("insert consultation", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id string) (*domain.Consultation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoConsultation
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConsultationNotFound
		}
		return nil, storageErr("find consultation", err)
	}
	return doc.toDomain(), nil
}

func (r *ConsultationRepository) Update(ctx context.Context, id string, u ports.ConsultationUpdate) (*domain.Consultation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.ScheduledAt != nil {
		set["scheduled_at"] = *u.ScheduledAt
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoConsultation
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConsultationNotFound
		}
		return nil, storageErr("update consultation", err)
	}
	return doc.toDomain(), nil
}

// List returns consultations newest first.
func (r *ConsultationRepository) List(ctx context.Context, f ports.ConsultationFilter) ([]*domain.Consultation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.PatientID != "" {
		filter["patient_id"] = f.PatientID
	}
	if f.DoctorID != "" {
		filter["doctor_id"] = f.DoctorID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("count consultations", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Skip, f.Limit))
	if err != nil {
		return nil, 0, storageErr("list consultations", err)
	}
	defer cur.Close(ctx)

	var docs []mongoConsultation
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storageErr("decode consultations", err)
	}

	items := make([]*domain.Consultation, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
