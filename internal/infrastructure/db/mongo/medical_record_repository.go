package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

const collectionMedicalRecords = "medical_records"

type MedicalRecordRepository struct {
	col *mongo.Collection
}

func NewMedicalRecordRepository(db *mongo.Database) *MedicalRecordRepository {
	return &MedicalRecordRepository{col: db.Collection(collectionMedicalRecords)}
}

type mongoRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PatientID  string             `bson:"patient_id"`
	RecordType string             `bson:"record_type"`
	Title      string             `bson:"title"`
	Metadata   bson.M             `bson:"metadata"`
	CreatedBy  string             `bson:"created_by"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (m mongoRecord) toDomain() *domain.MedicalRecord {
	metadata := make(map[string]any, len(m.Metadata))
	for k, v := range m.Metadata {
		metadata[k] = v
	}
	return &domain.MedicalRecord{
		ID:         m.ID.Hex(),
		PatientID:  m.PatientID,
		RecordType: m.RecordType,
		Title:      m.Title,
		Metadata:   metadata,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *domain.MedicalRecord) (*domain.MedicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRecord{
		PatientID:  rec.PatientID,
		RecordType: rec.RecordType,
		Title:      rec.Title,
		Metadata:   bson.M(rec.Metadata),
		CreatedBy:  rec.CreatedBy,
		CreatedAt:  rec.CreatedAt,
	}
	if doc.Metadata == nil {
		doc.Metadata = bson.M{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storageErr("insert medical record", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MedicalRecordRepository) FindByID(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRecord
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, storageErr("find medical record", err)
	}
	return doc.toDomain(), nil
}

func (r *MedicalRecordRepository) List(ctx context.Context, f ports.RecordFilter) ([]*domain.MedicalRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"patient_id": f.PatientID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("count medical records", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Skip, f.Limit))
	if err != nil {
		return nil, 0, storageErr("list medical records", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storageErr("decode medical records", err)
	}

	items := make([]*domain.MedicalRecord, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
