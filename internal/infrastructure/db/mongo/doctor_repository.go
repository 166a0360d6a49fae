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

const collectionDoctors = "doctors"

type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

type mongoSlot struct {
	Day   string `bson:"day"`
	Start string `bson:"start"`
	End   string `bson:"end"`
}

type mongoDoctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	AccountID       string             `bson:"account_id"`
	FullName        string             `bson:"full_name"`
	Specialization  string             `bson:"specialization,omitempty"`
	YearsExperience *int               `bson:"years_experience,omitempty"`
	LicenseNo       string             `bson:"license_no,omitempty"`
	Availability    []mongoSlot        `bson:"availability"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toMongoSlots(slots []domain.AvailabilitySlot) []mongoSlot {
	out := make([]mongoSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, mongoSlot{Day: s.Day, Start: s.Start, End: s.End})
	}
	return out
}

func (m mongoDoctor) toDomain() *domain.DoctorProfile {
	slots := make([]domain.AvailabilitySlot, 0, len(m.Availability))
	for _, s := range m.Availability {
		slots = append(slots, domain.AvailabilitySlot{Day: s.Day, Start: s.Start, End: s.End})
	}
	return &domain.DoctorProfile{
		ID:              m.ID.Hex(),
		AccountID:       m.AccountID,
		FullName:        m.FullName,
		Specialization:  m.Specialization,
		YearsExperience: m.YearsExperience,
		LicenseNo:       m.LicenseNo,
		Availability:    slots,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func (r *DoctorRepository) Create(ctx context.Context, d *domain.DoctorProfile) (*domain.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoDoctor{
		AccountID:       d.AccountID,
		FullName:        d.FullName,
		Specialization:  d.Specialization,
		YearsExperience: d.YearsExperience,
		LicenseNo:       d.LicenseNo,
		Availability:    toMongoSlots(d.Availability),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, storageErr("insert doctor", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.DoctorProfile, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *DoctorRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.DoctorProfile, error) {
	return r.findOne(ctx, bson.M{"account_id": accountID})
}

func (r *DoctorRepository) findOne(ctx context.Context, filter bson.M) (*domain.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoDoctor
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, storageErr("find doctor", err)
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) Update(ctx context.Context, id string, u ports.DoctorUpdate) (*domain.DoctorProfile, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.Specialization != nil {
		set["specialization"] = *u.Specialization
	}
	if u.YearsExperience != nil {
		set["years_experience"] = *u.YearsExperience
	}
	if u.LicenseNo != nil {
		set["license_no"] = *u.LicenseNo
	}
	if u.Availability != nil {
		set["availability"] = toMongoSlots(u.Availability)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoDoctor
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, storageErr("update doctor", err)
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storageErr("delete doctor", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

// List matches Query against name and specialization.
func (r *DoctorRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.DoctorProfile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"full_name": containsFold(f.Query)},
			bson.M{"specialization": containsFold(f.Query)},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("count doctors", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Skip, f.Limit))
	if err != nil {
		return nil, 0, storageErr("list doctors", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDoctor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storageErr("decode doctors", err)
	}

	items := make([]*domain.DoctorProfile, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
