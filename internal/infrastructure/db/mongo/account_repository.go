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

const collectionUsers = "users"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionUsers)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	FullName     string             `bson:"full_name"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID.Hex(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		FullName:     m.FullName,
		Active:       m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts a new account. The unique email index turns a concurrent
// duplicate into domain.ErrDuplicateEmail.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAccount{
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		FullName:     a.FullName,
		IsActive:     a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, storageErr("insert account", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("find account", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, u ports.AccountUpdate) (*domain.Account, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.Active != nil {
		set["is_active"] = *u.Active
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("update account", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storageErr("delete account", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List matches Query against email and full name.
func (r *AccountRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Account, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"email": containsFold(f.Query)},
			bson.M{"full_name": containsFold(f.Query)},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("count accounts", err)
	}

	cur, err := r.col.Find(ctx, filter, findPage(f.Skip, f.Limit))
	if err != nil {
		return nil, 0, storageErr("list accounts", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storageErr("decode accounts", err)
	}

	items := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
