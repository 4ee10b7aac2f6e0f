package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

var authorIDFields = toSet("_id")

type authorDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	LastName  string             `bson:"lastName,omitempty"`
	Avatar    string             `bson:"avatar,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Role      string             `bson:"role"`
	GoogleID  string             `bson:"googleId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *authorDocument) toDomain() *domain.Author {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		role = domain.RoleStandard
	}
	return &domain.Author{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		LastName:     d.LastName,
		Avatar:       d.Avatar,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		GoogleID:     d.GoogleID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// withoutPassword is applied to every read that does not verify credentials.
var withoutPassword = bson.M{"password": 0}

// passwordAccountsFirst orders authors sharing an email so the account with a
// stored secret wins, then the oldest. Missing fields sort lowest.
var passwordAccountsFirst = bson.D{{Key: "password", Value: -1}, {Key: "_id", Value: 1}}

type AuthorRepository struct {
	col *mongo.Collection
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{col: db.Collection(collectionAuthors)}
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := authorDocument{
		Name:      author.Name,
		LastName:  author.LastName,
		Avatar:    author.Avatar,
		Email:     author.Email,
		Password:  author.PasswordHash,
		Role:      string(author.Role),
		GoogleID:  author.GoogleID,
		CreatedAt: author.CreatedAt,
		UpdatedAt: author.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}

	created := *author
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*domain.Author, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutPassword))
}

// FindByEmail is the only read that returns the stored password hash. Email
// is not unique across providers, so the choice is made by an explicit sort.
func (r *AuthorRepository) FindByEmail(ctx context.Context, email string) (*domain.Author, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetSort(passwordAccountsFirst))
}

func (r *AuthorRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc authorDocument
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthorRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Author, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Author{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	return decodeAuthors(ctx, cur)
}

func (r *AuthorRepository) List(ctx context.Context, q *query.Query) ([]*domain.Author, int64, error) {
	filter, err := buildFilter(q.Criteria, authorIDFields)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(q, "password"))
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	items, err := decodeAuthors(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func decodeAuthors(ctx context.Context, cur *mongo.Cursor) ([]*domain.Author, error) {
	defer cur.Close(ctx)
	out := []*domain.Author{}
	for cur.Next(ctx) {
		var doc authorDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return out, nil
}

func authorPatchUpdate(patch domain.AuthorPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	return bson.M{"$set": set}
}

func (r *AuthorRepository) Update(ctx context.Context, id string, patch domain.AuthorPatch) (*domain.Author, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var doc authorDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, authorPatchUpdate(patch, time.Now().UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("update author: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAuthorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAuthorNotFound
	}
	return nil
}

// FindOrCreateByExternalID upserts on googleId so concurrent first logins
// produce one record. The unique partial index turns a lost race into a
// duplicate-key error, answered by reading the winner's record.
func (r *AuthorRepository) FindOrCreateByExternalID(ctx context.Context, p domain.ExternalProfile) (*domain.Author, bool, error) {
	if p.ExternalID == "" {
		return nil, false, domain.Invalid("external id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"googleId": p.ExternalID}
	update := bson.M{"$setOnInsert": bson.M{
		"name":      p.Name,
		"lastName":  p.LastName,
		"avatar":    p.Avatar,
		"email":     p.Email,
		"role":      string(domain.RoleStandard),
		"googleId":  p.ExternalID,
		"createdAt": now,
		"updatedAt": now,
	}}

	created := false
	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	switch {
	case err == nil:
		created = res.UpsertedCount > 0
	case mongo.IsDuplicateKeyError(err):
	default:
		return nil, false, fmt.Errorf("upsert author: %w", err)
	}

	author, err := r.findOne(ctx, filter, options.FindOne().SetProjection(withoutPassword))
	if err != nil {
		return nil, false, err
	}
	return author, created, nil
}
