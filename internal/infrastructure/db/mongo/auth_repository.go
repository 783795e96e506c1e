package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

const (
	adminCollection = "admins"
	userCollection  = "users"
)

// AccountRepository stores one principal type in its own collection. Admin
// and User share the document layout; the kind converts between the stored
// document and the concrete domain type.
type AccountRepository[P any] struct {
	coll *mongo.Collection
	kind domain.PrincipalKind[P]
}

var (
	_ ports.AccountRepository[*domain.Admin] = (*AccountRepository[*domain.Admin])(nil)
	_ ports.AccountRepository[*domain.User]  = (*AccountRepository[*domain.User])(nil)
)

func NewAdminRepository(db *mongo.Database) *AccountRepository[*domain.Admin] {
	return &AccountRepository[*domain.Admin]{coll: db.Collection(adminCollection), kind: domain.AdminKind}
}

func NewUserRepository(db *mongo.Database) *AccountRepository[*domain.User] {
	return &AccountRepository[*domain.User]{coll: db.Collection(userCollection), kind: domain.UserKind}
}

type accountDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FullName      string             `bson:"full_name"`
	ContactNumber string             `bson:"contact_number"`
	EmailAddress  string             `bson:"email_address"`
	Password      string             `bson:"password"`
	UserImage     *string            `bson:"user_image"`
	RefreshToken  *string            `bson:"refresh_token"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d accountDocument) toDomain() domain.Account {
	return domain.Account{
		ID:            d.ID.Hex(),
		FullName:      d.FullName,
		ContactNumber: d.ContactNumber,
		EmailAddress:  d.EmailAddress,
		PasswordHash:  d.Password,
		UserImage:     d.UserImage,
		RefreshToken:  d.RefreshToken,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (r *AccountRepository[P]) findOne(ctx context.Context, filter bson.M) (P, error) {
	var zero P

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrAccountNotFound
		}
		return zero, fmt.Errorf("find %s: %w", r.kind.Role, err)
	}
	return r.kind.New(doc.toDomain()), nil
}

func (r *AccountRepository[P]) FindByEmail(ctx context.Context, email string) (P, error) {
	return r.findOne(ctx, bson.M{"email_address": domain.NormalizeEmail(email)})
}

func (r *AccountRepository[P]) FindByID(ctx context.Context, id string) (P, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		var zero P
		return zero, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository[P]) FindByRefreshToken(ctx context.Context, token string) (P, error) {
	return r.findOne(ctx, bson.M{"refresh_token": token})
}

// SetRefreshToken is a single-document $set, so concurrent logins never leave
// a partial write behind; the last writer wins.
func (r *AccountRepository[P]) SetRefreshToken(ctx context.Context, id string, token *string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"refresh_token": token, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository[P]) Create(ctx context.Context, principal P) (P, error) {
	var zero P
	a := r.kind.Account(principal)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := accountDocument{
		FullName:      a.FullName,
		ContactNumber: a.ContactNumber,
		EmailAddress:  a.EmailAddress,
		Password:      a.PasswordHash,
		UserImage:     a.UserImage,
		RefreshToken:  a.RefreshToken,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, domain.ErrEmailTaken
		}
		return zero, fmt.Errorf("insert %s: %w", r.kind.Role, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return zero, fmt.Errorf("insert %s: unexpected id type %T", r.kind.Role, res.InsertedID)
	}
	doc.ID = oid
	return r.kind.New(doc.toDomain()), nil
}

func (r *AccountRepository[P]) Update(ctx context.Context, id string, changes ports.AccountChanges) (P, error) {
	var zero P

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, domain.ErrAccountNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if changes.FullName != nil {
		set["full_name"] = *changes.FullName
	}
	if changes.ContactNumber != nil {
		set["contact_number"] = *changes.ContactNumber
	}
	if changes.EmailAddress != nil {
		set["email_address"] = *changes.EmailAddress
	}
	if changes.PasswordHash != nil {
		set["password"] = *changes.PasswordHash
	}
	if changes.UserImage != nil {
		set["user_image"] = *changes.UserImage
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return zero, domain.ErrAccountNotFound
		case mongo.IsDuplicateKeyError(err):
			return zero, domain.ErrEmailTaken
		}
		return zero, fmt.Errorf("update %s: %w", r.kind.Role, err)
	}
	return r.kind.New(doc.toDomain()), nil
}

func (r *AccountRepository[P]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind.Role, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository[P]) Search(ctx context.Context, term string) ([]P, error) {
	filter := bson.M{}
	if term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"contact_number": pattern},
			bson.M{"email_address": pattern},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.kind.Role, err)
	}
	defer cur.Close(ctx)

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("search %s: decode: %w", r.kind.Role, err)
	}

	out := make([]P, 0, len(docs))
	for _, d := range docs {
		out = append(out, r.kind.New(d.toDomain()))
	}
	return out, nil
}

func (r *AccountRepository[P]) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email_address": domain.NormalizeEmail(email)}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the unique login index and the refresh-token lookup
// index used by logout.
func (r *AccountRepository[P]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_address", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
