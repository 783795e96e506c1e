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

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

const packageCollection = "packages"

// PackageRepository implements ports.PackageRepository using MongoDB.
type PackageRepository struct {
	coll *mongo.Collection
}

var _ ports.PackageRepository = (*PackageRepository)(nil)

func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{coll: db.Collection(packageCollection)}
}

type packageDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"package_name"`
	Features         string             `bson:"package_features"`
	GeneralPrice     float64            `bson:"general_price"`
	PromotionalPrice float64            `bson:"promotional_price"`
	IsActive         bool               `bson:"is_active"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d packageDocument) toDomain() *domain.Package {
	return &domain.Package{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Features:         d.Features,
		GeneralPrice:     d.GeneralPrice,
		PromotionalPrice: d.PromotionalPrice,
		IsActive:         d.IsActive,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func toPackageDocument(p *domain.Package) packageDocument {
	return packageDocument{
		Name:             p.Name,
		Features:         p.Features,
		GeneralPrice:     p.GeneralPrice,
		PromotionalPrice: p.PromotionalPrice,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) (*domain.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toPackageDocument(p)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPackageNameTaken
		}
		return nil, fmt.Errorf("insert package: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc packageDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PackageRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	filter := bson.M{"package_name": domain.NormalizePackageName(name)}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check package name: %w", err)
	}
	return n > 0, nil
}

func (r *PackageRepository) List(ctx context.Context) ([]*domain.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []packageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list packages: decode: %w", err)
	}

	out := make([]*domain.Package, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PackageRepository) Update(ctx context.Context, p *domain.Package) (*domain.Package, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"package_name":      p.Name,
		"package_features":  p.Features,
		"general_price":     p.GeneralPrice,
		"promotional_price": p.PromotionalPrice,
		"is_active":         p.IsActive,
		"updatedAt":         p.UpdatedAt.UTC(),
	}

	var doc packageDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrPackageNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrPackageNameTaken
		}
		return nil, fmt.Errorf("update package: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *PackageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "package_name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}
