package mongo

import (
	"context"
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

const historyCollection = "employee_histories"

// HistoryRepository implements ports.HistoryRepository using MongoDB.
type HistoryRepository struct {
	coll *mongo.Collection
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{coll: db.Collection(historyCollection)}
}

type historyDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FullName       string             `bson:"full_name"`
	ContactNumber  string             `bson:"contact_number"`
	EmailAddress   string             `bson:"email_address"`
	UserImage      *string            `bson:"user_image"`
	RegisteredDate time.Time          `bson:"registered_date"`
	ReleaseDate    time.Time          `bson:"release_date"`
	Occupation     string             `bson:"occupation"`
	Description    string             `bson:"description"`
	AdminID        string             `bson:"admin_id"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d historyDocument) toDomain() *domain.EmployeeHistory {
	return &domain.EmployeeHistory{
		ID:             d.ID.Hex(),
		FullName:       d.FullName,
		ContactNumber:  d.ContactNumber,
		EmailAddress:   d.EmailAddress,
		UserImage:      d.UserImage,
		RegisteredDate: d.RegisteredDate.UTC(),
		ReleaseDate:    d.ReleaseDate.UTC(),
		Occupation:     d.Occupation,
		Description:    d.Description,
		AdminID:        d.AdminID,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

func (r *HistoryRepository) Create(ctx context.Context, h *domain.EmployeeHistory) (*domain.EmployeeHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := historyDocument{
		FullName:       h.FullName,
		ContactNumber:  h.ContactNumber,
		EmailAddress:   h.EmailAddress,
		UserImage:      h.UserImage,
		RegisteredDate: h.RegisteredDate.UTC(),
		ReleaseDate:    h.ReleaseDate.UTC(),
		Occupation:     h.Occupation,
		Description:    h.Description,
		AdminID:        h.AdminID,
		CreatedAt:      h.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert employee history: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *HistoryRepository) Search(ctx context.Context, term string) ([]*domain.EmployeeHistory, error) {
	filter := bson.M{}
	if term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"contact_number": pattern},
			bson.M{"email_address": pattern},
			bson.M{"occupation": pattern},
			bson.M{"description": pattern},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "release_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("search employee history: %w", err)
	}
	defer cur.Close(ctx)

	var docs []historyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("search employee history: decode: %w", err)
	}

	out := make([]*domain.EmployeeHistory, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "release_date", Value: -1}},
	})
	return err
}
