package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arjunkashyap/contactbook-backend/internal/models"
	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

const contactsCollection = "contacts"

// ContactRepository is the MongoDB-backed contact store.
type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(contactsCollection)}
}

// Insert writes the whole batch in a single ordered InsertMany. Records are
// validated by the service before this is called, so nothing is written when
// any record is bad.
func (r *ContactRepository) Insert(ctx context.Context, contacts []models.Contact) ([]models.Contact, error) {
	docs := make([]interface{}, 0, len(contacts))
	for i := range contacts {
		contacts[i].ID = primitive.NewObjectID()
		docs = append(docs, contacts[i])
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("inserting contacts: %w", err)
	}
	return contacts, nil
}

// ListByOwner returns the owner's contacts in insertion order.
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer cur.Close(ctx)

	contacts := make([]models.Contact, 0)
	for cur.Next(ctx) {
		var c models.Contact
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decoding contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	return contacts, nil
}

func (r *ContactRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "user_id": ownerID})
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ContactRepository) findOne(ctx context.Context, filter bson.M) (*models.Contact, error) {
	var c models.Contact
	err := r.col.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("finding contact: %w", err)
	}
	return &c, nil
}

// Update applies the non-nil patch fields and refreshes updated_at, returning
// the post-update document.
func (r *ContactRepository) Update(ctx context.Context, id string, patch services.ContactPatch, now time.Time) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrNotFound
	}

	set := bson.M{"updated_at": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Contact
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return &updated, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
