package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const AdvertisementsCollection = "advertisements"

type AdvertisementRepository struct {
	collection *mongo.Collection
}

func NewAdvertisementRepository(db *mongo.Database) *AdvertisementRepository {
	return &AdvertisementRepository{
		collection: db.Collection(AdvertisementsCollection),
	}
}

func (r *AdvertisementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ad)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find advertisement: %w", err)
	}
	return &ad, nil
}

// FindByIDs returns the advertisements that exist among ids, keyed by id
func (r *AdvertisementRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Advertisement, error) {
	result := make(map[primitive.ObjectID]models.Advertisement, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find advertisements: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var ad models.Advertisement
		if err := cursor.Decode(&ad); err != nil {
			return nil, fmt.Errorf("decode advertisement: %w", err)
		}
		result[ad.ID] = ad
	}
	return result, cursor.Err()
}

// FindIDsByOwner returns the ids of every advertisement owned by the client
func (r *AdvertisementRepository) FindIDsByOwner(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"client": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find owned advertisements: %w", err)
	}
	defer cursor.Close(ctx)

	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode advertisement id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

func (r *AdvertisementRepository) FindByOwner(ctx context.Context, clientID primitive.ObjectID) ([]models.Advertisement, error) {
	return r.find(ctx, bson.M{"client": clientID})
}

func (r *AdvertisementRepository) FindByStatus(ctx context.Context, statuses []models.AdvertisementStatus) ([]models.Advertisement, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (r *AdvertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, ad); err != nil {
		return fmt.Errorf("insert advertisement: %w", err)
	}
	return nil
}

func (r *AdvertisementRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AdvertisementStatus) (*models.Advertisement, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ad models.Advertisement
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&ad)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("update advertisement: %w", err)
	}
	return &ad, nil
}

// UpdateContent writes the editable fields of ad. Owner and status are
// left alone.
func (r *AdvertisementRepository) UpdateContent(ctx context.Context, ad *models.Advertisement) (*models.Advertisement, error) {
	update := bson.M{"$set": bson.M{
		"productName":        ad.ProductName,
		"productDescription": ad.ProductDescription,
		"targetAudience":     ad.TargetAudience,
		"budget":             ad.Budget,
		"campaignDuration":   ad.CampaignDuration,
		"category":           ad.Category,
		"keyFeatures":        ad.KeyFeatures,
		"imageUrl":           ad.ImageURL,
		"updatedAt":          ad.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Advertisement
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": ad.ID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, ad.ID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("update advertisement: %w", err)
	}
	return &updated, nil
}

// Count counts advertisements in the given statuses, or all of them when
// none are given
func (r *AdvertisementRepository) Count(ctx context.Context, statuses ...models.AdvertisementStatus) (int64, error) {
	filter := bson.M{}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count advertisements: %w", err)
	}
	return count, nil
}

func (r *AdvertisementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *AdvertisementRepository) find(ctx context.Context, filter bson.M) ([]models.Advertisement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find advertisements: %w", err)
	}
	defer cursor.Close(ctx)

	ads := []models.Advertisement{}
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, fmt.Errorf("decode advertisements: %w", err)
	}
	return ads, nil
}
