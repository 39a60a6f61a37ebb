package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ApplicationsCollection = "applications"

type ApplicationRepository struct {
	collection *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		collection: db.Collection(ApplicationsCollection),
	}
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var app models.Application
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// ApplyTransition writes the status and review records in one document
// update, matched on the status the caller observed. When nothing matches
// the document is either gone or has moved on.
func (r *ApplicationRepository) ApplyTransition(ctx context.Context, id primitive.ObjectID, update models.ApplicationUpdate) (*models.Application, error) {
	filter := bson.M{"_id": id, "status": update.From}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.Application
	err := r.collection.FindOneAndUpdate(ctx, filter, transitionDocument(update), opts).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return nil, fmt.Errorf("check application: %w", countErr)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("%w: application %s is no longer %s", workflow.ErrStaleState, id.Hex(), update.From)
	}
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
	}
	return nil
}

// Find returns the applications selected by filter, newest first
func (r *ApplicationRepository) Find(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}
	cursor, err := r.collection.Find(ctx, filterDocument(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps := []models.Application{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, filter models.ApplicationFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

func transitionDocument(update models.ApplicationUpdate) bson.M {
	set := bson.M{
		"status":    update.To,
		"updatedAt": update.At,
	}
	if update.EmployeeReview != nil {
		set["employeeReview"] = update.EmployeeReview
	}
	if update.ClientReview != nil {
		set["clientReview"] = update.ClientReview
	}
	return bson.M{"$set": set}
}

func filterDocument(filter models.ApplicationFilter) bson.M {
	doc := bson.M{}
	if filter.AgencyID != nil {
		doc["agency"] = *filter.AgencyID
	}
	switch {
	case filter.AdvertisementID != nil:
		doc["advertisement"] = *filter.AdvertisementID
	case filter.AdvertisementIDs != nil:
		doc["advertisement"] = bson.M{"$in": filter.AdvertisementIDs}
	}
	switch len(filter.Statuses) {
	case 0:
	case 1:
		doc["status"] = filter.Statuses[0]
	default:
		doc["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.ReviewedBy != nil {
		doc["employeeReview.reviewedBy"] = *filter.ReviewedBy
	}
	return doc
}
