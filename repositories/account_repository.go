package repositories

import (
	"context"
	"fmt"

	"github.com/HSouheill/admarket_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AgenciesCollection = "agencies"
	ClientsCollection  = "clients"
)

// AccountRepository reads the display fields of agency and client accounts.
// Registration and credentials live elsewhere.
type AccountRepository struct {
	agencies *mongo.Collection
	clients  *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		agencies: db.Collection(AgenciesCollection),
		clients:  db.Collection(ClientsCollection),
	}
}

// FindAgencies returns summaries for the agencies among ids, keyed by id
func (r *AccountRepository) FindAgencies(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AgencySummary, error) {
	result := make(map[primitive.ObjectID]models.AgencySummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	opts := options.Find().SetProjection(bson.M{"fullname": 1, "agencyName": 1, "email": 1})
	cursor, err := r.agencies.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find agencies: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var summary models.AgencySummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("decode agency: %w", err)
		}
		result[summary.ID] = summary
	}
	return result, cursor.Err()
}

// FindClients returns summaries for the clients among ids, keyed by id
func (r *AccountRepository) FindClients(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ClientSummary, error) {
	result := make(map[primitive.ObjectID]models.ClientSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	opts := options.Find().SetProjection(bson.M{"fullname": 1, "company": 1})
	cursor, err := r.clients.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var summary models.ClientSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		result[summary.ID] = summary
	}
	return result, cursor.Err()
}

func (r *AccountRepository) CountAgencies(ctx context.Context) (int64, error) {
	count, err := r.agencies.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count agencies: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) CountClients(ctx context.Context) (int64, error) {
	count, err := r.clients.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}
