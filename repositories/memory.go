package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryApplicationStore keeps applications in process. Every read returns
// a copy so callers never share review records with the store.
type MemoryApplicationStore struct {
	mu   sync.Mutex
	apps map[primitive.ObjectID]models.Application
}

func NewMemoryApplicationStore() *MemoryApplicationStore {
	return &MemoryApplicationStore{apps: make(map[primitive.ObjectID]models.Application)}
}

func (s *MemoryApplicationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
	}
	out := cloneApplication(app)
	return &out, nil
}

func (s *MemoryApplicationStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	if _, exists := s.apps[app.ID]; exists {
		return fmt.Errorf("insert application: duplicate id %s", app.ID.Hex())
	}
	s.apps[app.ID] = cloneApplication(*app)
	return nil
}

func (s *MemoryApplicationStore) ApplyTransition(_ context.Context, id primitive.ObjectID, update models.ApplicationUpdate) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
	}
	if app.Status != update.From {
		return nil, fmt.Errorf("%w: application %s is no longer %s", workflow.ErrStaleState, id.Hex(), update.From)
	}
	updated := workflow.Apply(app, update)
	s.apps[id] = updated
	out := cloneApplication(updated)
	return &out, nil
}

func (s *MemoryApplicationStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return fmt.Errorf("%w: application %s", workflow.ErrNotFound, id.Hex())
	}
	delete(s.apps, id)
	return nil
}

func (s *MemoryApplicationStore) Find(_ context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := []models.Application{}
	for _, app := range s.apps {
		if workflow.Matches(filter, &app) {
			apps = append(apps, cloneApplication(app))
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID.Hex() > apps[j].ID.Hex()
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	if filter.Limit > 0 && int64(len(apps)) > filter.Limit {
		apps = apps[:filter.Limit]
	}
	return apps, nil
}

func (s *MemoryApplicationStore) Count(ctx context.Context, filter models.ApplicationFilter) (int64, error) {
	filter.Limit = 0
	apps, err := s.Find(ctx, filter)
	return int64(len(apps)), err
}

func cloneApplication(app models.Application) models.Application {
	if app.EmployeeReview != nil {
		review := *app.EmployeeReview
		app.EmployeeReview = &review
	}
	if app.ClientReview != nil {
		review := *app.ClientReview
		app.ClientReview = &review
	}
	if app.Budget != nil {
		budget := *app.Budget
		app.Budget = &budget
	}
	app.Portfolio = append([]models.PortfolioItem(nil), app.Portfolio...)
	return app
}

// MemoryAdvertisementStore keeps advertisements in process
type MemoryAdvertisementStore struct {
	mu  sync.RWMutex
	ads map[primitive.ObjectID]models.Advertisement
}

func NewMemoryAdvertisementStore() *MemoryAdvertisementStore {
	return &MemoryAdvertisementStore{ads: make(map[primitive.ObjectID]models.Advertisement)}
}

func (s *MemoryAdvertisementStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	return &ad, nil
}

func (s *MemoryAdvertisementStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[primitive.ObjectID]models.Advertisement, len(ids))
	for _, id := range ids {
		if ad, ok := s.ads[id]; ok {
			result[id] = ad
		}
	}
	return result, nil
}

func (s *MemoryAdvertisementStore) FindIDsByOwner(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ads, err := s.FindByOwner(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	return ids, nil
}

func (s *MemoryAdvertisementStore) FindByOwner(_ context.Context, clientID primitive.ObjectID) ([]models.Advertisement, error) {
	return s.filter(func(ad models.Advertisement) bool { return ad.OwnerClientID == clientID }), nil
}

func (s *MemoryAdvertisementStore) FindByStatus(_ context.Context, statuses []models.AdvertisementStatus) ([]models.Advertisement, error) {
	return s.filter(func(ad models.Advertisement) bool {
		for _, status := range statuses {
			if ad.Status == status {
				return true
			}
		}
		return false
	}), nil
}

func (s *MemoryAdvertisementStore) Create(_ context.Context, ad *models.Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	s.ads[ad.ID] = *ad
	return nil
}

func (s *MemoryAdvertisementStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.AdvertisementStatus) (*models.Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	ad.Status = status
	ad.UpdatedAt = time.Now()
	s.ads[id] = ad
	return &ad, nil
}

func (s *MemoryAdvertisementStore) UpdateContent(_ context.Context, ad *models.Advertisement) (*models.Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.ads[ad.ID]
	if !ok {
		return nil, fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, ad.ID.Hex())
	}
	stored.ProductName = ad.ProductName
	stored.ProductDescription = ad.ProductDescription
	stored.TargetAudience = ad.TargetAudience
	stored.Budget = ad.Budget
	stored.CampaignDuration = ad.CampaignDuration
	stored.Category = ad.Category
	stored.KeyFeatures = append([]string(nil), ad.KeyFeatures...)
	stored.ImageURL = ad.ImageURL
	stored.UpdatedAt = ad.UpdatedAt
	s.ads[ad.ID] = stored
	return &stored, nil
}

func (s *MemoryAdvertisementStore) Count(ctx context.Context, statuses ...models.AdvertisementStatus) (int64, error) {
	if len(statuses) == 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return int64(len(s.ads)), nil
	}
	ads, err := s.FindByStatus(ctx, statuses)
	return int64(len(ads)), err
}

func (s *MemoryAdvertisementStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[id]; !ok {
		return fmt.Errorf("%w: advertisement %s", workflow.ErrNotFound, id.Hex())
	}
	delete(s.ads, id)
	return nil
}

func (s *MemoryAdvertisementStore) filter(keep func(models.Advertisement) bool) []models.Advertisement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ads := []models.Advertisement{}
	for _, ad := range s.ads {
		if keep(ad) {
			ads = append(ads, ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].CreatedAt.After(ads[j].CreatedAt) })
	return ads
}

// MemoryAccountStore keeps agency and client summaries in process
type MemoryAccountStore struct {
	mu       sync.RWMutex
	agencies map[primitive.ObjectID]models.AgencySummary
	clients  map[primitive.ObjectID]models.ClientSummary
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		agencies: make(map[primitive.ObjectID]models.AgencySummary),
		clients:  make(map[primitive.ObjectID]models.ClientSummary),
	}
}

// PutClient registers a client summary
func (s *MemoryAccountStore) PutClient(client models.ClientSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
}

func (s *MemoryAccountStore) FindClients(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ClientSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[primitive.ObjectID]models.ClientSummary, len(ids))
	for _, id := range ids {
		if client, ok := s.clients[id]; ok {
			result[id] = client
		}
	}
	return result, nil
}

func (s *MemoryAccountStore) CountAgencies(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.agencies)), nil
}

func (s *MemoryAccountStore) CountClients(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.clients)), nil
}

// PutAgency registers an agency summary
func (s *MemoryAccountStore) PutAgency(agency models.AgencySummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agencies[agency.ID] = agency
}

func (s *MemoryAccountStore) FindAgencies(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AgencySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[primitive.ObjectID]models.AgencySummary, len(ids))
	for _, id := range ids {
		if agency, ok := s.agencies[id]; ok {
			result[id] = agency
		}
	}
	return result, nil
}
