package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
)

type NewPlace struct {
	Name        string
	Description string
	Address     string
	Latitude    *float64
	Longitude   *float64
}

// PlaceService manages places. Anyone may list and read places; only the
// owner may change or delete one.
type PlaceService struct {
	res *Resource[models.Place]
}

func NewPlaceService(repos repomanager.RepositoryManager, cache ListCache[models.Place], logger logging.Logger) *PlaceService {
	res := NewResource(
		"Place",
		Rules{},
		repos,
		func(m repomanager.RepositoryManager) Store[models.Place] { return m.Places() },
		cache,
		logger,
	)
	return &PlaceService{res: res}
}

func (s *PlaceService) Create(ctx context.Context, callerID string, in NewPlace) (*models.Place, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, common.Validation("name should not be empty")
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	return s.res.Create(ctx, callerID, &models.Place{
		Name:        name,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		UserID:      callerID,
	})
}

// FindAll lists every place regardless of caller.
func (s *PlaceService) FindAll(ctx context.Context) ([]models.Place, error) {
	return s.res.FindAll(ctx, "")
}

// FindOne returns a place regardless of caller.
func (s *PlaceService) FindOne(ctx context.Context, id string) (*models.Place, error) {
	return s.res.FindOne(ctx, id, "")
}

func (s *PlaceService) Update(ctx context.Context, id, callerID string, patch models.PlacePatch) (*models.Place, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, common.Validation("name should not be empty")
		}
		patch.Name = &name
	}
	if err := validateCoordinates(patch.Latitude, patch.Longitude); err != nil {
		return nil, err
	}
	return s.res.Update(ctx, id, callerID, func(p *models.Place) { patch.Apply(p) })
}

func (s *PlaceService) Remove(ctx context.Context, id, callerID string) error {
	return s.res.Remove(ctx, id, callerID)
}

func (s *PlaceService) ForgetOwner(ctx context.Context, ownerID string) {
	s.res.ForgetOwner(ctx, ownerID)
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return common.Validation("latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return common.Validation("longitude must be between -180 and 180")
	}
	return nil
}
