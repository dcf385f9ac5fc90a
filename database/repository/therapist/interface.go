package therapistRepo

import (
	"context"

	"therapia/models"
)

// TherapistRepository is the provider directory boundary. The matching core
// reads it as a snapshot per request; writes happen only through onboarding.
type TherapistRepository interface {
	ListTherapists(ctx context.Context) ([]models.TherapistProfile, error)
	GetByID(ctx context.Context, id string) (*models.TherapistProfile, error)
	Create(ctx context.Context, profile *models.TherapistProfile) error
	Update(ctx context.Context, profile *models.TherapistProfile) error
	EnsureIndexes(ctx context.Context) error
}
