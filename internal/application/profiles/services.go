package profiles

import (
	"context"
	"fmt"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/profiles"
)

// Service implements use-cases untuk subject profiles
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Upsert writes the profile; all four attributes are required because the
// seed prompt interpolates every one of them.
func (s *Service) Upsert(ctx context.Context, p *domain.Profile) error {
	if p.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if p.Age <= 0 || p.Sex == "" || p.Ethnicity == "" || p.Location == "" {
		return fmt.Errorf("age, sex, ethnicity and location are required")
	}
	p.UpdatedAt = s.Clock.Now()
	return s.Repo.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, user string) (*domain.Profile, error) {
	return s.Repo.Get(ctx, user)
}
