package medications

import (
	"context"
	"fmt"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/medications"
)

// Service implements use-cases untuk medications
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

func (s *Service) Create(ctx context.Context, user, name, dosage, frequency string) (*domain.Medication, error) {
	if user == "" || name == "" {
		return nil, fmt.Errorf("user_id and name are required")
	}
	m := &domain.Medication{
		UserID:    user,
		Name:      name,
		Dosage:    dosage,
		Frequency: frequency,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, user string) ([]*domain.Medication, error) {
	return s.Repo.ListByUser(ctx, user)
}

func (s *Service) Delete(ctx context.Context, user string, id int64) error {
	return s.Repo.Delete(ctx, user, id)
}
