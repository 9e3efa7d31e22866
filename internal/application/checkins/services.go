package checkins

import (
	"context"
	"fmt"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/checkins"
)

// Service implements use-cases untuk daily checks
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

type CreateCheckCommand struct {
	UserID        string
	CheckDate     string
	SleepHours    float64
	ExerciseHours float64
	WaterIntake   float64
	Feeling       int
}

func (s *Service) Create(ctx context.Context, cmd CreateCheckCommand) (*domain.DailyCheck, error) {
	if cmd.UserID == "" || cmd.CheckDate == "" {
		return nil, fmt.Errorf("user_id and check_date are required")
	}
	if cmd.Feeling < 0 || cmd.Feeling > 10 {
		return nil, fmt.Errorf("feeling must be between 0 and 10")
	}
	c := &domain.DailyCheck{
		UserID:        cmd.UserID,
		CheckDate:     cmd.CheckDate,
		SleepHours:    cmd.SleepHours,
		ExerciseHours: cmd.ExerciseHours,
		WaterIntake:   cmd.WaterIntake,
		Feeling:       cmd.Feeling,
		CreatedAt:     s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List ambil check-ins per user, newest first
func (s *Service) List(ctx context.Context, user string, limit int) ([]*domain.DailyCheck, error) {
	return s.Repo.ListByUser(ctx, user, limit)
}
