package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domai "github.com/RocketSloth/LabBuddy/internal/domain/ai"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	"github.com/RocketSloth/LabBuddy/internal/domain/faults"
	"github.com/RocketSloth/LabBuddy/internal/domain/profiles"
)

// Service implements use-cases untuk Analysis (the requester side).
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo     domain.Repository
	Profiles profiles.Repository
	Faults   faults.Repository
	AI       domai.Client
	Clock    application.Clock

	// retries for the terminal status write; a record stuck in processing is
	// the failure mode this service exists to rule out
	SaveRetries int
}

//
// ==== USE CASES ====
//

// Submit creates the processing row, returns its id, and dispatches the
// provider call in the background. The HTTP response path never waits on the
// provider. Concurrent submissions for the same user are allowed and yield
// independent records; nothing is coalesced.
func (s *Service) Submit(ctx context.Context, req domain.Request) (domain.AnalysisID, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	in := domai.Input{
		FollowUpQuestion: req.FollowUpQuestion,
		PriorNarrative:   req.PriorNarrative,
	}
	if len(req.Observations) > 0 {
		pairs := make([]string, 0, len(req.Observations))
		for _, o := range req.Observations {
			pairs = append(pairs, fmt.Sprintf("%s: %s", o.TestType, o.Result))
		}
		in.Observations = strings.Join(pairs, ", ")
	}

	// seed analyses need the subject profile; follow-ups carry their own context
	if req.FollowUpQuestion == "" {
		prof, err := s.Profiles.Get(ctx, req.UserID)
		if err != nil {
			return "", fmt.Errorf("%w: subject profile unavailable: %v", domain.ErrInvalidRequest, err)
		}
		if !prof.Complete() {
			return "", fmt.Errorf("%w: profile needs at least age and sex", domain.ErrInvalidRequest)
		}
		in.Age = strconv.Itoa(prof.Age)
		in.Sex = prof.Sex
		in.Ethnicity = prof.Ethnicity
		in.Location = prof.Location
	}

	id := domain.AnalysisID(uuid.New().String())
	rec := &domain.Analysis{
		ID:        id,
		UserID:    req.UserID,
		Status:    domain.StatusProcessing,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		// creation failure aborts submission entirely, no orphan record
		return "", fmt.Errorf("create analysis record: %w", err)
	}

	// 🚀 jalankan di background sampai selesai; req.Context() bakal canceled
	// begitu response terkirim, jadi pakai context.Background()
	go s.dispatch(context.Background(), req.UserID, id, in)

	return id, nil
}

// dispatch runs the provider call and writes the single terminal transition.
// Every exit path leaves the record terminal.
func (s *Service) dispatch(ctx context.Context, user string, id domain.AnalysisID, in domai.Input) {
	text, err := s.AI.Analyze(ctx, in)
	if err != nil {
		log.Printf("analysis dispatch failed: user=%s id=%s err=%v", user, id, err)
		s.recordFault(user, id, "dispatch", err)
		s.terminate(user, id, domain.StatusError, "Analysis failed: "+err.Error())
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.recordFault(user, id, "dispatch", domai.ErrEmptyCompletion)
		s.terminate(user, id, domain.StatusError, "Analysis failed: the provider returned no text")
		return
	}
	s.terminate(user, id, domain.StatusComplete, text)
}

// terminate writes the terminal status with bounded retries. A failed write is
// logged and recorded as a fault; it is never silently swallowed.
func (s *Service) terminate(user string, id domain.AnalysisID, status domain.Status, result string) {
	retries := s.SaveRetries
	if retries <= 0 {
		retries = 3
	}
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = s.Repo.SetResult(ctx, user, id, status, result)
		cancel()
		if err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	log.Printf("analysis result save failed: user=%s id=%s status=%s err=%v", user, id, status, err)
	s.recordFault(user, id, "save", err)
}

func (s *Service) recordFault(user string, id domain.AnalysisID, phase string, cause error) {
	if s.Faults == nil {
		return
	}
	details, _ := json.Marshal(map[string]string{"error": cause.Error()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Faults.Save(ctx, &faults.Fault{
		UserID:      user,
		AnalysisID:  string(id),
		Phase:       phase,
		Message:     cause.Error(),
		DetailsJSON: string(details),
		CreatedAt:   s.Clock.Now(),
	}); err != nil {
		log.Printf("fault save failed: user=%s id=%s err=%v", user, id, err)
	}
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, user, id)
}

// Latest ambil analysis paling baru per user
func (s *Service) Latest(ctx context.Context, user string) (*domain.Analysis, error) {
	return s.Repo.LatestByUser(ctx, user)
}

// Paginate list analyses per user, newest first
func (s *Service) Paginate(ctx context.Context, user string, page, pageSize int) ([]*domain.Analysis, error) {
	return s.Repo.Paginate(ctx, user, page, pageSize)
}

// Faults lists the persisted failure log for one analysis
func (s *Service) ListFaults(ctx context.Context, user string, id string, limit int) ([]*faults.Fault, error) {
	return s.Faults.ListByAnalysis(ctx, user, id, limit)
}
