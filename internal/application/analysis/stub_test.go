package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/RocketSloth/LabBuddy/internal/application"
	domai "github.com/RocketSloth/LabBuddy/internal/domain/ai"
	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	"github.com/RocketSloth/LabBuddy/internal/domain/faults"
	"github.com/RocketSloth/LabBuddy/internal/domain/profiles"
)

// memRepo is an in-memory domain.Repository with the same terminal-write
// semantics as the SQL repos.
type memRepo struct {
	mu     sync.Mutex
	recs   map[domain.AnalysisID]*domain.Analysis
	order  []domain.AnalysisID
	gets   int
	getErr error
	setErr error
}

func newMemRepo() *memRepo {
	return &memRepo{recs: map[domain.AnalysisID]*domain.Analysis{}}
}

func (r *memRepo) Create(_ context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.recs[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *memRepo) SetResult(_ context.Context, user string, id domain.AnalysisID, status domain.Status, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	rec, ok := r.recs[id]
	if !ok || rec.UserID != user {
		return domain.ErrNotFound
	}
	if rec.Status.Terminal() {
		return domain.ErrTerminal
	}
	rec.Status = status
	rec.Result = result
	return nil
}

func (r *memRepo) Get(_ context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	rec, ok := r.recs[id]
	if !ok || rec.UserID != user {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memRepo) LatestByUser(_ context.Context, user string) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if rec := r.recs[r.order[i]]; rec.UserID == user {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Paginate(_ context.Context, user string, page, pageSize int) ([]*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Analysis
	for i := len(r.order) - 1; i >= 0; i-- {
		if rec := r.recs[r.order[i]]; rec.UserID == user {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

func (r *memRepo) status(id domain.AnalysisID) domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recs[id]; ok {
		return rec.Status
	}
	return ""
}

type stubInput = domai.Input

// stubAI lets a test control the provider outcome and observe the input.
type stubAI struct {
	mu   sync.Mutex
	in   domai.Input
	fn   func(domai.Input) (string, error)
	gate chan struct{} // when set, Analyze blocks until closed
}

func (s *stubAI) Analyze(_ context.Context, in domai.Input) (string, error) {
	s.mu.Lock()
	s.in = in
	s.mu.Unlock()
	if s.gate != nil {
		<-s.gate
	}
	if s.fn != nil {
		return s.fn(in)
	}
	return "all values look within range", nil
}

func (s *stubAI) lastInput() domai.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in
}

type stubProfiles struct {
	byUser map[string]*profiles.Profile
}

func (s *stubProfiles) Upsert(_ context.Context, p *profiles.Profile) error {
	s.byUser[p.UserID] = p
	return nil
}

func (s *stubProfiles) Get(_ context.Context, user string) (*profiles.Profile, error) {
	p, ok := s.byUser[user]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return p, nil
}

type stubFaults struct {
	mu    sync.Mutex
	saved []*faults.Fault
}

func (s *stubFaults) Save(_ context.Context, f *faults.Fault) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, f)
	return nil
}

func (s *stubFaults) ListByAnalysis(_ context.Context, user, analysisID string, limit int) ([]*faults.Fault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*faults.Fault
	for _, f := range s.saved {
		if f.UserID == user && f.AnalysisID == analysisID {
			out = append(out, f)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubFaults) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *stubFaults) last() *faults.Fault {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

func newTestService(repo *memRepo, ai domai.Client, f *stubFaults) *Service {
	return &Service{
		Repo: repo,
		Profiles: &stubProfiles{byUser: map[string]*profiles.Profile{
			"user-1": {UserID: "user-1", Age: 44, Sex: "female", Ethnicity: "hispanic", Location: "Austin, TX"},
		}},
		Faults:      f,
		AI:          ai,
		Clock:       application.SystemClock{},
		SaveRetries: 1,
	}
}

var errProvider = errors.New("model overloaded")
