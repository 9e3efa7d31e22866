package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
)

func TestSubmitReturnsBeforeProviderResolves(t *testing.T) {
	repo := newMemRepo()
	gate := make(chan struct{})
	ai := &stubAI{gate: gate, fn: func(in stubInput) (string, error) {
		return "glucose slightly elevated, everything else in range", nil
	}}
	svc := newTestService(repo, ai, &stubFaults{})

	start := time.Now()
	id, err := svc.Submit(context.Background(), domain.Request{
		UserID: "user-1",
		Observations: []domain.Observation{
			{TestType: "glucose", Result: "110 mg/dL"},
			{TestType: "ldl", Result: "95 mg/dL"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	// submission must not wait on the provider
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	rec, err := svc.Get(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, rec.Status)
	assert.Empty(t, rec.Result)

	close(gate)
	require.Eventually(t, func() bool {
		return repo.status(id) == domain.StatusComplete
	}, 2*time.Second, 10*time.Millisecond)

	rec, err = svc.Get(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, "glucose slightly elevated, everything else in range", rec.Result)

	in := ai.lastInput()
	assert.Equal(t, "glucose: 110 mg/dL, ldl: 95 mg/dL", in.Observations)
	assert.Equal(t, "44", in.Age)
	assert.Equal(t, "female", in.Sex)
}

func TestSubmitProviderFailureEndsInError(t *testing.T) {
	repo := newMemRepo()
	ai := &stubAI{fn: func(stubInput) (string, error) { return "", errProvider }}
	flts := &stubFaults{}
	svc := newTestService(repo, ai, flts)

	id, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "tsh", Result: "2.1 mIU/L"}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.status(id) == domain.StatusError
	}, 2*time.Second, 10*time.Millisecond)

	rec, err := svc.Get(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.Contains(t, rec.Result, "Analysis failed:")
	assert.Contains(t, rec.Result, "model overloaded")

	require.Eventually(t, func() bool { return flts.count() == 1 }, time.Second, 10*time.Millisecond)
	f := flts.last()
	assert.Equal(t, "dispatch", f.Phase)
	assert.Equal(t, string(id), f.AnalysisID)
}

func TestSubmitEmptyCompletionEndsInError(t *testing.T) {
	repo := newMemRepo()
	ai := &stubAI{fn: func(stubInput) (string, error) { return "   ", nil }}
	svc := newTestService(repo, ai, &stubFaults{})

	id, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "a1c", Result: "5.4 %"}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.status(id) == domain.StatusError
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(newMemRepo(), &stubAI{}, &stubFaults{})

	_, err := svc.Submit(context.Background(), domain.Request{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "glucose"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Submit(context.Background(), domain.Request{
		Observations: []domain.Observation{{TestType: "glucose", Result: "110"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSubmitSeedRequiresCompleteProfile(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &stubAI{}, &stubFaults{})

	// no profile row at all
	_, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-2",
		Observations: []domain.Observation{{TestType: "glucose", Result: "110"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	// failed validation must not leave a record behind
	_, err = svc.Latest(context.Background(), "user-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitFollowUpSkipsProfile(t *testing.T) {
	repo := newMemRepo()
	ai := &stubAI{}
	svc := newTestService(repo, ai, &stubFaults{})

	// user-2 has no profile, but a follow-up carries its own context
	id, err := svc.Submit(context.Background(), domain.Request{
		UserID:           "user-2",
		FollowUpQuestion: "Should I fast before retesting?",
		PriorNarrative:   "Your glucose was slightly above range.",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.status(id) == domain.StatusComplete
	}, 2*time.Second, 10*time.Millisecond)

	in := ai.lastInput()
	assert.Equal(t, "Should I fast before retesting?", in.FollowUpQuestion)
	assert.Equal(t, "Your glucose was slightly above range.", in.PriorNarrative)
	assert.Empty(t, in.Age)
}

func TestConcurrentSubmissionsStayIndependent(t *testing.T) {
	repo := newMemRepo()
	ai := &stubAI{fn: func(in stubInput) (string, error) { return "narrative for " + in.Observations, nil }}
	svc := newTestService(repo, ai, &stubFaults{})

	id1, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "glucose", Result: "110"}},
	})
	require.NoError(t, err)
	id2, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "ldl", Result: "95"}},
	})
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	require.Eventually(t, func() bool {
		return repo.status(id1).Terminal() && repo.status(id2).Terminal()
	}, 2*time.Second, 10*time.Millisecond)

	list, err := svc.Paginate(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTerminalWriteFailureRecordsFault(t *testing.T) {
	repo := newMemRepo()
	repo.setErr = errProvider
	flts := &stubFaults{}
	svc := newTestService(repo, &stubAI{}, flts)

	id, err := svc.Submit(context.Background(), domain.Request{
		UserID:       "user-1",
		Observations: []domain.Observation{{TestType: "glucose", Result: "110"}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return flts.count() == 1 }, 5*time.Second, 20*time.Millisecond)
	f := flts.last()
	assert.Equal(t, "save", f.Phase)
	assert.Equal(t, string(id), f.AnalysisID)
	// record stays processing; the fault row is the audit trail
	assert.Equal(t, domain.StatusProcessing, repo.status(id))
}
