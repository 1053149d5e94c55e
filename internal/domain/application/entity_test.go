package application

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanReapply(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusInReview, StatusAccepted, StatusRejected} {
		a := Application{Status: s}
		assert.ErrorIs(t, a.CanReapply(), ErrAlreadyApplied, s)
	}
	assert.NoError(t, Application{Status: StatusWithdrawn}.CanReapply())
}

func TestWithdraw(t *testing.T) {
	now := time.Now()
	for _, s := range []Status{StatusSubmitted, StatusInReview} {
		a := Application{Status: s}
		require.NoError(t, a.Withdraw(now), s)
		assert.Equal(t, StatusWithdrawn, a.Status)
	}
	for _, s := range []Status{StatusAccepted, StatusRejected} {
		a := Application{Status: s}
		assert.True(t, errors.Is(a.Withdraw(now), ErrFinalized), s)
		assert.Equal(t, s, a.Status)
	}
}

func TestResubmitOverwritesSubmission(t *testing.T) {
	old := "old"
	fresh := "fresh"
	a := Application{Status: StatusWithdrawn, CoverLetter: &old, Answers: []Answer{{Question: "q", Answer: "a"}}}
	a.Resubmit(Submission{CoverLetter: &fresh}, time.Now())

	assert.Equal(t, StatusSubmitted, a.Status)
	assert.Equal(t, "fresh", *a.CoverLetter)
	assert.Nil(t, a.Answers)
}

func TestPolicyCanDecide(t *testing.T) {
	strict := PolicyStrict
	assert.NoError(t, strict.CanDecide(StatusSubmitted, StatusInReview))
	assert.NoError(t, strict.CanDecide(StatusInReview, StatusAccepted))
	assert.NoError(t, strict.CanDecide(StatusSubmitted, StatusRejected))
	assert.NoError(t, strict.CanDecide(StatusAccepted, StatusAccepted))
	assert.ErrorIs(t, strict.CanDecide(StatusAccepted, StatusRejected), ErrTransitionNotAllowed)
	assert.ErrorIs(t, strict.CanDecide(StatusRejected, StatusInReview), ErrTransitionNotAllowed)
	assert.ErrorIs(t, strict.CanDecide(StatusWithdrawn, StatusAccepted), ErrTransitionNotAllowed)
	assert.ErrorIs(t, strict.CanDecide(StatusSubmitted, StatusWithdrawn), ErrInvalidDecision)

	permissive := PolicyPermissive
	assert.NoError(t, permissive.CanDecide(StatusAccepted, StatusRejected))
	assert.NoError(t, permissive.CanDecide(StatusWithdrawn, StatusInReview))
	assert.ErrorIs(t, permissive.CanDecide(StatusSubmitted, StatusSubmitted), ErrInvalidDecision)
}

func TestDecideRecordsDecider(t *testing.T) {
	by := uuid.New()
	now := time.Now()
	a := Application{Status: StatusSubmitted}
	require.NoError(t, a.Decide(PolicyStrict, StatusAccepted, by, now))
	assert.Equal(t, StatusAccepted, a.Status)
	require.NotNil(t, a.DecidedByUserID)
	assert.Equal(t, by, *a.DecidedByUserID)
	assert.Equal(t, now, *a.DecidedAt)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "in review", StatusInReview.Label())
}
