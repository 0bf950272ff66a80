package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebom/revural/internal/core/review"
)

func issueStatus(t *testing.T, svc *Service, id string) review.IssueStatus {
	t.Helper()
	is, ok := svc.store.Issue(id)
	require.True(t, ok)
	return is.Status
}

func TestChangeStatus_Optimistic(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestService(t, api)

	change, err := svc.ChangeStatus("i1", review.IssueDone)
	require.NoError(t, err)

	assert.Equal(t, StatusChange{ReviewID: "r1", IssueID: "i1", Previous: review.IssuePending, Next: review.IssueDone, Seq: 1}, change)
	assert.True(t, change.Changed())
	assert.Equal(t, review.IssueDone, issueStatus(t, svc, "i1"))
	assert.Equal(t, 0, api.calls(), "backend is contacted only on acknowledge")
}

func TestChangeStatus_Errors(t *testing.T) {
	svc, store := newTestService(t, &fakeAPI{})

	_, err := svc.ChangeStatus("missing", review.IssueDone)
	require.ErrorIs(t, err, ErrUnknownIssue)

	store.Reset()
	_, err = svc.ChangeStatus("i1", review.IssueDone)
	require.ErrorIs(t, err, ErrNoReview)
}

func TestAcknowledge(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		results   []error
		wantErr   bool
		wantCalls int
	}{
		{name: "first try", results: nil, wantCalls: 1},
		{name: "succeeds after retry", results: []error{boom, nil}, wantCalls: 2},
		{name: "rejected every time", results: []error{ErrStatusRejected}, wantErr: true, wantCalls: 3},
		{name: "network down", results: []error{boom}, wantErr: true, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{statusResults: tt.results}
			svc, _ := newTestService(t, api)

			change, err := svc.ChangeStatus("i1", review.IssueLater)
			require.NoError(t, err)

			err = svc.Acknowledge(context.Background(), change)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, api.calls())
		})
	}
}

func TestAcknowledge_NoChangeSkipsBackend(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestService(t, api)

	change, err := svc.ChangeStatus("i1", review.IssuePending)
	require.NoError(t, err)
	assert.False(t, change.Changed())

	require.NoError(t, svc.Acknowledge(context.Background(), change))
	assert.Equal(t, 0, api.calls())
}

func TestReconcile(t *testing.T) {
	failure := errors.New("ack failed")

	t.Run("success keeps optimistic value", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeAPI{})
		change, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)

		assert.False(t, svc.Reconcile(change, nil))
		assert.Equal(t, review.IssueDone, issueStatus(t, svc, "i1"))
	})

	t.Run("failure reverts", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeAPI{})
		change, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)

		assert.True(t, svc.Reconcile(change, failure))
		assert.Equal(t, review.IssuePending, issueStatus(t, svc, "i1"))
	})

	t.Run("newer local change wins", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeAPI{})
		first, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)
		_, err = svc.ChangeStatus("i1", review.IssueLater)
		require.NoError(t, err)

		assert.False(t, svc.Reconcile(first, failure))
		assert.Equal(t, review.IssueLater, issueStatus(t, svc, "i1"))
	})

	t.Run("same value set again later wins", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeAPI{})
		first, err := svc.ChangeStatus("i1", review.IssueLater)
		require.NoError(t, err)
		_, err = svc.ChangeStatus("i1", review.IssuePending)
		require.NoError(t, err)
		third, err := svc.ChangeStatus("i1", review.IssueLater)
		require.NoError(t, err)
		require.Greater(t, third.Seq, first.Seq)

		assert.False(t, svc.Reconcile(first, failure))
		assert.Equal(t, review.IssueLater, issueStatus(t, svc, "i1"))

		assert.True(t, svc.Reconcile(third, failure))
		assert.Equal(t, review.IssuePending, issueStatus(t, svc, "i1"))
	})

	t.Run("unchanged status keeps the sequence", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeAPI{})
		first, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)
		again, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)

		assert.False(t, again.Changed())
		assert.Equal(t, first.Seq, again.Seq)
		assert.True(t, svc.Reconcile(first, failure))
		assert.Equal(t, review.IssuePending, issueStatus(t, svc, "i1"))
	})

	t.Run("different review is ignored", func(t *testing.T) {
		svc, store := newTestService(t, &fakeAPI{})
		change, err := svc.ChangeStatus("i1", review.IssueDone)
		require.NoError(t, err)

		store.SetReviewID("r2")
		assert.False(t, svc.Reconcile(change, failure))
		assert.Equal(t, review.IssueDone, issueStatus(t, svc, "i1"))
	})
}
