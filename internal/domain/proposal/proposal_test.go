package proposal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(t *testing.T) *Proposal {
	t.Helper()
	p, err := NewProposal(uuid.New(), uuid.New(), "Clean Water Initiative", "Full proposal text.")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestNewProposal(t *testing.T) {
	t.Run("starts as draft", func(t *testing.T) {
		p, err := NewProposal(uuid.New(), uuid.New(), "Clean Water Initiative", "")
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, p.Status)
		assert.Nil(t, p.SubmittedAt)
	})

	t.Run("requires user, opportunity, and title", func(t *testing.T) {
		_, err := NewProposal(uuid.Nil, uuid.New(), "T", "")
		assert.Error(t, err)
		_, err = NewProposal(uuid.New(), uuid.Nil, "T", "")
		assert.Error(t, err)
		_, err = NewProposal(uuid.New(), uuid.New(), " ", "")
		assert.Error(t, err)
	})
}

func TestProposal_Transitions(t *testing.T) {
	t.Run("happy path to awarded", func(t *testing.T) {
		p := newDraft(t)

		require.NoError(t, p.SendForReview())
		require.NoError(t, p.Submit())
		require.NotNil(t, p.SubmittedAt)
		require.NoError(t, p.Award())

		assert.Equal(t, StatusAwarded, p.Status)
		assert.NotNil(t, p.DecidedAt)
	})

	t.Run("submit emits submitted event", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.SendForReview())
		p.ClearDomainEvents()

		require.NoError(t, p.Submit())

		types := make([]string, 0)
		for _, e := range p.GetDomainEvents() {
			types = append(types, e.EventType())
		}
		assert.Contains(t, types, EventTypeProposalSubmitted)
		assert.Contains(t, types, EventTypeProposalStatusChanged)
	})

	t.Run("draft cannot be submitted directly", func(t *testing.T) {
		p := newDraft(t)
		assert.Error(t, p.Submit())
		assert.Error(t, p.Award())
		assert.Error(t, p.Decline())
	})

	t.Run("awarded is terminal", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.SendForReview())
		require.NoError(t, p.Submit())
		require.NoError(t, p.Award())

		assert.Error(t, p.SendForReview())
		assert.Error(t, p.Decline())
		assert.Error(t, p.Reopen())
	})

	t.Run("declined can be reopened as draft", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.SendForReview())
		require.NoError(t, p.Submit())
		require.NoError(t, p.Decline())

		require.NoError(t, p.Reopen())
		assert.Equal(t, StatusDraft, p.Status)
	})

	t.Run("review can return to draft", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.SendForReview())
		require.NoError(t, p.ReturnToDraft())
		assert.Equal(t, StatusDraft, p.Status)
	})
}

func TestProposal_ForceStatus(t *testing.T) {
	t.Run("admin override bypasses the graph and records the actor", func(t *testing.T) {
		p := newDraft(t)
		adminID := uuid.New()

		require.NoError(t, p.ForceStatus(StatusAwarded, adminID))

		assert.Equal(t, StatusAwarded, p.Status)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		forced, ok := events[0].(*ProposalStatusForcedEvent)
		require.True(t, ok)
		assert.Equal(t, adminID, forced.ActorID)
		assert.Equal(t, StatusDraft, forced.OldStatus)
	})

	t.Run("forcing submitted backfills the submission time", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.ForceStatus(StatusSubmitted, uuid.New()))
		assert.NotNil(t, p.SubmittedAt)
	})

	t.Run("rejects unknown status and missing actor", func(t *testing.T) {
		p := newDraft(t)
		assert.Error(t, p.ForceStatus(Status("bogus"), uuid.New()))
		assert.Error(t, p.ForceStatus(StatusAwarded, uuid.Nil))
	})
}

func TestProposal_Editing(t *testing.T) {
	t.Run("only drafts are editable", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.UpdateContent("New Title", "new body"))

		require.NoError(t, p.SendForReview())
		assert.Error(t, p.UpdateContent("Another", "x"))
	})

	t.Run("attachment allowed until decided", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.AttachDocument("proposals/doc-1.pdf"))

		require.NoError(t, p.SendForReview())
		require.NoError(t, p.Submit())
		require.NoError(t, p.AttachDocument("proposals/doc-2.pdf"))

		require.NoError(t, p.Decline())
		assert.Error(t, p.AttachDocument("proposals/doc-3.pdf"))
	})

	t.Run("ownership check", func(t *testing.T) {
		owner := uuid.New()
		p, err := NewProposal(owner, uuid.New(), "T", "")
		require.NoError(t, err)
		assert.True(t, p.IsOwnedBy(owner))
		assert.False(t, p.IsOwnedBy(uuid.New()))
	})
}
