package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transition(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		path := []Status{StatusProcessing, StatusPrinting, StatusShipped, StatusDelivered}

		s := StatusPending
		for _, to := range path {
			next, err := s.Transition(to)
			require.NoError(t, err)
			s = next
		}
		assert.Equal(t, StatusDelivered, s)
	})

	t.Run("CannotSkipShipped", func(t *testing.T) {
		_, err := StatusPrinting.Transition(StatusDelivered)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("HoldRoundTrip", func(t *testing.T) {
		s, err := StatusProcessing.Transition(StatusHold)
		require.NoError(t, err)
		s, err = s.Transition(StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, s)
	})

	t.Run("HoldFromPrinting", func(t *testing.T) {
		s, err := StatusPrinting.Transition(StatusHold)
		require.NoError(t, err)
		assert.Equal(t, StatusHold, s)
	})

	t.Run("TerminalStatesRejectEverything", func(t *testing.T) {
		for _, terminal := range []Status{StatusDelivered, StatusCancelled, StatusRefunded} {
			assert.True(t, terminal.Terminal())
			for _, to := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusRefunded} {
				_, err := terminal.Transition(to)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", terminal, to)
			}
		}
	})

	t.Run("ShippedCannotBeRefunded", func(t *testing.T) {
		_, err := StatusShipped.Transition(StatusRefunded)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("ShippedCannotBeCancelled", func(t *testing.T) {
		_, err := StatusShipped.Transition(StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("RefundableBeforeShipping", func(t *testing.T) {
		for _, from := range []Status{StatusPending, StatusProcessing, StatusHold, StatusPrinting} {
			assert.True(t, from.CanTransition(StatusRefunded), "from %s", from)
		}
	})

	t.Run("UnknownStatusInvalid", func(t *testing.T) {
		assert.False(t, Status("Teleported").Valid())
	})
}

func TestApplyRender(t *testing.T) {
	t.Run("ForwardOnly", func(t *testing.T) {
		assert.True(t, ApplyRender(RenderPending, RenderProcessing))
		assert.True(t, ApplyRender(RenderPending, RenderCompleted))
		assert.True(t, ApplyRender(RenderProcessing, RenderCompleted))
		assert.True(t, ApplyRender(RenderProcessing, RenderFailed))
	})

	t.Run("DuplicateCallbackIsNoOp", func(t *testing.T) {
		assert.False(t, ApplyRender(RenderCompleted, RenderCompleted))
		assert.False(t, ApplyRender(RenderProcessing, RenderProcessing))
	})

	t.Run("NoRegression", func(t *testing.T) {
		assert.False(t, ApplyRender(RenderCompleted, RenderProcessing))
		assert.False(t, ApplyRender(RenderFailed, RenderProcessing))
		assert.False(t, ApplyRender(RenderCompleted, RenderPending))
	})

	t.Run("FailedAndCompletedSameRank", func(t *testing.T) {
		assert.False(t, ApplyRender(RenderFailed, RenderCompleted))
		assert.False(t, ApplyRender(RenderCompleted, RenderFailed))
	})

	t.Run("UnknownNextRejected", func(t *testing.T) {
		assert.False(t, ApplyRender(RenderPending, RenderStatus("rendering")))
	})
}
