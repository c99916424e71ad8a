package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLagError_MatchesThroughWrapping(t *testing.T) {
	req := require.New(t)

	// Given a lag error wrapped by a caller
	err := fmt.Errorf("deliver: %w", &LagError{Missed: 7})

	// Then errors.As still finds it with the missed count
	var lag *LagError
	req.True(stderrors.As(err, &lag))
	req.Equal(uint64(7), lag.Missed)
	req.Contains(err.Error(), "missed 7 messages")
}

func TestSentinels_AreDistinct(t *testing.T) {
	req := require.New(t)
	wrapped := fmt.Errorf("%w: 127.0.0.1:1", ErrServerUnreachable)

	req.ErrorIs(wrapped, ErrServerUnreachable)
	req.NotErrorIs(wrapped, ErrBind)
	req.NotErrorIs(ErrHubClosed, ErrNoSubscribers)
}
