package domain

import (
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionID_UniqueUnderConcurrency(t *testing.T) {
	req := require.New(t)
	const n = 500
	ids := make([]ConnectionID, n)

	// When many connections are identified at the same time
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = NewConnectionID()
		}(i)
	}
	wg.Wait()

	// Then no identity collides
	req.Len(lo.Uniq(ids), n)
}

func TestNewMessage_StampsOriginAndContent(t *testing.T) {
	req := require.New(t)
	alice := NewConnectionID()
	bob := NewConnectionID()

	msg := NewMessage(alice, "hello")

	req.Equal("hello", msg.Content)
	req.True(msg.IsFrom(alice))
	req.False(msg.IsFrom(bob))
	req.NotEqual(NewMessage(alice, "hello").ID, msg.ID)
	req.Equal("UTC", msg.CreatedAt.Location().String())
}

func TestConnectionID_Short(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", ConnectionID("abc").Short())
	req.Equal("01234567", ConnectionID("0123456789").Short())
}

func TestSessionState_String(t *testing.T) {
	req := require.New(t)
	req.Equal("active", SessionActive.String())
	req.Equal("closing", SessionClosing.String())
	req.Equal("closed", SessionClosed.String())
	req.Equal("unknown", SessionState(42).String())
}
