package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docdexio/docdex/internal/model"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	token := store.Create("asset-1")
	require.NotEmpty(t, token)

	sess, ok := store.Get(token)
	require.True(t, ok)
	require.Equal(t, "asset-1", sess.AssetID())
	require.Empty(t, sess.History())
}

func TestMemoryStore_UnknownToken(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.Get("nope")
	require.False(t, ok)
}

func TestMemoryStore_TokensAreUnique(t *testing.T) {
	store := NewMemoryStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := store.Create("asset-1")
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestSession_ConcurrentAppend(t *testing.T) {
	store := NewMemoryStore()
	token := store.Create("asset-1")
	sess, _ := store.Get(token)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.Append(model.ChatTurn{
				UserMessage:   fmt.Sprintf("q%d", i),
				AgentResponse: fmt.Sprintf("a%d", i),
			})
		}(i)
	}
	wg.Wait()

	require.Len(t, sess.History(), workers)
}

func TestSession_HistoryIsACopy(t *testing.T) {
	store := NewMemoryStore()
	token := store.Create("asset-1")
	sess, _ := store.Get(token)

	sess.Append(model.ChatTurn{UserMessage: "q", AgentResponse: "a"})
	history := sess.History()
	history[0].AgentResponse = "mutated"

	require.Equal(t, "a", sess.History()[0].AgentResponse)
}
