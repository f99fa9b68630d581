package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/session"
	"github.com/docdexio/docdex/internal/vectorstore"
)

type fakeRetriever struct {
	mu         sync.Mutex
	matches    []model.VectorMatch
	err        error
	lastFilter vectorstore.Filter
}

func (f *fakeRetriever) Query(ctx context.Context, probeText string, filter vectorstore.Filter, topK int) ([]model.VectorMatch, error) {
	f.mu.Lock()
	f.lastFilter = filter
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeResponder struct {
	err error
}

func (f *fakeResponder) Respond(ctx context.Context, message string, contextText string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "echo: " + message, nil
}

func newTestChatService(retriever Retriever, responder Responder) *ChatService {
	return NewChatService(session.NewMemoryStore(), retriever, responder, 1)
}

func TestChatServiceStart_RequiresAssetID(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})
	_, err := svc.Start(context.Background(), "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestChatServiceStart_IssuesDistinctThreads(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})
	first, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)
	second, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestChatServiceSend_UnknownThread(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})
	_, err := svc.Send(context.Background(), "bogus-token", "hello")
	require.ErrorIs(t, err, appErr.ErrInvalidSession)
}

func TestChatServiceSend_ScopesRetrievalToThreadAsset(t *testing.T) {
	retriever := &fakeRetriever{}
	svc := newTestChatService(retriever, &fakeResponder{})

	token, err := svc.Start(context.Background(), "asset-42")
	require.NoError(t, err)

	reply, err := svc.Send(context.Background(), token, "what is this about?")
	require.NoError(t, err)
	require.Equal(t, "echo: what is this about?", reply)
	require.Equal(t, "asset-42", retriever.lastFilter.AssetID)
}

func TestChatServiceSend_AppendsTranscriptInOrder(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})

	token, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Send(context.Background(), token, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	history, err := svc.History(token)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, turn := range history {
		require.Equal(t, fmt.Sprintf("message %d", i), turn.UserMessage)
		require.Equal(t, "echo: "+turn.UserMessage, turn.AgentResponse)
	}
}

func TestChatServiceSend_RetrievalFailureLeavesTranscriptUntouched(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("%w: backend down", appErr.ErrRetrieval)}
	svc := newTestChatService(retriever, &fakeResponder{})

	token, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), token, "hello")
	require.ErrorIs(t, err, appErr.ErrRetrieval)

	history, err := svc.History(token)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestChatServiceSend_ResponderFailureLeavesTranscriptUntouched(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{err: errors.New("model down")})

	token, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), token, "hello")
	require.Error(t, err)

	history, err := svc.History(token)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestChatServiceSend_ConcurrentTurnsAllRecorded(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})

	token, err := svc.Start(context.Background(), "asset-1")
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Send(context.Background(), token, fmt.Sprintf("concurrent %d", i))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := svc.History(token)
	require.NoError(t, err)
	require.Len(t, history, workers)
	for _, turn := range history {
		require.Equal(t, "echo: "+turn.UserMessage, turn.AgentResponse)
	}
}

func TestChatServiceHistory_UnknownThread(t *testing.T) {
	svc := newTestChatService(&fakeRetriever{}, &fakeResponder{})
	_, err := svc.History("bogus-token")
	require.ErrorIs(t, err, appErr.ErrInvalidSession)
}

func TestRenderContext(t *testing.T) {
	require.Equal(t, "", renderContext(nil))

	got := renderContext([]model.VectorMatch{{
		Entry: model.VectorEntry{DocumentName: "guide.pdf", FileType: "pdf"},
		Score: 0.9876,
	}})
	require.Contains(t, got, "guide.pdf")
	require.Contains(t, got, "pdf")
	require.Contains(t, got, "0.988")
}
