package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/session"
	"github.com/docdexio/docdex/internal/vectorstore"
)

// Retriever is the scoped similarity lookup a chat turn runs before
// generating its response.
type Retriever interface {
	Query(ctx context.Context, probeText string, filter vectorstore.Filter, topK int) ([]model.VectorMatch, error)
}

// Responder turns (message, retrieved context) into the reply text.
type Responder interface {
	Respond(ctx context.Context, message string, contextText string) (string, error)
}

// ChatService drives the per-thread state machine: start binds a thread to
// an asset id, send runs retrieval + generation and appends the turn,
// history replays the transcript. Threads are memory-only.
type ChatService struct {
	sessions  session.Store
	retriever Retriever
	responder Responder
	topK      int
}

func NewChatService(sessions session.Store, retriever Retriever, responder Responder, topK int) *ChatService {
	if topK <= 0 {
		topK = 1
	}
	return &ChatService{
		sessions:  sessions,
		retriever: retriever,
		responder: responder,
		topK:      topK,
	}
}

// Start allocates a thread bound to the given asset id. The id is not
// validated against the metadata store: a thread over a missing document
// simply retrieves nothing.
func (s *ChatService) Start(ctx context.Context, assetID string) (string, error) {
	if assetID == "" {
		return "", appErr.ErrInvalid
	}
	token := s.sessions.Create(assetID)
	logutil.GetLogger(ctx).Info("chat thread started",
		zap.String("chat_thread_id", token),
		zap.String("asset_id", assetID),
	)
	return token, nil
}

// Send runs one turn. Retrieval and response generation happen before the
// transcript lock is taken, so a slow model call never serializes unrelated
// appends; concurrent sends on one thread land in lock-acquisition order.
func (s *ChatService) Send(ctx context.Context, token, message string) (string, error) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return "", appErr.ErrInvalidSession
	}
	matches, err := s.retriever.Query(ctx, message, vectorstore.Filter{AssetID: sess.AssetID()}, s.topK)
	if err != nil {
		return "", err
	}
	contextText := renderContext(matches)
	response, err := s.responder.Respond(ctx, message, contextText)
	if err != nil {
		return "", err
	}
	sess.Append(model.ChatTurn{UserMessage: message, AgentResponse: response})
	return response, nil
}

func (s *ChatService) History(token string) ([]model.ChatTurn, error) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return nil, appErr.ErrInvalidSession
	}
	return sess.History(), nil
}

func renderContext(matches []model.VectorMatch) string {
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	return fmt.Sprintf("document %q (type %s, relevance %.3f)",
		best.Entry.DocumentName, best.Entry.FileType, best.Score)
}
