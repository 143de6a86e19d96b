package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

// SubmissionBackend accepts a complete set of documents for a category.
type SubmissionBackend interface {
	Submit(ctx context.Context, c models.Category, bindings []models.Binding) (models.Confirmation, error)
}

// Responder produces the assistant's reply to a user message.
type Responder interface {
	Reply(ctx context.Context, text string) (string, error)
}

// SubmitFunc adapts a function to SubmissionBackend.
type SubmitFunc func(ctx context.Context, c models.Category, bindings []models.Binding) (models.Confirmation, error)

func (f SubmitFunc) Submit(ctx context.Context, c models.Category, bindings []models.Binding) (models.Confirmation, error) {
	return f(ctx, c, bindings)
}

// ReplyFunc adapts a function to Responder.
type ReplyFunc func(ctx context.Context, text string) (string, error)

func (f ReplyFunc) Reply(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// SimulatedBackend stands in for the approval backend. It accepts every
// submission unless Fail is set, in which case it returns Fail.
type SimulatedBackend struct {
	Fail error
}

func (b SimulatedBackend) Submit(ctx context.Context, c models.Category, bindings []models.Binding) (models.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return models.Confirmation{}, err
	}
	if b.Fail != nil {
		return models.Confirmation{}, b.Fail
	}
	return models.Confirmation{
		ID:            uuid.NewString(),
		Category:      c,
		DocumentCount: len(bindings),
		AcceptedAt:    time.Now().UTC(),
	}, nil
}

// EchoPrefix starts every EchoResponder reply.
const EchoPrefix = "You said: "

// EchoResponder repeats the user's message back.
type EchoResponder struct{}

func (EchoResponder) Reply(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return EchoPrefix + text, nil
}
