package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

const (
	DefaultGreeting   = "Hello! How can I assist you with the AICTE approval process today?"
	DefaultReplyDelay = 500 * time.Millisecond
	// FailedReply is appended in place of a reply the backend could not give.
	FailedReply = "Sorry, I could not reach the assistant. Please try again."
)

type ChatConfig struct {
	Greeting   string
	ReplyDelay time.Duration
	Retry      RetryPolicy
	// MaxPending caps replies that are scheduled or in flight.
	MaxPending int
}

func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Greeting:   DefaultGreeting,
		ReplyDelay: DefaultReplyDelay,
		Retry:      RetryPolicy{Attempts: 2, Timeout: 5 * time.Second, Backoff: 250 * time.Millisecond},
		MaxPending: 16,
	}
}

// ChatSession keeps an append-only message log and answers every user
// message with one assistant reply. Replies are appended in the order of
// the messages that triggered them, whatever order they complete in.
type ChatSession struct {
	session
	responder Responder
	cfg       ChatConfig
	requests  chan replyRequest

	// Owned by the scheduler loop.
	messages []models.ChatMessage
	input    string
	nextSeq  uint64
	flushSeq uint64
	ready    map[uint64]models.ChatMessage
}

type replyRequest struct {
	seq  uint64
	text string
}

// ChatView is a point-in-time copy of a chat session for rendering.
type ChatView struct {
	ID        string               `json:"id"`
	Messages  []models.ChatMessage `json:"messages"`
	Input     string               `json:"input,omitempty"`
	Pending   int                  `json:"pending"`
	CreatedAt time.Time            `json:"createdAt"`
}

func NewChatSession(responder Responder, cfg ChatConfig, opts ...Option) *ChatSession {
	if cfg.MaxPending < 1 {
		cfg.MaxPending = 1
	}
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	s := &ChatSession{
		responder: responder,
		cfg:       cfg,
		requests:  make(chan replyRequest, cfg.MaxPending),
		ready:     map[uint64]models.ChatMessage{},
	}
	s.init(metrics.KindChat, opts)
	s.messages = []models.ChatMessage{{
		Role:      models.RoleAssistant,
		Content:   cfg.Greeting,
		CreatedAt: s.createdAt,
	}}

	s.wg.Add(1)
	go s.work()

	s.log.Info("chat session started")
	return s
}

// Send appends a user message and schedules the assistant's reply. Text
// that is empty after trimming is ignored and yields a nil message.
func (s *ChatSession) Send(text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var sent *models.ChatMessage
	err := s.do(func() error {
		var err error
		sent, err = s.send(text)
		return err
	})
	return sent, err
}

// SetInput replaces the pending-input buffer.
func (s *ChatSession) SetInput(text string) error {
	return s.do(func() error {
		s.input = text
		return nil
	})
}

func (s *ChatSession) Input() (string, error) {
	var in string
	err := s.read(func() { in = s.input })
	return in, err
}

// SendInput sends the pending-input buffer.
func (s *ChatSession) SendInput() (*models.ChatMessage, error) {
	var sent *models.ChatMessage
	err := s.do(func() error {
		var err error
		sent, err = s.send(s.input)
		return err
	})
	return sent, err
}

func (s *ChatSession) Messages() ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	err := s.read(func() { out = append([]models.ChatMessage(nil), s.messages...) })
	return out, err
}

func (s *ChatSession) View() (ChatView, error) {
	var v ChatView
	err := s.read(func() {
		v = ChatView{
			ID:        s.id,
			Messages:  append([]models.ChatMessage(nil), s.messages...),
			Input:     s.input,
			Pending:   s.pending(),
			CreatedAt: s.createdAt,
		}
	})
	return v, err
}

func (s *ChatSession) send(text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if s.pending() >= s.cfg.MaxPending {
		return nil, ErrTooManyPending
	}

	msg := models.ChatMessage{Role: models.RoleUser, Content: text, CreatedAt: time.Now().UTC()}
	s.messages = append(s.messages, msg)
	s.input = ""

	seq := s.nextSeq
	s.nextSeq++
	if _, err := s.sched.Schedule(s.cfg.ReplyDelay, func() {
		// Never blocks: the buffer holds MaxPending requests and pending()
		// counts every request not yet delivered.
		s.requests <- replyRequest{seq: seq, text: text}
	}); err != nil {
		return nil, ErrSessionClosed
	}
	s.log.Debug("message sent", zap.Uint64("seq", seq))
	return &msg, nil
}

func (s *ChatSession) pending() int {
	return int(s.nextSeq - s.flushSeq)
}

// work answers requests one at a time, so each session has at most one
// backend call in flight.
func (s *ChatSession) work() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.requests:
			msg, ok := s.reply(req)
			if !ok {
				return
			}
			if err := s.do(func() error {
				s.deliver(req.seq, msg)
				return nil
			}); err != nil {
				return
			}
		}
	}
}

func (s *ChatSession) reply(req replyRequest) (models.ChatMessage, bool) {
	start := time.Now()
	var text string
	_, err := s.cfg.Retry.run(s.ctx, func(ctx context.Context) error {
		var err error
		text, err = s.responder.Reply(ctx, req.text)
		return classifyMessaging(err)
	}, retryableMessaging)
	if s.ctx.Err() != nil {
		return models.ChatMessage{}, false
	}

	if err != nil {
		s.metrics.ReplyFinished(metrics.OutcomeFailure, time.Since(start))
		s.log.Warn("reply failed", zap.Uint64("seq", req.seq), zap.Error(err))
		return models.ChatMessage{
			Role:      models.RoleAssistant,
			Content:   FailedReply,
			CreatedAt: time.Now().UTC(),
			Error:     true,
		}, true
	}
	s.metrics.ReplyFinished(metrics.OutcomeSuccess, time.Since(start))
	return models.ChatMessage{Role: models.RoleAssistant, Content: text, CreatedAt: time.Now().UTC()}, true
}

// deliver parks a finished reply until every earlier reply is in the log,
// then appends all replies that are now in order.
func (s *ChatSession) deliver(seq uint64, msg models.ChatMessage) {
	s.ready[seq] = msg
	for {
		next, ok := s.ready[s.flushSeq]
		if !ok {
			return
		}
		delete(s.ready, s.flushSeq)
		s.messages = append(s.messages, next)
		s.flushSeq++
	}
}
