package session

import (
	"context"

	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/pushchannel"
)

// Collaborator is the subset of the analysis service the controller talks to.
// *analysis.Client satisfies it.
type Collaborator interface {
	Send(ctx context.Context, req analysis.SendRequest) (*analysis.SendResponse, error)
	RetrySlowPath(ctx context.Context, sessionId string) error
	EndSession(ctx context.Context, sessionId, finalStatus string) error
	SendFeedback(ctx context.Context, req analysis.FeedbackRequest) error
	Refine(ctx context.Context, req analysis.RefineRequest) (string, error)
	GetSession(ctx context.Context, sessionId string) (*analysis.SessionSnapshot, error)
}

// Channel is an open push subscription. Done is closed once it stops reconnecting.
type Channel interface {
	Close()
	Done() <-chan struct{}
}

func channelAlive(ch Channel) bool {
	select {
	case <-ch.Done():
		return false
	default:
		return true
	}
}

type ChannelOpener interface {
	Open(sessionId string, handler pushchannel.Handler) Channel
}

// PushOpener opens push channels against the analysis service.
type PushOpener struct {
	Config pushchannel.Config
	Logger logger.ILogger
}

func (o *PushOpener) Open(sessionId string, handler pushchannel.Handler) Channel {
	return pushchannel.Open(o.Config, sessionId, handler, o.Logger)
}

// Event is emitted after every visible state change.
type Event struct {
	Type       string
	SessionId  string
	PreviousId string
	Session    *entity.Session
}

type Notifier interface {
	Notify(event Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(event Event) { f(event) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
