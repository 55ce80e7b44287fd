package session

import (
	"context"
	"sync"

	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/pushchannel"
)

type fakeCollaborator struct {
	mu sync.Mutex

	sendFn     func(req analysis.SendRequest) (*analysis.SendResponse, error)
	retryErr   error
	endErr     error
	refineFn   func(req analysis.RefineRequest) (string, error)
	feedbackFn func(req analysis.FeedbackRequest) error
	getFn      func(id string) (*analysis.SessionSnapshot, error)

	sent      []analysis.SendRequest
	retried   []string
	ended     []analysis.EndSessionRequest
	feedbacks []analysis.FeedbackRequest
	fetched   []string
}

func (f *fakeCollaborator) Send(ctx context.Context, req analysis.SendRequest) (*analysis.SendResponse, error) {
	f.mu.Lock()
	f.sent = append(f.sent, req)
	fn := f.sendFn
	f.mu.Unlock()

	if fn == nil {
		return &analysis.SendResponse{SessionId: req.SessionId}, nil
	}
	return fn(req)
}

func (f *fakeCollaborator) RetrySlowPath(ctx context.Context, sessionId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retried = append(f.retried, sessionId)
	return f.retryErr
}

func (f *fakeCollaborator) EndSession(ctx context.Context, sessionId, finalStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, analysis.EndSessionRequest{SessionId: sessionId, FinalStatus: finalStatus})
	return f.endErr
}

func (f *fakeCollaborator) SendFeedback(ctx context.Context, req analysis.FeedbackRequest) error {
	f.mu.Lock()
	f.feedbacks = append(f.feedbacks, req)
	fn := f.feedbackFn
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(req)
}

func (f *fakeCollaborator) Refine(ctx context.Context, req analysis.RefineRequest) (string, error) {
	if f.refineFn == nil {
		return "", nil
	}
	return f.refineFn(req)
}

func (f *fakeCollaborator) GetSession(ctx context.Context, sessionId string) (*analysis.SessionSnapshot, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, sessionId)
	fn := f.getFn
	f.mu.Unlock()

	if fn == nil {
		return &analysis.SessionSnapshot{}, nil
	}
	return fn(sessionId)
}

func (f *fakeCollaborator) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

type fakeChannel struct {
	id      string
	handler pushchannel.Handler

	once   sync.Once
	done   chan struct{}
	closed int
}

func (c *fakeChannel) Close() {
	c.once.Do(func() { close(c.done) })
	c.closed++
}

func (c *fakeChannel) Done() <-chan struct{} {
	return c.done
}

// push delivers a frame the way the real channel's read loop would.
func (c *fakeChannel) push(msg pushchannel.Message) {
	c.handler(c.id, msg)
}

type fakeOpener struct {
	mu       sync.Mutex
	channels []*fakeChannel
}

func (o *fakeOpener) Open(sessionId string, handler pushchannel.Handler) Channel {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := &fakeChannel{id: sessionId, handler: handler, done: make(chan struct{})}
	o.channels = append(o.channels, ch)
	return ch
}

func (o *fakeOpener) opened() []*fakeChannel {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeChannel(nil), o.channels...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) ofType(t string) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []Event
	for _, ev := range n.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
