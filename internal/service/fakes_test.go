package service

import (
	"context"
	"encoding/json"
	"sync"

	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/session"
	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/events"
	pktNats "sales-assist-bff/pkg/nats"
	"sales-assist-bff/pkg/pushchannel"
)

type fakeCollaborator struct {
	mu     sync.Mutex
	sendFn func(req analysis.SendRequest) (*analysis.SendResponse, error)
	ended  []string
}

func (f *fakeCollaborator) Send(ctx context.Context, req analysis.SendRequest) (*analysis.SendResponse, error) {
	f.mu.Lock()
	fn := f.sendFn
	f.mu.Unlock()
	if fn == nil {
		return &analysis.SendResponse{SessionId: req.SessionId}, nil
	}
	return fn(req)
}

func (f *fakeCollaborator) RetrySlowPath(ctx context.Context, sessionId string) error { return nil }

func (f *fakeCollaborator) EndSession(ctx context.Context, sessionId, finalStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, sessionId)
	return nil
}

func (f *fakeCollaborator) SendFeedback(ctx context.Context, req analysis.FeedbackRequest) error {
	return nil
}

func (f *fakeCollaborator) Refine(ctx context.Context, req analysis.RefineRequest) (string, error) {
	return "refined: " + req.UserComment, nil
}

func (f *fakeCollaborator) GetSession(ctx context.Context, sessionId string) (*analysis.SessionSnapshot, error) {
	return &analysis.SessionSnapshot{}, nil
}

type fakeChannel struct {
	mu     sync.Mutex
	closed int
	done   chan struct{}
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed == 0 {
		close(c.done)
	}
	c.closed++
}

func (c *fakeChannel) Done() <-chan struct{} { return c.done }

func (c *fakeChannel) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeOpener struct {
	mu       sync.Mutex
	channels map[string]*fakeChannel
}

func (o *fakeOpener) Open(sessionId string, handler pushchannel.Handler) session.Channel {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.channels == nil {
		o.channels = make(map[string]*fakeChannel)
	}
	ch := &fakeChannel{done: make(chan struct{})}
	o.channels[sessionId] = ch
	return ch
}

func (o *fakeOpener) channel(sessionId string) *fakeChannel {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.channels[sessionId]
}

// recordingPublisher captures desk events instead of putting them on a bus.
type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.DeskEventMessage
}

func (p *recordingPublisher) SendMessage(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var msg dto.DeskEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []dto.DeskEventMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []dto.DeskEventMessage
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *fakeBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventType())
	}
	return out
}

type fakeSubscriber struct {
	eventType string
	durable   string
	handler   pktNats.EventHandler
}

func (s *fakeSubscriber) Subscribe(eventType string, durableName string, handler pktNats.EventHandler) error {
	s.eventType, s.durable, s.handler = eventType, durableName, handler
	return nil
}

type fakeKnowledgeBase struct {
	mu          sync.Mutex
	nuggetCalls []string
	nuggets     []analysis.Nugget
	added       []analysis.AddNuggetRequest
	deleted     []string
	standards   []analysis.GoldenStandard
	err         error
}

func (f *fakeKnowledgeBase) ListNuggets(ctx context.Context, language string) ([]analysis.Nugget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nuggetCalls = append(f.nuggetCalls, language)
	return f.nuggets, f.err
}

func (f *fakeKnowledgeBase) AddNugget(ctx context.Context, req analysis.AddNuggetRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, req)
	return f.err
}

func (f *fakeKnowledgeBase) DeleteNugget(ctx context.Context, nuggetId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, nuggetId)
	return f.err
}

func (f *fakeKnowledgeBase) ListGoldenStandards(ctx context.Context, language string) ([]analysis.GoldenStandard, error) {
	return f.standards, f.err
}

func (f *fakeKnowledgeBase) CreateGoldenStandard(ctx context.Context, req analysis.CreateGoldenStandardRequest) error {
	return f.err
}

func (f *fakeKnowledgeBase) FeedbackGrouped(ctx context.Context, language string) ([]analysis.FeedbackGroup, error) {
	return []analysis.FeedbackGroup{{ThemeName: "too pushy", Count: 3, RepresentativeNote: "calmer"}}, f.err
}

func (f *fakeKnowledgeBase) FeedbackDetails(ctx context.Context, note, language string) ([]analysis.FeedbackDetail, error) {
	return []analysis.FeedbackDetail{{FeedbackId: 7, FeedbackNote: note}}, f.err
}

func (f *fakeKnowledgeBase) AnalyticsDashboard(ctx context.Context, query analysis.AnalyticsQuery) (analysis.AnalyticsDashboard, error) {
	return analysis.AnalyticsDashboard{"language": query.Language}, f.err
}

func (f *fakeKnowledgeBase) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nuggetCalls)
}

type fakeDelivery struct {
	mu    sync.Mutex
	sent  map[string][][]byte
	state map[string][]byte
}

func (d *fakeDelivery) Send(deskId string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sent == nil {
		d.sent = make(map[string][][]byte)
	}
	d.sent[deskId] = append(d.sent[deskId], data)
}

func (d *fakeDelivery) Remember(deskId string, frame []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == nil {
		d.state = make(map[string][]byte)
	}
	d.state[deskId] = frame
}

func (d *fakeDelivery) Forget(deskId string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.state, deskId)
}

func (d *fakeDelivery) stored(deskId string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	frame, ok := d.state[deskId]
	return frame, ok
}

func (d *fakeDelivery) count(deskId string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent[deskId])
}
