package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/mapper"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/repository/contract"
	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/pushchannel"
)

const module = "SessionController"

type Config struct {
	Poll PollConfig
}

// Controller owns the state of one conversation at a time. All mutations go
// through its methods; network calls run with the lock released and their
// continuations are dropped when the session changed in the meantime.
type Controller struct {
	collab   Collaborator
	opener   ChannelOpener
	history  contract.RecentSessionRepository
	notifier Notifier
	mapper   *mapper.AnalysisMapper
	logger   logger.ILogger
	poll     PollConfig
	now      func() time.Time

	mu         sync.Mutex
	session    *entity.Session
	generation uint64
	channel    Channel
	channelId  string
	poller     *poller

	// round counts enrichment requests; every send and retry starts a new one.
	round uint64
	// rowFloor is the highest stored slow-path record already seen for the session.
	rowFloor int64
}

func NewController(
	cfg Config,
	collab Collaborator,
	opener ChannelOpener,
	history contract.RecentSessionRepository,
	notifier Notifier,
	log logger.ILogger,
) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{
		collab:   collab,
		opener:   opener,
		history:  history,
		notifier: notifier,
		mapper:   mapper.NewAnalysisMapper(),
		logger:   log,
		poll:     cfg.Poll.withDefaults(),
		now:      time.Now,
	}
}

// resources are detached under the lock and released after it is dropped, since
// closing a push channel waits for its handler to return.
type resources struct {
	channel Channel
	poller  *poller
}

func (r resources) release() {
	if r.poller != nil {
		r.poller.stop()
		r.poller.wait()
	}
	if r.channel != nil {
		r.channel.Close()
	}
}

func (c *Controller) detachLocked() resources {
	res := resources{channel: c.channel, poller: c.poller}
	c.channel, c.channelId, c.poller = nil, "", nil
	return res
}

// currentLocked reports whether a continuation captured at (gen, id) still applies.
func (c *Controller) currentLocked(gen uint64, id string) bool {
	return c.generation == gen && c.session != nil && c.session.Id == id
}

func (c *Controller) stateEventLocked() Event {
	snap := c.snapshotLocked()
	ev := Event{Type: constant.DeskEventStateChanged, Session: snap}
	if snap != nil {
		ev.SessionId = snap.Id
	}
	return ev
}

func (c *Controller) publish(events ...Event) {
	for _, ev := range events {
		c.notifier.Notify(ev)
	}
}

// StartSession discards any current conversation and begins a new one under a
// temporary id. Nothing is sent upstream.
func (c *Controller) StartSession() *entity.Session {
	now := c.now()

	c.mu.Lock()
	res := c.detachLocked()
	c.generation++
	c.rowFloor = 0
	c.session = &entity.Session{
		Id:           NewTempId(now),
		Status:       constant.SessionStatusIdle,
		CurrentStage: constant.JourneyStageDiscovery,
		Language:     constant.LanguagePolish,
		Entries:      []entity.ConversationEntry{},
		CreatedAt:    now,
	}
	ev := c.stateEventLocked()
	c.mu.Unlock()

	res.release()
	c.logger.Info(module, "Session started", map[string]interface{}{"session_id": ev.SessionId})
	c.publish(ev)
	return ev.Session
}

// SendMessage appends the seller's text optimistically and requests a fast response.
// Upstream failures leave the entry in place and put the session in error state;
// they are also returned to the caller.
func (c *Controller) SendMessage(ctx context.Context, text, stage, language string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if s.Status == constant.SessionStatusAwaitingFastResponse {
		c.mu.Unlock()
		return ErrSendInFlight
	}

	if normalized, ok := mapper.NormalizeStage(stage); ok {
		stage = normalized
	} else {
		stage = s.CurrentStage
	}
	if language == "" {
		language = s.Language
	}
	s.Language = language

	entryIndex := len(s.Entries)
	s.Entries = append(s.Entries, entity.ConversationEntry{
		Role:         constant.ConversationRoleSeller,
		Content:      text,
		Timestamp:    c.now(),
		Language:     language,
		JourneyStage: stage,
		Optimistic:   true,
	})
	s.Status = constant.SessionStatusAwaitingFastResponse
	s.LastError = ""

	gen, id := c.generation, s.Id
	ev := c.stateEventLocked()
	c.mu.Unlock()
	c.publish(ev)

	res, err := c.collab.Send(ctx, analysis.SendRequest{
		SessionId:    id,
		UserInput:    text,
		JourneyStage: stage,
		Language:     language,
	})

	c.mu.Lock()
	if !c.currentLocked(gen, id) {
		c.mu.Unlock()
		c.logger.Debug(module, "Dropped stale fast response", map[string]interface{}{"session_id": id})
		return nil
	}
	s = c.session
	if entryIndex < len(s.Entries) && s.Entries[entryIndex].Optimistic {
		s.Entries[entryIndex].Optimistic = false
	}

	if err != nil {
		s.Status = constant.SessionStatusError
		s.LastError = analysis.UserMessage(err)
		ev := c.stateEventLocked()
		c.mu.Unlock()

		c.logger.Error(module, "Fast path request failed", map[string]interface{}{"session_id": id, "error": err.Error()})
		c.publish(ev)
		return fmt.Errorf("send message: %w", err)
	}

	var events []Event
	permanentId := strings.TrimSpace(res.SessionId)
	promoted := IsTempId(id) && permanentId != "" && permanentId != id && !IsTempId(permanentId)
	if promoted {
		s.Id = permanentId
		events = append(events, Event{Type: constant.DeskEventSessionPromoted, SessionId: permanentId, PreviousId: id})
		id = permanentId
	} else if permanentId != "" && permanentId != id {
		c.logger.Warn(module, "Ignoring second session id", map[string]interface{}{"session_id": id, "received": permanentId})
	}

	if res.SuggestedResponse != "" {
		s.Entries = append(s.Entries, entity.ConversationEntry{
			Role:         constant.ConversationRoleFastPath,
			Content:      res.SuggestedResponse,
			Timestamp:    c.now(),
			Language:     language,
			JourneyStage: stage,
		})
	}
	s.FastPath = c.mapper.FastPathMetadata(res)
	s.Status = constant.SessionStatusAwaitingEnrichment
	s.Progress = 0
	c.round++
	c.armPollerLocked(gen, c.round, id)

	events = append(events, c.stateEventLocked())
	c.mu.Unlock()

	if promoted {
		c.logger.Info(module, "Session promoted", map[string]interface{}{"temp_id": events[0].PreviousId, "session_id": id})
	}
	if !IsTempId(id) {
		c.ensureChannel(gen, id)
	}
	c.publish(events...)
	return nil
}

// AnswerQuestion sends the answer to one of the clarifying questions as a seller message.
func (c *Controller) AnswerQuestion(ctx context.Context, question, answer string) error {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	stage, language := "", ""
	if c.session != nil {
		stage, language = c.session.CurrentStage, c.session.Language
	}
	c.mu.Unlock()

	return c.SendMessage(ctx, fmt.Sprintf("P: %s\n\nO: %s", question, answer), stage, language)
}

// RollbackOptimistic removes the last entry when it is a seller message whose request
// has not completed yet. The pending response is abandoned.
func (c *Controller) RollbackOptimistic() bool {
	c.mu.Lock()
	s := c.session
	if s == nil || len(s.Entries) == 0 {
		c.mu.Unlock()
		return false
	}
	last := s.Entries[len(s.Entries)-1]
	if !last.Optimistic || last.Role != constant.ConversationRoleSeller {
		c.mu.Unlock()
		return false
	}
	s.Entries = s.Entries[:len(s.Entries)-1]
	s.Status = constant.SessionStatusIdle
	c.generation++
	c.stopPollerLocked()
	ev := c.stateEventLocked()
	c.mu.Unlock()

	c.publish(ev)
	return true
}

func isAssistantRole(role string) bool {
	return role == constant.ConversationRoleFastPath || role == constant.ConversationRoleQuestions
}

// AttachFeedback records a rating on an assistant entry and reports it upstream on a
// best-effort basis.
func (c *Controller) AttachFeedback(ctx context.Context, entryIndex int, sentiment, comment string) error {
	if sentiment != constant.SentimentPositive && sentiment != constant.SentimentNegative {
		return ErrInvalidSentiment
	}

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if entryIndex < 0 || entryIndex >= len(s.Entries) || !isAssistantRole(s.Entries[entryIndex].Role) {
		c.mu.Unlock()
		return ErrInvalidEntry
	}

	entry := &s.Entries[entryIndex]
	entry.Feedback = &entity.Feedback{
		Sentiment: sentiment,
		Comment:   strings.TrimSpace(comment),
		UpdatedAt: c.now(),
	}
	req := analysis.FeedbackRequest{
		SessionId:    s.Id,
		MessageIndex: entryIndex,
		Sentiment:    sentiment,
		UserComment:  entry.Feedback.Comment,
		Context:      entry.Content,
	}
	ev := c.stateEventLocked()
	c.mu.Unlock()
	c.publish(ev)

	if IsTempId(req.SessionId) {
		c.logger.Debug(module, "Feedback kept local for temporary session", map[string]interface{}{"session_id": req.SessionId})
		return nil
	}
	if err := c.collab.SendFeedback(ctx, req); err != nil {
		c.logger.Warn(module, "Failed to report feedback", map[string]interface{}{"session_id": req.SessionId, "error": err.Error()})
	}
	return nil
}

// RefineSuggestion asks the analysis service to rework an assistant entry with the
// seller's comment. The refined text is returned, not appended.
func (c *Controller) RefineSuggestion(ctx context.Context, entryIndex int, comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", ErrEmptyMessage
	}

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return "", ErrNoSession
	}
	if entryIndex < 0 || entryIndex >= len(s.Entries) || !isAssistantRole(s.Entries[entryIndex].Role) {
		c.mu.Unlock()
		return "", ErrInvalidEntry
	}
	req := analysis.RefineRequest{
		SessionId:    s.Id,
		MessageIndex: entryIndex,
		UserComment:  comment,
		Language:     s.Language,
	}
	c.mu.Unlock()

	if IsTempId(req.SessionId) {
		return "", ErrTemporarySession
	}

	refined, err := c.collab.Refine(ctx, req)
	if err != nil {
		c.logger.Warn(module, "Refine request failed", map[string]interface{}{"session_id": req.SessionId, "error": err.Error()})
		return "", fmt.Errorf("refine suggestion: %w", err)
	}
	return refined, nil
}

// ReceiveEnrichment applies an asynchronous delivery for sessionId. Results without
// a round answer the current request. It reports whether the session changed.
func (c *Controller) ReceiveEnrichment(sessionId string, d Delivery) bool {
	return c.receive(sessionId, 0, d)
}

// receive applies d when it belongs to round, or to whatever round is current when
// round is zero.
func (c *Controller) receive(sessionId string, round uint64, d Delivery) bool {
	c.mu.Lock()
	s := c.session
	if s == nil || s.Id != sessionId || (round != 0 && round != c.round) {
		c.mu.Unlock()
		c.logger.Debug(module, "Dropped enrichment for inactive session", map[string]interface{}{"session_id": sessionId})
		return false
	}

	switch d.Kind {
	case DeliveryResult:
		if d.Result == nil {
			c.mu.Unlock()
			return false
		}
		result := *d.Result
		if result.Round == 0 {
			result.Round = c.round
		}
		if !result.NewerThan(s.Enrichment) {
			c.mu.Unlock()
			c.logger.Debug(module, "Dropped stale enrichment", map[string]interface{}{"session_id": sessionId})
			return false
		}
		s.Enrichment = &result
		s.LastError = ""
		s.Progress = 100
		if s.Status != constant.SessionStatusAwaitingFastResponse {
			s.Status = constant.SessionStatusIdle
		}
		if stage, ok := mapper.NormalizeStage(result.SuggestedStage); ok {
			s.SuggestedStage = stage
		}
		c.stopPollerLocked()

	case DeliveryError:
		if s.Status != constant.SessionStatusAwaitingEnrichment && s.Status != constant.SessionStatusAwaitingFastResponse {
			c.mu.Unlock()
			c.logger.Debug(module, "Ignored enrichment error outside of a pending request", map[string]interface{}{"session_id": sessionId})
			return false
		}
		s.Status = constant.SessionStatusError
		s.LastError = d.Error
		if s.LastError == "" {
			s.LastError = constant.DefaultSlowPathErrorMessage
		}
		c.stopPollerLocked()

	case DeliveryProgress:
		s.Progress = int(d.Progress)

	default:
		c.mu.Unlock()
		return false
	}

	ev := c.stateEventLocked()
	c.mu.Unlock()

	c.publish(ev)
	return true
}

func (c *Controller) handlePush(sessionId string, msg pushchannel.Message) {
	switch {
	case msg.IsUpdate():
		result, err := c.mapper.PushEnrichment(msg.Data)
		if err != nil {
			c.logger.Warn(module, "Unreadable enrichment update", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
			return
		}
		c.ReceiveEnrichment(sessionId, ResultDelivery(result))
	case msg.Type == constant.PushMessageSlowPathError:
		c.ReceiveEnrichment(sessionId, ErrorDelivery(msg.ErrorText()))
	case msg.Type == constant.PushMessageSlowPathProgress && msg.Progress != nil:
		c.ReceiveEnrichment(sessionId, ProgressDelivery(*msg.Progress))
	default:
		c.logger.Debug(module, "Ignored push message", map[string]interface{}{"session_id": sessionId, "type": msg.Type})
	}
}

// RetryEnrichment re-requests the slow-path analysis after a failure.
func (c *Controller) RetryEnrichment(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if s.Status != constant.SessionStatusError || IsTempId(s.Id) {
		c.mu.Unlock()
		return ErrRetryNotAllowed
	}
	s.Status = constant.SessionStatusAwaitingEnrichment
	s.LastError = ""
	s.Progress = 0
	c.round++
	gen, round, id := c.generation, c.round, s.Id
	ev := c.stateEventLocked()
	c.mu.Unlock()
	c.publish(ev)

	// The record of the failed attempt is already stored and must not answer the retry.
	if snap, err := c.collab.GetSession(ctx, id); err == nil && snap.SlowPathLog != nil {
		c.mu.Lock()
		if c.currentLocked(gen, id) {
			c.raiseFloorLocked(snap.SlowPathLog.LogId)
		}
		c.mu.Unlock()
	}

	err := c.collab.RetrySlowPath(ctx, id)

	c.mu.Lock()
	if !c.currentLocked(gen, id) {
		c.mu.Unlock()
		return nil
	}
	s = c.session
	if err != nil {
		// An enrichment that raced the failed request wins.
		if s.Status == constant.SessionStatusAwaitingEnrichment {
			s.Status = constant.SessionStatusError
			s.LastError = analysis.UserMessage(err)
		}
		ev = c.stateEventLocked()
		c.mu.Unlock()

		c.logger.Error(module, "Slow path retry failed", map[string]interface{}{"session_id": id, "error": err.Error()})
		c.publish(ev)
		return fmt.Errorf("retry enrichment: %w", err)
	}
	if s.Status == constant.SessionStatusAwaitingEnrichment && c.round == round {
		c.armPollerLocked(gen, round, id)
	}
	c.mu.Unlock()

	c.ensureChannel(gen, id)
	return nil
}

func recentContext(entries []entity.ConversationEntry) string {
	if len(entries) == 0 || strings.TrimSpace(entries[0].Content) == "" {
		return constant.RecentSessionDefaultText
	}
	runes := []rune(entries[0].Content)
	if len(runes) > constant.RecentSessionContextSize {
		runes = runes[:constant.RecentSessionContextSize]
	}
	return string(runes)
}

// EndSession closes the conversation with the given outcome, records it in the
// recent-sessions history and disposes all state.
func (c *Controller) EndSession(ctx context.Context, outcome string) error {
	if outcome != constant.SessionOutcomeSuccess && outcome != constant.SessionOutcomeFail {
		return ErrInvalidOutcome
	}

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	id := s.Id
	recent := &entity.RecentSession{
		Id:          id,
		Context:     recentContext(s.Entries),
		FinalStatus: outcome,
		Timestamp:   c.now(),
	}
	res := c.detachLocked()
	c.session = nil
	c.generation++
	c.mu.Unlock()

	res.release()

	if IsTempId(id) {
		c.logger.Debug(module, "Skipping end report for temporary session", map[string]interface{}{"session_id": id})
	} else if err := c.collab.EndSession(ctx, id, outcome); err != nil {
		c.logger.Warn(module, "Failed to report session end", map[string]interface{}{"session_id": id, "error": err.Error()})
	}

	if err := c.history.Add(ctx, recent); err != nil {
		c.logger.Error(module, "Failed to record recent session", map[string]interface{}{"session_id": id, "error": err.Error()})
	}

	c.logger.Info(module, "Session ended", map[string]interface{}{"session_id": id, "outcome": outcome})
	c.publish(Event{Type: constant.DeskEventSessionEnded, SessionId: id})
	return nil
}

// ResumeSession replaces the current conversation with a persisted one.
func (c *Controller) ResumeSession(ctx context.Context, sessionId string) (*entity.Session, error) {
	sessionId = strings.TrimSpace(sessionId)
	if sessionId == "" || IsTempId(sessionId) {
		return nil, ErrInvalidSessionId
	}

	snap, err := c.collab.GetSession(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionId, err)
	}

	s := &entity.Session{
		Id:           sessionId,
		Status:       constant.SessionStatusIdle,
		CurrentStage: constant.JourneyStageDiscovery,
		Language:     constant.LanguagePolish,
		Entries:      c.mapper.SnapshotEntries(snap.ConversationLog),
		CreatedAt:    c.now(),
	}
	if stage, ok := mapper.NormalizeStage(snap.CurrentStage); ok {
		s.CurrentStage = stage
	}
	if n := len(s.Entries); n > 0 {
		s.Language = s.Entries[n-1].Language
	}
	if snap.SlowPathLog != nil {
		enrichment, err := c.mapper.StoredEnrichment(snap.SlowPathLog)
		if err != nil {
			c.logger.Warn(module, "Stored enrichment unreadable", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		} else if enrichment != nil {
			s.Enrichment = enrichment
			s.Progress = 100
			if stage, ok := mapper.NormalizeStage(enrichment.SuggestedStage); ok {
				s.SuggestedStage = stage
			}
		}
	}

	c.mu.Lock()
	res := c.detachLocked()
	c.generation++
	c.round++
	c.rowFloor = 0
	if snap.SlowPathLog != nil {
		c.raiseFloorLocked(snap.SlowPathLog.LogId)
	}
	if s.Enrichment != nil {
		s.Enrichment.Round = c.round
	}
	c.session = s
	gen := c.generation
	ev := c.stateEventLocked()
	c.mu.Unlock()

	res.release()
	c.ensureChannel(gen, sessionId)

	c.logger.Info(module, "Session resumed", map[string]interface{}{"session_id": sessionId, "entries": len(s.Entries)})
	c.publish(ev)
	return ev.Session, nil
}

// SetStage changes the current journey stage. Both languages are accepted.
func (c *Controller) SetStage(stage string) error {
	normalized, ok := mapper.NormalizeStage(stage)
	if !ok {
		return ErrInvalidStage
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	c.session.CurrentStage = normalized
	ev := c.stateEventLocked()
	c.mu.Unlock()

	c.publish(ev)
	return nil
}

// AcceptSuggestedStage moves the session to the stage proposed by the last enrichment.
func (c *Controller) AcceptSuggestedStage() error {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if s.SuggestedStage == "" {
		c.mu.Unlock()
		return ErrInvalidStage
	}
	s.CurrentStage = s.SuggestedStage
	s.SuggestedStage = ""
	ev := c.stateEventLocked()
	c.mu.Unlock()

	c.publish(ev)
	return nil
}

// Snapshot returns a copy of the current session, or nil when there is none.
func (c *Controller) Snapshot() *entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked copies everything mutable. Enrichment results are replaced, never
// modified, so the pointer is shared.
func (c *Controller) snapshotLocked() *entity.Session {
	if c.session == nil {
		return nil
	}

	cp := *c.session
	cp.Entries = make([]entity.ConversationEntry, len(c.session.Entries))
	copy(cp.Entries, c.session.Entries)
	for i := range cp.Entries {
		if fb := cp.Entries[i].Feedback; fb != nil {
			f := *fb
			cp.Entries[i].Feedback = &f
		}
	}
	if fp := c.session.FastPath; fp != nil {
		f := *fp
		f.SuggestedQuestions = append([]string(nil), fp.SuggestedQuestions...)
		f.SellerQuestions = append([]string(nil), fp.SellerQuestions...)
		cp.FastPath = &f
	}
	return &cp
}

// Close releases the push channel and poller without reporting anything upstream.
func (c *Controller) Close() {
	c.mu.Lock()
	res := c.detachLocked()
	c.session = nil
	c.generation++
	c.mu.Unlock()

	res.release()
}

// ensureChannel opens the push channel for id unless one is already open for it.
// A channel for another id is closed first.
func (c *Controller) ensureChannel(gen uint64, id string) {
	c.mu.Lock()
	if !c.currentLocked(gen, id) || (c.channel != nil && c.channelId == id && channelAlive(c.channel)) {
		c.mu.Unlock()
		return
	}
	old := c.channel
	c.channel, c.channelId = nil, ""
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(gen, id) || c.channel != nil {
		return
	}
	c.channel = c.opener.Open(id, c.handlePush)
	c.channelId = id
}

func (c *Controller) armPollerLocked(gen, round uint64, id string) {
	c.stopPollerLocked()
	if IsTempId(id) {
		return
	}
	c.poller = startPoller(c.poll, func(ctx context.Context) bool {
		return c.pollOnce(ctx, gen, round, id)
	})
}

func (c *Controller) raiseFloorLocked(logId int64) {
	if logId > c.rowFloor {
		c.rowFloor = logId
	}
}

func (c *Controller) stopPollerLocked() {
	if c.poller != nil {
		c.poller.stop()
		c.poller = nil
	}
}

// pollOnce fetches the stored slow-path record and delivers it when it answers the
// request of round. It reports whether polling is finished.
func (c *Controller) pollOnce(ctx context.Context, gen, round uint64, id string) bool {
	c.mu.Lock()
	waiting := c.currentLocked(gen, id) && c.round == round && c.session.Status == constant.SessionStatusAwaitingEnrichment
	c.mu.Unlock()
	if !waiting {
		return true
	}

	snap, err := c.collab.GetSession(ctx, id)
	if err != nil {
		c.logger.Debug(module, "Fallback poll failed", map[string]interface{}{"session_id": id, "error": err.Error()})
		return false
	}
	row := snap.SlowPathLog
	if row == nil || len(row.JsonOutput) == 0 {
		return false
	}

	c.mu.Lock()
	if !c.currentLocked(gen, id) || c.round != round {
		c.mu.Unlock()
		return true
	}
	unseen := row.LogId == 0 || row.LogId > c.rowFloor
	c.raiseFloorLocked(row.LogId)
	c.mu.Unlock()
	if !unseen || !mapper.RowFollowsConversation(row, snap.ConversationLog) {
		c.logger.Debug(module, "Stored enrichment predates the pending request", map[string]interface{}{"session_id": id, "log_id": row.LogId})
		return false
	}

	if row.Failed() {
		if !c.receive(id, round, ErrorDelivery(c.mapper.StoredError(row))) {
			return false
		}
		c.logger.Info(module, "Fallback poll delivered enrichment failure", map[string]interface{}{"session_id": id, "log_id": row.LogId})
		return true
	}

	result, err := c.mapper.StoredEnrichment(row)
	if err != nil || result == nil {
		return false
	}
	result.Round = round
	if !c.receive(id, round, ResultDelivery(result)) {
		return false
	}
	c.logger.Info(module, "Fallback poll delivered enrichment", map[string]interface{}{"session_id": id})
	return true
}
