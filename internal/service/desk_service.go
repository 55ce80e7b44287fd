package service

import (
	"context"
	"errors"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/mapper"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/repository/contract"
	"sales-assist-bff/internal/session"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const deskModule = "DeskService"

var ErrDeskNotFound = errors.New("desk not found")

type DeskConfig struct {
	Session         session.Config
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
}

type IDeskService interface {
	Open(ctx context.Context) (*dto.OpenDeskResponse, error)
	Show(ctx context.Context, deskId string) (*dto.SessionResponse, error)
	StartSession(ctx context.Context, deskId string) (*dto.SessionResponse, error)
	ResumeSession(ctx context.Context, deskId string, req *dto.ResumeSessionRequest) (*dto.SessionResponse, error)
	SendMessage(ctx context.Context, deskId string, req *dto.SendMessageRequest) (*dto.SessionResponse, error)
	AnswerQuestion(ctx context.Context, deskId string, req *dto.AnswerQuestionRequest) (*dto.SessionResponse, error)
	AttachFeedback(ctx context.Context, deskId string, req *dto.FeedbackRequest) (*dto.SessionResponse, error)
	Refine(ctx context.Context, deskId string, req *dto.RefineRequest) (*dto.RefineResponse, error)
	SetStage(ctx context.Context, deskId string, req *dto.SetStageRequest) (*dto.SessionResponse, error)
	AcceptSuggestedStage(ctx context.Context, deskId string) (*dto.SessionResponse, error)
	RetryEnrichment(ctx context.Context, deskId string) (*dto.SessionResponse, error)
	EndSession(ctx context.Context, deskId string, req *dto.EndSessionRequest) error
	Close(ctx context.Context, deskId string) error
	Recent(ctx context.Context) ([]dto.RecentSessionResponse, error)
	Shutdown()
}

type deskService struct {
	cfg       DeskConfig
	collab    session.Collaborator
	opener    session.ChannelOpener
	history   contract.RecentSessionRepository
	publisher IPublisherService
	desks     *cache.Cache
	mapper    *mapper.ViewMapper
	logger    logger.ILogger
}

func NewDeskService(
	cfg DeskConfig,
	collab session.Collaborator,
	opener session.ChannelOpener,
	history contract.RecentSessionRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IDeskService {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 2 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}

	s := &deskService{
		cfg:       cfg,
		collab:    collab,
		opener:    opener,
		history:   history,
		publisher: publisher,
		desks:     cache.New(cfg.IdleTimeout, cfg.CleanupInterval),
		mapper:    mapper.NewViewMapper(),
		logger:    log,
	}

	// Expired or closed desks only release their channels; nothing is reported upstream.
	s.desks.OnEvicted(func(deskId string, v interface{}) {
		if ctrl, ok := v.(*session.Controller); ok {
			ctrl.Close()
		}
		s.logger.Info(deskModule, "Desk released", map[string]interface{}{"desk_id": deskId})
	})

	return s
}

func (s *deskService) notifier(deskId string) session.Notifier {
	return session.NotifierFunc(func(ev session.Event) {
		msg := dto.DeskEventMessage{
			DeskId:     deskId,
			Type:       ev.Type,
			SessionId:  ev.SessionId,
			PreviousId: ev.PreviousId,
			Session:    s.mapper.Session(ev.Session),
		}
		if err := s.publisher.SendMessage(context.Background(), msg); err != nil {
			s.logger.Warn(deskModule, "Failed to publish desk event", map[string]interface{}{"desk_id": deskId, "type": ev.Type, "error": err.Error()})
		}
	})
}

// controller looks a desk up and refreshes its idle deadline.
func (s *deskService) controller(deskId string) (*session.Controller, error) {
	v, ok := s.desks.Get(deskId)
	if !ok {
		return nil, ErrDeskNotFound
	}
	// Replace fails once the desk is gone, so a concurrent Close is never undone.
	if err := s.desks.Replace(deskId, v, cache.DefaultExpiration); err != nil {
		return nil, ErrDeskNotFound
	}
	return v.(*session.Controller), nil
}

func (s *deskService) Open(ctx context.Context) (*dto.OpenDeskResponse, error) {
	deskId := uuid.NewString()
	ctrl := session.NewController(s.cfg.Session, s.collab, s.opener, s.history, s.notifier(deskId), s.logger)
	snap := ctrl.StartSession()
	s.desks.SetDefault(deskId, ctrl)

	s.logger.Info(deskModule, "Desk opened", map[string]interface{}{"desk_id": deskId, "session_id": snap.Id})
	return &dto.OpenDeskResponse{
		DeskId:  deskId,
		Session: s.mapper.Session(snap),
	}, nil
}

func (s *deskService) Show(ctx context.Context, deskId string) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	return s.mapper.Session(ctrl.Snapshot()), nil
}

func (s *deskService) StartSession(ctx context.Context, deskId string) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	return s.mapper.Session(ctrl.StartSession()), nil
}

func (s *deskService) ResumeSession(ctx context.Context, deskId string, req *dto.ResumeSessionRequest) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	snap, err := ctrl.ResumeSession(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.Session(snap), nil
}

// afterSend returns the session state. Upstream failures are already recorded
// in that state, so only rejected operations are returned as errors.
func (s *deskService) afterSend(ctrl *session.Controller, err error) (*dto.SessionResponse, error) {
	if err != nil && (session.IsPrecondition(err) || errors.Is(err, context.Canceled)) {
		return nil, err
	}
	return s.mapper.Session(ctrl.Snapshot()), nil
}

func (s *deskService) SendMessage(ctx context.Context, deskId string, req *dto.SendMessageRequest) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	return s.afterSend(ctrl, ctrl.SendMessage(ctx, req.Text, req.Stage, req.Language))
}

func (s *deskService) AnswerQuestion(ctx context.Context, deskId string, req *dto.AnswerQuestionRequest) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	return s.afterSend(ctrl, ctrl.AnswerQuestion(ctx, req.Question, req.Answer))
}

func (s *deskService) AttachFeedback(ctx context.Context, deskId string, req *dto.FeedbackRequest) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	if err := ctrl.AttachFeedback(ctx, *req.EntryIndex, req.Sentiment, req.Comment); err != nil {
		return nil, err
	}
	return s.mapper.Session(ctrl.Snapshot()), nil
}

func (s *deskService) Refine(ctx context.Context, deskId string, req *dto.RefineRequest) (*dto.RefineResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	refined, err := ctrl.RefineSuggestion(ctx, *req.EntryIndex, req.Comment)
	if err != nil {
		return nil, err
	}
	return &dto.RefineResponse{RefinedSuggestion: refined}, nil
}

func (s *deskService) SetStage(ctx context.Context, deskId string, req *dto.SetStageRequest) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	if err := ctrl.SetStage(req.Stage); err != nil {
		return nil, err
	}
	return s.mapper.Session(ctrl.Snapshot()), nil
}

func (s *deskService) AcceptSuggestedStage(ctx context.Context, deskId string) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	if err := ctrl.AcceptSuggestedStage(); err != nil {
		return nil, err
	}
	return s.mapper.Session(ctrl.Snapshot()), nil
}

func (s *deskService) RetryEnrichment(ctx context.Context, deskId string) (*dto.SessionResponse, error) {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return nil, err
	}
	return s.afterSend(ctrl, ctrl.RetryEnrichment(ctx))
}

func (s *deskService) EndSession(ctx context.Context, deskId string, req *dto.EndSessionRequest) error {
	ctrl, err := s.controller(deskId)
	if err != nil {
		return err
	}
	return ctrl.EndSession(ctx, req.Outcome)
}

func (s *deskService) Close(ctx context.Context, deskId string) error {
	if _, ok := s.desks.Get(deskId); !ok {
		return ErrDeskNotFound
	}
	s.desks.Delete(deskId)

	msg := dto.DeskEventMessage{DeskId: deskId, Type: constant.DeskEventDeskClosed}
	if err := s.publisher.SendMessage(ctx, msg); err != nil {
		s.logger.Warn(deskModule, "Failed to publish desk event", map[string]interface{}{"desk_id": deskId, "type": msg.Type, "error": err.Error()})
	}
	return nil
}

func (s *deskService) Recent(ctx context.Context) ([]dto.RecentSessionResponse, error) {
	list, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.RecentSessions(list), nil
}

// Shutdown releases every open desk.
func (s *deskService) Shutdown() {
	for deskId := range s.desks.Items() {
		s.desks.Delete(deskId)
	}
}
