package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/mapper"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/events"
	pktNats "sales-assist-bff/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const adminModule = "AdminService"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLogNotFound        = errors.New("log not found")
)

// KnowledgeBase is the admin part of the analysis service. *analysis.Client satisfies it.
type KnowledgeBase interface {
	ListNuggets(ctx context.Context, language string) ([]analysis.Nugget, error)
	AddNugget(ctx context.Context, req analysis.AddNuggetRequest) error
	DeleteNugget(ctx context.Context, nuggetId string) error
	ListGoldenStandards(ctx context.Context, language string) ([]analysis.GoldenStandard, error)
	CreateGoldenStandard(ctx context.Context, req analysis.CreateGoldenStandardRequest) error
	FeedbackGrouped(ctx context.Context, language string) ([]analysis.FeedbackGroup, error)
	FeedbackDetails(ctx context.Context, note, language string) ([]analysis.FeedbackDetail, error)
	AnalyticsDashboard(ctx context.Context, query analysis.AnalyticsQuery) (analysis.AnalyticsDashboard, error)
}

// EventSubscriber attaches durable handlers to the event bus. *nats.Subscriber satisfies it.
type EventSubscriber interface {
	Subscribe(eventType string, durableName string, handler pktNats.EventHandler) error
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JwtSecret    string
	TokenTTL     time.Duration
	CacheTTL     time.Duration
}

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)

	// Knowledge base
	GetNuggets(ctx context.Context, language string) ([]dto.NuggetResponse, error)
	AddNugget(ctx context.Context, req *dto.AddNuggetRequest) error
	DeleteNugget(ctx context.Context, nuggetId string) error
	GetGoldenStandards(ctx context.Context, language string) ([]dto.GoldenStandardResponse, error)
	CreateGoldenStandard(ctx context.Context, req *dto.CreateGoldenStandardRequest) error

	// Feedback & analytics
	GetFeedbackGroups(ctx context.Context, language string) ([]dto.FeedbackGroupResponse, error)
	GetFeedbackDetails(ctx context.Context, query *dto.FeedbackDetailsQuery) ([]dto.FeedbackDetailResponse, error)
	GetAnalytics(ctx context.Context, query *dto.AnalyticsQuery) (analysis.AnalyticsDashboard, error)

	// Logs
	GetSystemLogs(ctx context.Context, query *dto.LogListQuery) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	ListenForChanges(sub EventSubscriber, durableName string) error
}

type adminService struct {
	cfg       AdminConfig
	kb        KnowledgeBase
	cache     *cache.Cache
	events    EventPublisher
	logs      logger.LogReader
	knowledge *mapper.KnowledgeMapper
	view      *mapper.ViewMapper
	logger    logger.ILogger
	now       func() time.Time
}

// NewAdminService builds the admin facade. bus and logs may be nil.
func NewAdminService(
	cfg AdminConfig,
	kb KnowledgeBase,
	bus EventPublisher,
	logs logger.LogReader,
	log logger.ILogger,
) IAdminService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}

	return &adminService{
		cfg:       cfg,
		kb:        kb,
		cache:     cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		events:    bus,
		logs:      logs,
		knowledge: mapper.NewKnowledgeMapper(),
		view:      mapper.NewViewMapper(),
		logger:    log,
		now:       time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if s.cfg.PasswordHash == "" || s.cfg.JwtSecret == "" {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":  req.Username,
		"role": constant.RoleAdmin,
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	s.logger.Info(adminModule, "Admin logged in", map[string]interface{}{"username": req.Username})
	return &dto.AdminLoginResponse{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func languageOrDefault(language string) string {
	if language == "" {
		return constant.LanguagePolish
	}
	return language
}

func cacheKey(kind, language string) string {
	return kind + ":" + language
}

func (s *adminService) GetNuggets(ctx context.Context, language string) ([]dto.NuggetResponse, error) {
	language = languageOrDefault(language)
	key := cacheKey("nuggets", language)
	if v, ok := s.cache.Get(key); ok {
		return s.view.Nuggets(v.([]entity.KnowledgeNugget)), nil
	}

	list, err := s.kb.ListNuggets(ctx, language)
	if err != nil {
		return nil, err
	}
	nuggets := s.knowledge.NuggetsToEntities(list)
	s.cache.SetDefault(key, nuggets)
	return s.view.Nuggets(nuggets), nil
}

func (s *adminService) AddNugget(ctx context.Context, req *dto.AddNuggetRequest) error {
	err := s.kb.AddNugget(ctx, analysis.AddNuggetRequest{
		Title:    req.Title,
		Content:  req.Content,
		Keywords: req.Keywords,
		Language: req.Language,
	})
	if err != nil {
		return err
	}
	s.knowledgeChanged(ctx, "nugget", "added")
	return nil
}

func (s *adminService) DeleteNugget(ctx context.Context, nuggetId string) error {
	if err := s.kb.DeleteNugget(ctx, nuggetId); err != nil {
		return err
	}
	s.knowledgeChanged(ctx, "nugget", "deleted")
	return nil
}

func (s *adminService) GetGoldenStandards(ctx context.Context, language string) ([]dto.GoldenStandardResponse, error) {
	language = languageOrDefault(language)
	key := cacheKey("standards", language)
	if v, ok := s.cache.Get(key); ok {
		return s.view.GoldenStandards(v.([]entity.GoldenStandard)), nil
	}

	list, err := s.kb.ListGoldenStandards(ctx, language)
	if err != nil {
		return nil, err
	}
	standards := s.knowledge.GoldenStandardsToEntities(list)
	s.cache.SetDefault(key, standards)
	return s.view.GoldenStandards(standards), nil
}

func (s *adminService) CreateGoldenStandard(ctx context.Context, req *dto.CreateGoldenStandardRequest) error {
	err := s.kb.CreateGoldenStandard(ctx, analysis.CreateGoldenStandardRequest{
		TriggerContext: req.TriggerContext,
		GoldenResponse: req.GoldenResponse,
		Language:       req.Language,
		Category:       req.Category,
	})
	if err != nil {
		return err
	}
	s.knowledgeChanged(ctx, "golden_standard", "created")
	return nil
}

func (s *adminService) GetFeedbackGroups(ctx context.Context, language string) ([]dto.FeedbackGroupResponse, error) {
	language = languageOrDefault(language)
	key := cacheKey("feedback", language)
	if v, ok := s.cache.Get(key); ok {
		return s.view.FeedbackGroups(v.([]entity.FeedbackGroup)), nil
	}

	list, err := s.kb.FeedbackGrouped(ctx, language)
	if err != nil {
		return nil, err
	}
	groups := s.knowledge.FeedbackGroupsToEntities(list)
	s.cache.SetDefault(key, groups)
	return s.view.FeedbackGroups(groups), nil
}

func (s *adminService) GetFeedbackDetails(ctx context.Context, query *dto.FeedbackDetailsQuery) ([]dto.FeedbackDetailResponse, error) {
	list, err := s.kb.FeedbackDetails(ctx, query.Note, languageOrDefault(query.Language))
	if err != nil {
		return nil, err
	}
	res := make([]dto.FeedbackDetailResponse, 0, len(list))
	for _, d := range list {
		res = append(res, dto.FeedbackDetailResponse(d))
	}
	return res, nil
}

func (s *adminService) GetAnalytics(ctx context.Context, query *dto.AnalyticsQuery) (analysis.AnalyticsDashboard, error) {
	return s.kb.AnalyticsDashboard(ctx, analysis.AnalyticsQuery{
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Language: languageOrDefault(query.Language),
	})
}

// knowledgeChanged drops every cached list here and tells the other instances to do the same.
func (s *adminService) knowledgeChanged(ctx context.Context, kind, action string) {
	s.cache.Flush()

	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, events.BaseEvent{
		Type:       events.TypeKnowledgeBaseChanged,
		Data:       map[string]interface{}{"kind": kind, "action": action},
		OccurredAt: s.now(),
	})
	if err != nil {
		s.logger.Warn(adminModule, "Failed to publish knowledge base change", map[string]interface{}{"kind": kind, "error": err.Error()})
	}
}

// ListenForChanges invalidates the cache when another instance edits the knowledge base.
// durableName must be unique per instance so every instance sees every change.
func (s *adminService) ListenForChanges(sub EventSubscriber, durableName string) error {
	return sub.Subscribe(events.TypeKnowledgeBaseChanged, durableName, func(ctx context.Context, event events.Event) error {
		s.cache.Flush()
		s.logger.Debug(adminModule, "Knowledge base cache invalidated", event.Payload())
		return nil
	})
}

func (s *adminService) GetSystemLogs(ctx context.Context, query *dto.LogListQuery) ([]*dto.LogListResponse, error) {
	if s.logs == nil {
		return []*dto.LogListResponse{}, nil
	}

	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	entries, err := s.logs.GetLogs(query.Level, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, logListItem(e))
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	if s.logs == nil {
		return nil, ErrLogNotFound
	}

	entries, err := s.logs.GetLogs("", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}
	for _, e := range entries {
		if e.Id == logId {
			return &dto.LogDetailResponse{LogListResponse: *logListItem(e), Details: e.Details}, nil
		}
	}
	return nil, ErrLogNotFound
}

func logListItem(e logger.LogEntry) *dto.LogListResponse {
	createdAt, _ := mapper.ParseTimestamp(e.Timestamp)
	return &dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: createdAt,
	}
}
