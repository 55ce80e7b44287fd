package analysis

import (
	"context"
	"net/http"
	"net/url"
)

func languageQuery(language string) url.Values {
	q := url.Values{}
	if language != "" {
		q.Set("language", language)
	}
	return q
}

func (c *Client) ListNuggets(ctx context.Context, language string) ([]Nugget, error) {
	var res NuggetList
	err := c.do(ctx, request{
		op:     "list nuggets",
		method: http.MethodGet,
		path:   "/admin/rag/list",
		query:  languageQuery(language),
		admin:  true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Nuggets, nil
}

func (c *Client) AddNugget(ctx context.Context, req AddNuggetRequest) error {
	return c.do(ctx, request{op: "add nugget", method: http.MethodPost, path: "/admin/rag/add", body: req, admin: true}, nil)
}

func (c *Client) DeleteNugget(ctx context.Context, nuggetId string) error {
	return c.do(ctx, request{
		op:     "delete nugget",
		method: http.MethodDelete,
		path:   "/admin/rag/delete/" + url.PathEscape(nuggetId),
		admin:  true,
	}, nil)
}

func (c *Client) ListGoldenStandards(ctx context.Context, language string) ([]GoldenStandard, error) {
	var res GoldenStandardList
	err := c.do(ctx, request{
		op:     "list golden standards",
		method: http.MethodGet,
		path:   "/admin/golden-standards/list",
		query:  languageQuery(language),
		admin:  true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Standards, nil
}

func (c *Client) CreateGoldenStandard(ctx context.Context, req CreateGoldenStandardRequest) error {
	return c.do(ctx, request{
		op:     "create golden standard",
		method: http.MethodPost,
		path:   "/admin/feedback/create_standard",
		body:   req,
		admin:  true,
	}, nil)
}

func (c *Client) FeedbackGrouped(ctx context.Context, language string) ([]FeedbackGroup, error) {
	var res FeedbackGrouping
	err := c.do(ctx, request{
		op:     "feedback grouped",
		method: http.MethodGet,
		path:   "/admin/feedback/grouped",
		query:  languageQuery(language),
		admin:  true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Groups, nil
}

func (c *Client) FeedbackDetails(ctx context.Context, note, language string) ([]FeedbackDetail, error) {
	q := languageQuery(language)
	q.Set("note", note)

	var res FeedbackDetails
	err := c.do(ctx, request{
		op:     "feedback details",
		method: http.MethodGet,
		path:   "/admin/feedback/details",
		query:  q,
		admin:  true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Details, nil
}

func (c *Client) AnalyticsDashboard(ctx context.Context, query AnalyticsQuery) (AnalyticsDashboard, error) {
	q := languageQuery(query.Language)
	if query.DateFrom != "" {
		q.Set("date_from", query.DateFrom)
	}
	if query.DateTo != "" {
		q.Set("date_to", query.DateTo)
	}

	res := AnalyticsDashboard{}
	err := c.do(ctx, request{
		op:     "analytics dashboard",
		method: http.MethodGet,
		path:   "/admin/analytics/v1_dashboard",
		query:  q,
		admin:  true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}
