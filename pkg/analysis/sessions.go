package analysis

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var res NewSessionResponse
	err := c.do(ctx, request{op: "create session", method: http.MethodPost, path: "/sessions/new"}, &res)
	if err != nil {
		return "", err
	}
	return res.SessionId, nil
}

// Send runs the fast path. The returned session id differs from the request's
// when a temporary id was promoted.
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	var res SendResponse
	err := c.do(ctx, request{op: "send message", method: http.MethodPost, path: "/sessions/send", body: req}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) RetrySlowPath(ctx context.Context, sessionId string) error {
	return c.do(ctx, request{
		op:     "retry slow path",
		method: http.MethodPost,
		path:   "/sessions/retry_slowpath",
		body:   RetrySlowPathRequest{SessionId: sessionId},
	}, nil)
}

func (c *Client) EndSession(ctx context.Context, sessionId, finalStatus string) error {
	return c.do(ctx, request{
		op:     "end session",
		method: http.MethodPost,
		path:   "/sessions/end",
		body:   EndSessionRequest{SessionId: sessionId, FinalStatus: finalStatus},
	}, nil)
}

func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.do(ctx, request{op: "send feedback", method: http.MethodPost, path: "/sessions/feedback", body: req}, nil)
}

func (c *Client) Refine(ctx context.Context, req RefineRequest) (string, error) {
	var res RefineResponse
	err := c.do(ctx, request{op: "refine suggestion", method: http.MethodPost, path: "/sessions/refine", body: req}, &res)
	if err != nil {
		return "", err
	}
	return res.RefinedSuggestion, nil
}

func (c *Client) GetSession(ctx context.Context, sessionId string) (*SessionSnapshot, error) {
	var res SessionSnapshot
	err := c.do(ctx, request{
		op:     "get session",
		method: http.MethodGet,
		path:   "/sessions/" + url.PathEscape(sessionId),
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
