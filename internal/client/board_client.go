package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/metrics"
	"trellone-sync/internal/response"
)

// BoardAPI is the remote kanban REST API
type BoardAPI interface {
	CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error)
	ListBoards(ctx context.Context, query dto.ListBoardsQuery) (*domain.BoardList, error)
	GetBoard(ctx context.Context, boardID string) (*domain.Board, error)
	UpdateBoard(ctx context.Context, boardID string, req dto.UpdateBoardRequest) (*domain.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
	LeaveBoard(ctx context.Context, boardID string) error
	MoveCardToDifferentColumn(ctx context.Context, req dto.MoveCardRequest) error

	CreateColumn(ctx context.Context, req dto.CreateColumnRequest) (*domain.Column, error)
	UpdateColumn(ctx context.Context, columnID string, req dto.UpdateColumnRequest) (*domain.Column, error)
	DeleteColumn(ctx context.Context, columnID string) error

	CreateCard(ctx context.Context, req dto.CreateCardRequest) (*domain.Card, error)
	UpdateCard(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, cardID string) error
	AddComment(ctx context.Context, cardID string, req dto.CommentRequest) (*domain.Card, error)
	UpdateComment(ctx context.Context, cardID, commentID string, req dto.CommentRequest) (*domain.Card, error)
	DeleteComment(ctx context.Context, cardID, commentID string) (*domain.Card, error)
	AddReaction(ctx context.Context, cardID, commentID string, req dto.ReactionRequest) (*domain.Card, error)
	RemoveReaction(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error)
	AddAttachment(ctx context.Context, cardID string, req dto.AttachmentRequest) (*domain.Card, error)
	RemoveAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Card, error)
	UpdateCardMember(ctx context.Context, cardID string, req dto.CardMemberRequest) (*domain.Card, error)
}

// BoardClient implements BoardAPI over HTTP
type BoardClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewBoardClient creates a new board API client
func NewBoardClient(baseURL, accessToken string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *BoardClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// AccessToken returns the bearer token used for requests
func (c *BoardClient) AccessToken() string {
	return c.accessToken
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends a request and decodes the { result, message } envelope into out (may be nil)
func (c *BoardClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(path, method, statusCode, duration, err)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Error("Board API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeUnavailable, "Board API unreachable", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		if eb.Message == "" {
			eb.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("Board API returned non-success status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", eb.Message),
		)
		return response.NewAppError(response.CodeFromStatus(resp.StatusCode), eb.Message, "")
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func doResult[T any](ctx context.Context, c *BoardClient, method, path string, body interface{}) (*T, error) {
	var env response.Envelope[T]
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	return &env.Result, nil
}

func esc(s string) string {
	return url.PathEscape(s)
}

func (c *BoardClient) CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error) {
	return doResult[domain.Board](ctx, c, http.MethodPost, "/boards", req)
}

func (c *BoardClient) ListBoards(ctx context.Context, query dto.ListBoardsQuery) (*domain.BoardList, error) {
	q := url.Values{}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Keyword != "" {
		q.Set("keyword", query.Keyword)
	}
	if query.WorkspaceID != "" {
		q.Set("workspace_id", query.WorkspaceID)
	}
	path := "/boards"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return doResult[domain.BoardList](ctx, c, http.MethodGet, path, nil)
}

// GetBoard fetches the full board aggregate with columns and cards
func (c *BoardClient) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	return doResult[domain.Board](ctx, c, http.MethodGet, "/boards/"+esc(boardID), nil)
}

func (c *BoardClient) UpdateBoard(ctx context.Context, boardID string, req dto.UpdateBoardRequest) (*domain.Board, error) {
	return doResult[domain.Board](ctx, c, http.MethodPut, "/boards/"+esc(boardID), req)
}

func (c *BoardClient) DeleteBoard(ctx context.Context, boardID string) error {
	return c.do(ctx, http.MethodDelete, "/boards/"+esc(boardID), nil, nil)
}

func (c *BoardClient) LeaveBoard(ctx context.Context, boardID string) error {
	return c.do(ctx, http.MethodPost, "/boards/"+esc(boardID)+"/members/me/leave", nil, nil)
}

func (c *BoardClient) MoveCardToDifferentColumn(ctx context.Context, req dto.MoveCardRequest) error {
	return c.do(ctx, http.MethodPut, "/boards/supports/moving-card", req, nil)
}

func (c *BoardClient) CreateColumn(ctx context.Context, req dto.CreateColumnRequest) (*domain.Column, error) {
	return doResult[domain.Column](ctx, c, http.MethodPost, "/columns", req)
}

func (c *BoardClient) UpdateColumn(ctx context.Context, columnID string, req dto.UpdateColumnRequest) (*domain.Column, error) {
	return doResult[domain.Column](ctx, c, http.MethodPut, "/columns/"+esc(columnID), req)
}

func (c *BoardClient) DeleteColumn(ctx context.Context, columnID string) error {
	return c.do(ctx, http.MethodDelete, "/columns/"+esc(columnID), nil, nil)
}

func (c *BoardClient) CreateCard(ctx context.Context, req dto.CreateCardRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPost, "/cards", req)
}

func (c *BoardClient) UpdateCard(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPut, "/cards/"+esc(cardID), req)
}

func (c *BoardClient) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+esc(cardID), nil, nil)
}

func (c *BoardClient) AddComment(ctx context.Context, cardID string, req dto.CommentRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPost, "/cards/"+esc(cardID)+"/comments", req)
}

func (c *BoardClient) UpdateComment(ctx context.Context, cardID, commentID string, req dto.CommentRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPut, "/cards/"+esc(cardID)+"/comments/"+esc(commentID), req)
}

func (c *BoardClient) DeleteComment(ctx context.Context, cardID, commentID string) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodDelete, "/cards/"+esc(cardID)+"/comments/"+esc(commentID), nil)
}

func (c *BoardClient) AddReaction(ctx context.Context, cardID, commentID string, req dto.ReactionRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPost, "/cards/"+esc(cardID)+"/comments/"+esc(commentID)+"/reactions", req)
}

func (c *BoardClient) RemoveReaction(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error) {
	path := "/cards/" + esc(cardID) + "/comments/" + esc(commentID) + "/reactions/" + esc(reactionID)
	return doResult[domain.Card](ctx, c, http.MethodDelete, path, nil)
}

func (c *BoardClient) AddAttachment(ctx context.Context, cardID string, req dto.AttachmentRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPost, "/cards/"+esc(cardID)+"/attachments", req)
}

func (c *BoardClient) RemoveAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodDelete, "/cards/"+esc(cardID)+"/attachments/"+esc(attachmentID), nil)
}

func (c *BoardClient) UpdateCardMember(ctx context.Context, cardID string, req dto.CardMemberRequest) (*domain.Card, error) {
	return doResult[domain.Card](ctx, c, http.MethodPut, "/cards/"+esc(cardID)+"/members", req)
}
