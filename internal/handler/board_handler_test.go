package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/response"
	"trellone-sync/internal/service"
	"trellone-sync/internal/store"
)

// MockBoardService implements service.BoardService; methods without a Func panic through the nil embed
type MockBoardService struct {
	service.BoardService
	OpenBoardFunc   func(ctx context.Context, boardID string) (*domain.Board, error)
	ActiveBoardFunc func() *domain.Board
}

func (m *MockBoardService) OpenBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	return m.OpenBoardFunc(ctx, boardID)
}

func (m *MockBoardService) ActiveBoard() *domain.Board {
	if m.ActiveBoardFunc != nil {
		return m.ActiveBoardFunc()
	}
	return nil
}

type MockColumnService struct {
	service.ColumnService
	AddColumnFunc func(ctx context.Context, title string) (*domain.Column, error)
}

func (m *MockColumnService) AddColumn(ctx context.Context, title string) (*domain.Column, error) {
	return m.AddColumnFunc(ctx, title)
}

type MockCardService struct {
	service.CardService
	AddCardFunc func(ctx context.Context, columnID, title string) (*domain.Card, error)
}

func (m *MockCardService) AddCard(ctx context.Context, columnID, title string) (*domain.Card, error) {
	return m.AddCardFunc(ctx, columnID, title)
}

type MockMoveService struct {
	service.MoveService
	ReorderColumnFunc func(ctx context.Context, activeColumnID, overColumnID string) (*domain.Board, error)
}

func (m *MockMoveService) ReorderColumn(ctx context.Context, activeColumnID, overColumnID string) (*domain.Board, error) {
	return m.ReorderColumnFunc(ctx, activeColumnID, overColumnID)
}

type boardMocks struct {
	boards  *MockBoardService
	columns *MockColumnService
	cards   *MockCardService
	moves   *MockMoveService
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newBoardRouter(m *boardMocks) *gin.Engine {
	h := NewBoardHandler(m.boards, m.columns, m.cards, m.moves, nil)
	r := setupTestRouter()
	r.GET("/api/board", h.GetActiveBoard)
	r.POST("/api/board/open/:boardId", h.OpenBoard)
	r.POST("/api/columns", h.AddColumn)
	r.POST("/api/columns/:columnId/cards", h.AddCard)
	r.PUT("/api/board/column-order", h.ReorderColumns)
	return r
}

func newBoardMocks() *boardMocks {
	return &boardMocks{
		boards:  &MockBoardService{},
		columns: &MockColumnService{},
		cards:   &MockCardService{},
		moves:   &MockMoveService{},
	}
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestBoardHandler_GetActiveBoard(t *testing.T) {
	m := newBoardMocks()
	r := newBoardRouter(m)

	w := doJSON(r, http.MethodGet, "/api/board", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrCodeConflict, decodeError(t, w).Code)

	m.boards.ActiveBoardFunc = func() *domain.Board {
		return &domain.Board{ID: "b1", Title: "Roadmap"}
	}
	w = doJSON(r, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Roadmap"`)
}

func TestBoardHandler_OpenBoard(t *testing.T) {
	tests := []struct {
		name           string
		open           func(ctx context.Context, boardID string) (*domain.Board, error)
		expectedStatus int
	}{
		{
			name: "opened",
			open: func(ctx context.Context, boardID string) (*domain.Board, error) {
				return domain.NormalizeBoard(&domain.Board{
					ID:             boardID,
					ColumnOrderIDs: []string{"c1", "c2"},
					Columns: []domain.Column{
						{ID: "c1", CardOrderIDs: []string{"k1"}, Cards: []domain.Card{{ID: "k1", ColumnID: "c1"}}},
						{ID: "c2"},
					},
				}), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "superseded",
			open: func(ctx context.Context, boardID string) (*domain.Board, error) {
				return nil, store.ErrFetchSuperseded
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "remote not found",
			open: func(ctx context.Context, boardID string) (*domain.Board, error) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unexpected",
			open: func(ctx context.Context, boardID string) (*domain.Board, error) {
				return nil, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newBoardMocks()
			m.boards.OpenBoardFunc = tt.open

			w := doJSON(newBoardRouter(m), http.MethodPost, "/api/board/open/b1", nil)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp struct {
				Data dto.OpenBoardResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			// the empty column holds only its placeholder
			assert.Equal(t, dto.OpenBoardResponse{BoardID: "b1", Columns: 2, Cards: 1}, resp.Data)
		})
	}
}

func TestBoardHandler_AddColumn(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"created", dto.AddColumnRequest{Title: "Done"}, nil, http.StatusCreated, ""},
		{"blank title", dto.AddColumnRequest{Title: "  "}, service.ErrBlankTitle, http.StatusBadRequest, response.ErrCodeValidation},
		{"no board", dto.AddColumnRequest{Title: "Done"}, service.ErrNoActiveBoard, http.StatusConflict, response.ErrCodeConflict},
		{"invalid json", "{", nil, http.StatusBadRequest, response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newBoardMocks()
			m.columns.AddColumnFunc = func(ctx context.Context, title string) (*domain.Column, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &domain.Column{ID: "c9", Title: title}, nil
			}

			w := doJSON(newBoardRouter(m), http.MethodPost, "/api/columns", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestBoardHandler_AddCard(t *testing.T) {
	m := newBoardMocks()
	var gotColumn string
	m.cards.AddCardFunc = func(ctx context.Context, columnID, title string) (*domain.Card, error) {
		gotColumn = columnID
		if columnID == "missing" {
			return nil, domain.ErrColumnNotFound
		}
		return &domain.Card{ID: "k9", ColumnID: columnID, Title: title}, nil
	}
	r := newBoardRouter(m)

	w := doJSON(r, http.MethodPost, "/api/columns/c1/cards", dto.AddCardRequest{Title: "Write docs"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c1", gotColumn)

	w = doJSON(r, http.MethodPost, "/api/columns/missing/cards", dto.AddCardRequest{Title: "Write docs"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardHandler_ReorderColumns(t *testing.T) {
	m := newBoardMocks()
	m.moves.ReorderColumnFunc = func(ctx context.Context, activeColumnID, overColumnID string) (*domain.Board, error) {
		return &domain.Board{ID: "b1", ColumnOrderIDs: []string{activeColumnID, overColumnID}}, nil
	}
	r := newBoardRouter(m)

	w := doJSON(r, http.MethodPut, "/api/board/column-order", dto.ColumnOrderRequest{ActiveColumnID: "c2", OverColumnID: "c1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `["c2","c1"]`)

	w = doJSON(r, http.MethodPut, "/api/board/column-order", map[string]string{"active_column_id": "c2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
