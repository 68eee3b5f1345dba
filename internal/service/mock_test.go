package service

import (
	"context"
	"io"
	"sync"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
)

// MockBoardAPI is a mock implementation of client.BoardAPI
type MockBoardAPI struct {
	mu    sync.Mutex
	calls []string

	CreateBoardFunc               func(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error)
	ListBoardsFunc                func(ctx context.Context, query dto.ListBoardsQuery) (*domain.BoardList, error)
	GetBoardFunc                  func(ctx context.Context, boardID string) (*domain.Board, error)
	UpdateBoardFunc               func(ctx context.Context, boardID string, req dto.UpdateBoardRequest) (*domain.Board, error)
	DeleteBoardFunc               func(ctx context.Context, boardID string) error
	LeaveBoardFunc                func(ctx context.Context, boardID string) error
	MoveCardToDifferentColumnFunc func(ctx context.Context, req dto.MoveCardRequest) error
	CreateColumnFunc              func(ctx context.Context, req dto.CreateColumnRequest) (*domain.Column, error)
	UpdateColumnFunc              func(ctx context.Context, columnID string, req dto.UpdateColumnRequest) (*domain.Column, error)
	DeleteColumnFunc              func(ctx context.Context, columnID string) error
	CreateCardFunc                func(ctx context.Context, req dto.CreateCardRequest) (*domain.Card, error)
	UpdateCardFunc                func(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error)
	DeleteCardFunc                func(ctx context.Context, cardID string) error
	AddCommentFunc                func(ctx context.Context, cardID string, req dto.CommentRequest) (*domain.Card, error)
	UpdateCommentFunc             func(ctx context.Context, cardID, commentID string, req dto.CommentRequest) (*domain.Card, error)
	DeleteCommentFunc             func(ctx context.Context, cardID, commentID string) (*domain.Card, error)
	AddReactionFunc               func(ctx context.Context, cardID, commentID string, req dto.ReactionRequest) (*domain.Card, error)
	RemoveReactionFunc            func(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error)
	AddAttachmentFunc             func(ctx context.Context, cardID string, req dto.AttachmentRequest) (*domain.Card, error)
	RemoveAttachmentFunc          func(ctx context.Context, cardID, attachmentID string) (*domain.Card, error)
	UpdateCardMemberFunc          func(ctx context.Context, cardID string, req dto.CardMemberRequest) (*domain.Card, error)
}

func (m *MockBoardAPI) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// Calls returns the names of the invoked methods in order
func (m *MockBoardAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBoardAPI) CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error) {
	m.record("CreateBoard")
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, req)
	}
	return &domain.Board{ID: "new-board", Title: req.Title, WorkspaceID: req.WorkspaceID}, nil
}

func (m *MockBoardAPI) ListBoards(ctx context.Context, query dto.ListBoardsQuery) (*domain.BoardList, error) {
	m.record("ListBoards")
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx, query)
	}
	return &domain.BoardList{}, nil
}

func (m *MockBoardAPI) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	m.record("GetBoard")
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockBoardAPI) UpdateBoard(ctx context.Context, boardID string, req dto.UpdateBoardRequest) (*domain.Board, error) {
	m.record("UpdateBoard")
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, boardID, req)
	}
	return &domain.Board{ID: boardID}, nil
}

func (m *MockBoardAPI) DeleteBoard(ctx context.Context, boardID string) error {
	m.record("DeleteBoard")
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, boardID)
	}
	return nil
}

func (m *MockBoardAPI) LeaveBoard(ctx context.Context, boardID string) error {
	m.record("LeaveBoard")
	if m.LeaveBoardFunc != nil {
		return m.LeaveBoardFunc(ctx, boardID)
	}
	return nil
}

func (m *MockBoardAPI) MoveCardToDifferentColumn(ctx context.Context, req dto.MoveCardRequest) error {
	m.record("MoveCardToDifferentColumn")
	if m.MoveCardToDifferentColumnFunc != nil {
		return m.MoveCardToDifferentColumnFunc(ctx, req)
	}
	return nil
}

func (m *MockBoardAPI) CreateColumn(ctx context.Context, req dto.CreateColumnRequest) (*domain.Column, error) {
	m.record("CreateColumn")
	if m.CreateColumnFunc != nil {
		return m.CreateColumnFunc(ctx, req)
	}
	return &domain.Column{ID: "new-col", BoardID: req.BoardID, Title: req.Title}, nil
}

func (m *MockBoardAPI) UpdateColumn(ctx context.Context, columnID string, req dto.UpdateColumnRequest) (*domain.Column, error) {
	m.record("UpdateColumn")
	if m.UpdateColumnFunc != nil {
		return m.UpdateColumnFunc(ctx, columnID, req)
	}
	return &domain.Column{ID: columnID}, nil
}

func (m *MockBoardAPI) DeleteColumn(ctx context.Context, columnID string) error {
	m.record("DeleteColumn")
	if m.DeleteColumnFunc != nil {
		return m.DeleteColumnFunc(ctx, columnID)
	}
	return nil
}

func (m *MockBoardAPI) CreateCard(ctx context.Context, req dto.CreateCardRequest) (*domain.Card, error) {
	m.record("CreateCard")
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, req)
	}
	return &domain.Card{ID: "new-card", BoardID: req.BoardID, ColumnID: req.ColumnID, Title: req.Title}, nil
}

func (m *MockBoardAPI) UpdateCard(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error) {
	m.record("UpdateCard")
	if m.UpdateCardFunc != nil {
		return m.UpdateCardFunc(ctx, cardID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) DeleteCard(ctx context.Context, cardID string) error {
	m.record("DeleteCard")
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(ctx, cardID)
	}
	return nil
}

func (m *MockBoardAPI) AddComment(ctx context.Context, cardID string, req dto.CommentRequest) (*domain.Card, error) {
	m.record("AddComment")
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, cardID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) UpdateComment(ctx context.Context, cardID, commentID string, req dto.CommentRequest) (*domain.Card, error) {
	m.record("UpdateComment")
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, cardID, commentID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) DeleteComment(ctx context.Context, cardID, commentID string) (*domain.Card, error) {
	m.record("DeleteComment")
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, cardID, commentID)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) AddReaction(ctx context.Context, cardID, commentID string, req dto.ReactionRequest) (*domain.Card, error) {
	m.record("AddReaction")
	if m.AddReactionFunc != nil {
		return m.AddReactionFunc(ctx, cardID, commentID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) RemoveReaction(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error) {
	m.record("RemoveReaction")
	if m.RemoveReactionFunc != nil {
		return m.RemoveReactionFunc(ctx, cardID, commentID, reactionID)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) AddAttachment(ctx context.Context, cardID string, req dto.AttachmentRequest) (*domain.Card, error) {
	m.record("AddAttachment")
	if m.AddAttachmentFunc != nil {
		return m.AddAttachmentFunc(ctx, cardID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) RemoveAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Card, error) {
	m.record("RemoveAttachment")
	if m.RemoveAttachmentFunc != nil {
		return m.RemoveAttachmentFunc(ctx, cardID, attachmentID)
	}
	return &domain.Card{ID: cardID}, nil
}

func (m *MockBoardAPI) UpdateCardMember(ctx context.Context, cardID string, req dto.CardMemberRequest) (*domain.Card, error) {
	m.record("UpdateCardMember")
	if m.UpdateCardMemberFunc != nil {
		return m.UpdateCardMemberFunc(ctx, cardID, req)
	}
	return &domain.Card{ID: cardID}, nil
}

// fakeStore is an in-memory BoardStore
type fakeStore struct {
	mu      sync.Mutex
	board   *domain.Board
	updates int
	fetch   func(ctx context.Context, boardID string) (*domain.Board, error)
}

func newFakeStore(board *domain.Board) *fakeStore {
	return &fakeStore{board: board}
}

func (f *fakeStore) ActiveBoard() *domain.Board {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.board
}

func (f *fakeStore) Snapshot() *domain.Board {
	return f.ActiveBoard().Clone()
}

func (f *fakeStore) UpdateActiveBoard(board *domain.Board) {
	f.mu.Lock()
	f.board = board
	f.updates++
	f.mu.Unlock()
}

func (f *fakeStore) GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error) {
	if f.fetch == nil {
		return nil, nil
	}
	board, err := f.fetch(ctx, boardID)
	if err != nil {
		return nil, err
	}
	board = domain.NormalizeBoard(board)
	f.UpdateActiveBoard(board)
	return board, nil
}

func (f *fakeStore) Updates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

// recordingBroadcaster records every outbound broadcast
type recordingBroadcaster struct {
	mu          sync.Mutex
	boards      []*domain.Board
	cards       []domain.Card
	deleted     []string
	workspaces  []string
	invitations []domain.BoardInvitation
	joined      []string
	left        []string
}

func (r *recordingBroadcaster) BroadcastBoard(_ context.Context, board *domain.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards = append(r.boards, board.Clone())
}

func (r *recordingBroadcaster) BroadcastCard(_ context.Context, card domain.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = append(r.cards, card.Clone())
}

func (r *recordingBroadcaster) BroadcastBoardDeleted(_ context.Context, boardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, boardID)
}

func (r *recordingBroadcaster) BroadcastWorkspace(_ context.Context, workspaceID, boardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if workspaceID == "" {
		return
	}
	r.workspaces = append(r.workspaces, workspaceID+"/"+boardID)
}

func (r *recordingBroadcaster) InviteToBoard(_ context.Context, invitation domain.BoardInvitation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invitations = append(r.invitations, invitation)
}

func (r *recordingBroadcaster) JoinWorkspace(_ context.Context, workspaceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joined = append(r.joined, workspaceID)
}

func (r *recordingBroadcaster) LeaveWorkspace(_ context.Context, workspaceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.left = append(r.left, workspaceID)
}

func (r *recordingBroadcaster) boardCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

func (r *recordingBroadcaster) lastBoard() *domain.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.boards) == 0 {
		return nil
	}
	return r.boards[len(r.boards)-1]
}

// fakeListCache is an in-memory BoardListCache
type fakeListCache struct {
	lists       map[string]*domain.BoardList
	invalidated []string
}

func (f *fakeListCache) Boards(_ context.Context, workspaceID string) (*domain.BoardList, error) {
	if list, ok := f.lists[workspaceID]; ok {
		return list, nil
	}
	return &domain.BoardList{}, nil
}

func (f *fakeListCache) Invalidate(workspaceID string) {
	f.invalidated = append(f.invalidated, workspaceID)
}

// MockS3Client is a mock implementation of client.S3ClientInterface
type MockS3Client struct {
	GenerateFileKeyFunc func(kind, boardID, fileName string) (string, error)
	UploadFileFunc      func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc      func(ctx context.Context, key string) error

	deleted []string
}

func (m *MockS3Client) GenerateFileKey(kind, boardID, fileName string) (string, error) {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(kind, boardID, fileName)
	}
	return "trellone/" + kind + "/" + boardID + "/" + fileName, nil
}

func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	return m.GetFileURL(key), nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	return "https://files.test/" + key
}

// newServiceBoard returns a board with a two card column and an empty column
func newServiceBoard() *domain.Board {
	board := &domain.Board{
		ID:             "b1",
		Title:          "Sprint",
		WorkspaceID:    "ws1",
		ColumnOrderIDs: []string{"c1", "c2"},
		Members:        []domain.BoardMember{{UserID: "u1", Role: domain.BoardRoleAdmin}, {UserID: "u2", Role: domain.BoardRoleMember}},
		Columns: []domain.Column{
			{
				ID: "c1", BoardID: "b1", Title: "Todo",
				CardOrderIDs: []string{"k1", "k2"},
				Cards: []domain.Card{
					{ID: "k1", BoardID: "b1", ColumnID: "c1", Title: "one"},
					{ID: "k2", BoardID: "b1", ColumnID: "c1", Title: "two"},
				},
			},
			{ID: "c2", BoardID: "b1", Title: "Done"},
		},
	}
	return domain.NormalizeBoard(board)
}
