package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"trellone-sync/internal/client"
	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/metrics"
)

// FileUpload is a file to be stored in the object store before it is linked to a card
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CardService defines the card mutations on the active board
type CardService interface {
	AddCard(ctx context.Context, columnID, title string) (*domain.Card, error)
	UpdateCard(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, cardID string) error

	SetDueDate(ctx context.Context, cardID string, due time.Time) (*domain.Card, error)
	SetCompleted(ctx context.Context, cardID string, completed bool) (*domain.Card, error)
	UploadCover(ctx context.Context, cardID string, file FileUpload) (*domain.Card, error)

	AddComment(ctx context.Context, cardID, content string) (*domain.Card, error)
	UpdateComment(ctx context.Context, cardID, commentID, content string) (*domain.Card, error)
	DeleteComment(ctx context.Context, cardID, commentID string) (*domain.Card, error)
	AddReaction(ctx context.Context, cardID, commentID, emoji string) (*domain.Card, error)
	RemoveReaction(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error)

	AddLink(ctx context.Context, cardID, url, displayName string) (*domain.Card, error)
	UploadAttachment(ctx context.Context, cardID string, file FileUpload) (*domain.Card, error)
	RemoveAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Card, error)

	AddMember(ctx context.Context, cardID, userID string) (*domain.Card, error)
	RemoveMember(ctx context.Context, cardID, userID string) (*domain.Card, error)
}

type cardServiceImpl struct {
	api         client.BoardAPI
	store       BoardStore
	broadcaster Broadcaster
	files       client.S3ClientInterface
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCardService creates a new instance of CardService. files may be nil, which disables uploads.
func NewCardService(
	api client.BoardAPI,
	store BoardStore,
	broadcaster Broadcaster,
	files client.S3ClientInterface,
	m *metrics.Metrics,
	logger *zap.Logger,
) CardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cardServiceImpl{
		api:         api,
		store:       store,
		broadcaster: broadcaster,
		files:       files,
		metrics:     m,
		logger:      logger,
	}
}

// AddCard creates a card and adds it to its column on the active board.
// An empty column loses its placeholder to the new card.
func (s *cardServiceImpl) AddCard(ctx context.Context, columnID, title string) (*domain.Card, error) {
	if isBlank(title) {
		return nil, ErrBlankTitle
	}
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}
	if _, ok := board.FindColumn(columnID); !ok {
		return nil, domain.ErrColumnNotFound
	}

	created, err := s.api.CreateCard(ctx, dto.CreateCardRequest{BoardID: board.ID, ColumnID: columnID, Title: title})
	if err != nil {
		s.logger.Warn("Failed to create card", zap.String("column_id", columnID), zap.Error(err))
		return nil, fmt.Errorf("create card: %w", err)
	}

	card := created.Clone()
	if card.ColumnID == "" {
		card.ColumnID = columnID
	}
	if card.BoardID == "" {
		card.BoardID = board.ID
	}

	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		col, found := b.FindColumn(card.ColumnID)
		if !found {
			return false
		}
		if col.IsEmpty() {
			col.Cards = []domain.Card{card.Clone()}
			col.CardOrderIDs = []string{card.ID}
			return true
		}
		col.Cards = append(col.Cards, card.Clone())
		col.CardOrderIDs = append(col.CardOrderIDs, card.ID)
		return true
	})
	if !ok {
		s.logger.Info("Active board changed while the card was created, skipping local patch",
			zap.String("board_id", board.ID),
			zap.String("card_id", card.ID))
		return &card, nil
	}

	s.metrics.IncrementOptimisticUpdate("add_card")
	s.broadcaster.BroadcastBoard(ctx, next)
	return &card, nil
}

// UpdateCard applies a partial update to a card
func (s *cardServiceImpl) UpdateCard(ctx context.Context, cardID string, req dto.UpdateCardRequest) (*domain.Card, error) {
	if req.Title != nil && isBlank(*req.Title) {
		return nil, ErrBlankTitle
	}
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateCard(ctx, cardID, req)
	return s.applyCard(ctx, "update_card", cardID, updated, err)
}

// DeleteCard deletes a card. A column left without cards gets its placeholder back.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID string) error {
	board, err := s.activeCard(cardID)
	if err != nil {
		return err
	}

	if err := s.api.DeleteCard(ctx, cardID); err != nil {
		s.logger.Warn("Failed to delete card", zap.String("card_id", cardID), zap.Error(err))
		return fmt.Errorf("delete card: %w", err)
	}

	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		col, found := b.FindColumnByCardID(cardID)
		if !found {
			return false
		}
		i := col.CardIndex(cardID)
		col.Cards = append(col.Cards[:i], col.Cards[i+1:]...)
		col.CardOrderIDs = removeString(col.CardOrderIDs, cardID)
		if len(col.Cards) == 0 {
			domain.InstallPlaceholder(col)
		}
		return true
	})
	if !ok {
		return nil
	}

	s.metrics.IncrementOptimisticUpdate("delete_card")
	s.broadcaster.BroadcastBoard(ctx, next)
	return nil
}

func (s *cardServiceImpl) SetDueDate(ctx context.Context, cardID string, due time.Time) (*domain.Card, error) {
	due = due.UTC()
	return s.UpdateCard(ctx, cardID, dto.UpdateCardRequest{DueDate: &due})
}

func (s *cardServiceImpl) SetCompleted(ctx context.Context, cardID string, completed bool) (*domain.Card, error) {
	return s.UpdateCard(ctx, cardID, dto.UpdateCardRequest{IsCompleted: &completed})
}

// UploadCover stores the image and sets it as the card cover
func (s *cardServiceImpl) UploadCover(ctx context.Context, cardID string, file FileUpload) (*domain.Card, error) {
	board, err := s.activeCard(cardID)
	if err != nil {
		return nil, err
	}
	key, url, err := s.upload(ctx, client.UploadKindCover, board.ID, file)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateCard(ctx, cardID, dto.UpdateCardRequest{CoverPhoto: &url})
	if err != nil {
		s.discardUpload(ctx, key)
	}
	return s.applyCard(ctx, "update_cover", cardID, updated, err)
}

func (s *cardServiceImpl) AddComment(ctx context.Context, cardID, content string) (*domain.Card, error) {
	if isBlank(content) {
		return nil, ErrBlankContent
	}
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.AddComment(ctx, cardID, dto.CommentRequest{Content: content})
	return s.applyCard(ctx, "add_comment", cardID, updated, err)
}

func (s *cardServiceImpl) UpdateComment(ctx context.Context, cardID, commentID, content string) (*domain.Card, error) {
	if isBlank(content) {
		return nil, ErrBlankContent
	}
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateComment(ctx, cardID, commentID, dto.CommentRequest{Content: content})
	return s.applyCard(ctx, "update_comment", cardID, updated, err)
}

func (s *cardServiceImpl) DeleteComment(ctx context.Context, cardID, commentID string) (*domain.Card, error) {
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.DeleteComment(ctx, cardID, commentID)
	return s.applyCard(ctx, "delete_comment", cardID, updated, err)
}

func (s *cardServiceImpl) AddReaction(ctx context.Context, cardID, commentID, emoji string) (*domain.Card, error) {
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.AddReaction(ctx, cardID, commentID, dto.ReactionRequest{Emoji: emoji})
	return s.applyCard(ctx, "add_reaction", cardID, updated, err)
}

func (s *cardServiceImpl) RemoveReaction(ctx context.Context, cardID, commentID, reactionID string) (*domain.Card, error) {
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.RemoveReaction(ctx, cardID, commentID, reactionID)
	return s.applyCard(ctx, "remove_reaction", cardID, updated, err)
}

// AddLink attaches a link to a card
func (s *cardServiceImpl) AddLink(ctx context.Context, cardID, url, displayName string) (*domain.Card, error) {
	if isBlank(url) {
		return nil, ErrBlankContent
	}
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = url
	}
	updated, err := s.api.AddAttachment(ctx, cardID, dto.AttachmentRequest{
		Type: domain.AttachmentTypeLink,
		Link: &domain.AttachmentLink{URL: url, DisplayName: displayName},
	})
	return s.applyCard(ctx, "add_attachment", cardID, updated, err)
}

// UploadAttachment stores the file and attaches it to a card.
// The stored object is removed again when the card cannot be updated.
func (s *cardServiceImpl) UploadAttachment(ctx context.Context, cardID string, file FileUpload) (*domain.Card, error) {
	board, err := s.activeCard(cardID)
	if err != nil {
		return nil, err
	}
	key, url, err := s.upload(ctx, client.UploadKindAttachment, board.ID, file)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.AddAttachment(ctx, cardID, dto.AttachmentRequest{
		Type: domain.AttachmentTypeFile,
		File: &domain.AttachmentFile{
			URL:         url,
			DisplayName: file.Name,
			MimeType:    file.ContentType,
			Size:        file.Size,
		},
	})
	if err != nil {
		s.discardUpload(ctx, key)
	}
	return s.applyCard(ctx, "add_attachment", cardID, updated, err)
}

func (s *cardServiceImpl) RemoveAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Card, error) {
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.RemoveAttachment(ctx, cardID, attachmentID)
	return s.applyCard(ctx, "remove_attachment", cardID, updated, err)
}

func (s *cardServiceImpl) AddMember(ctx context.Context, cardID, userID string) (*domain.Card, error) {
	return s.updateMember(ctx, cardID, userID, dto.MemberActionAdd)
}

func (s *cardServiceImpl) RemoveMember(ctx context.Context, cardID, userID string) (*domain.Card, error) {
	return s.updateMember(ctx, cardID, userID, dto.MemberActionRemove)
}

func (s *cardServiceImpl) updateMember(ctx context.Context, cardID, userID, action string) (*domain.Card, error) {
	if _, err := s.activeCard(cardID); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateCardMember(ctx, cardID, dto.CardMemberRequest{UserID: userID, Action: action})
	return s.applyCard(ctx, "update_card_members", cardID, updated, err)
}

// activeCard returns the active board when it holds the real card cardID
func (s *cardServiceImpl) activeCard(cardID string) (*domain.Board, error) {
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}
	if domain.IsPlaceholderID(cardID) {
		return nil, domain.ErrCardNotFound
	}
	if _, _, ok := board.FindCard(cardID); !ok {
		return nil, domain.ErrCardNotFound
	}
	return board, nil
}

// applyCard replaces the card on the active board with the server copy and broadcasts it
func (s *cardServiceImpl) applyCard(ctx context.Context, op, cardID string, updated *domain.Card, err error) (*domain.Card, error) {
	if err != nil {
		s.logger.Warn("Card request failed",
			zap.String("operation", op),
			zap.String("card_id", cardID),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%s: empty result", op)
	}

	card := updated.Clone()
	board := s.store.ActiveBoard()
	if board != nil {
		patched, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
			existing, _, found := b.FindCard(cardID)
			if !found {
				return false
			}
			if card.ColumnID == "" {
				card.ColumnID = existing.ColumnID
			}
			if card.BoardID == "" {
				card.BoardID = existing.BoardID
			}
			*existing = card.Clone()
			return true
		})
		if ok && patched != nil {
			s.metrics.IncrementOptimisticUpdate(op)
			s.broadcaster.BroadcastCard(ctx, card)
		}
	}

	return &card, nil
}

func (s *cardServiceImpl) upload(ctx context.Context, kind, boardID string, file FileUpload) (string, string, error) {
	if s.files == nil {
		return "", "", ErrUploadsDisabled
	}
	key, err := s.files.GenerateFileKey(kind, boardID, file.Name)
	if err != nil {
		return "", "", fmt.Errorf("generate file key: %w", err)
	}
	url, err := s.files.UploadFile(ctx, key, file.Body, file.ContentType)
	if err != nil {
		s.logger.Warn("Failed to upload file", zap.String("key", key), zap.Error(err))
		return "", "", fmt.Errorf("upload file: %w", err)
	}
	return key, url, nil
}

func (s *cardServiceImpl) discardUpload(ctx context.Context, key string) {
	if err := s.files.DeleteFile(ctx, key); err != nil {
		s.logger.Error("Failed to remove uploaded file after card update failure",
			zap.String("key", key),
			zap.Error(err))
	}
}
