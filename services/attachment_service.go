package services

import (
	"bytes"
	"chat-feed/contract"
	"chat-feed/domain/mimetypes"
	"chat-feed/errors"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLength is the header size mimetype reads by default.
const sniffLength = 3072

type AttachmentService struct {
	log         *slog.Logger
	attachments contract.IAttachmentStore
}

func NewAttachmentService(log *slog.Logger, attachments contract.IAttachmentStore) *AttachmentService {
	return &AttachmentService{log: log, attachments: attachments}
}

// Upload stores an image and returns the storage id to reference from a message.
// Anything else than an image fails with errors.ErrUnsupportedMedia before being stored.
func (s *AttachmentService) Upload(ctx context.Context, userID string, content io.Reader) (string, error) {
	if userID == "" {
		return "", errors.ErrUnauthorized
	}
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	detected := mimetype.Detect(head).String()
	if !mimetypes.IsImage(detected) {
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedMedia, mimetypes.ToMIME(detected))
	}

	storageID, contentType, err := s.attachments.Upload(ctx, io.MultiReader(bytes.NewReader(head), content))
	if err != nil {
		return "", err
	}
	s.log.Debug("Image uploaded", "storage_id", storageID, "type", contentType, "user", userID)
	return storageID, nil
}

func (s *AttachmentService) Open(ctx context.Context, storageID string) (io.ReadCloser, string, error) {
	return s.attachments.Open(ctx, storageID)
}
