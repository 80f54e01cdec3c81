package repositories

import (
	"bytes"
	"chat-feed/errors"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AttachmentRepository is a small object store for message images kept next to the messages.
// Objects are addressed by a storage id and served under baseURL.
type AttachmentRepository struct {
	db       *badger.DB
	log      *slog.Logger
	baseURL  string
	maxBytes int64
}

func NewAttachmentRepository(db *badger.DB, log *slog.Logger, baseURL string, maxBytes int64) AttachmentRepository {
	return AttachmentRepository{
		db:       db,
		log:      log,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

type DiskAttachment struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	At          int64  `json:"at"`
}

func blobKey(id string) []byte     { return []byte("blob:" + id) }
func blobMetaKey(id string) []byte { return []byte("blobmeta:" + id) }

// Upload stores the content and returns its storage id and sniffed content type.
func (a AttachmentRepository) Upload(_ context.Context, content io.Reader) (string, string, error) {
	data, err := io.ReadAll(io.LimitReader(content, a.maxBytes+1))
	if err != nil {
		return "", "", err
	}
	if int64(len(data)) > a.maxBytes {
		return "", "", fmt.Errorf("attachment exceeds %d bytes: %w", a.maxBytes, errors.ErrInvalidCommand)
	}
	contentType := mimetype.Detect(data).String()
	meta := DiskAttachment{
		ID:          uuid.New().String(),
		ContentType: contentType,
		Size:        int64(len(data)),
		At:          time.Now().UTC().UnixNano(),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return "", "", err
	}
	err = a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blobKey(meta.ID), data); err != nil {
			return err
		}
		return txn.Set(blobMetaKey(meta.ID), metaBytes)
	})
	if err != nil {
		return "", "", err
	}
	a.log.Debug("Attachment stored", "id", meta.ID, "type", contentType, "size", meta.Size)
	return meta.ID, contentType, nil
}

// Open returns the stored content with its content type.
func (a AttachmentRepository) Open(_ context.Context, storageID string) (io.ReadCloser, string, error) {
	var meta DiskAttachment
	var data []byte
	err := a.db.View(func(txn *badger.Txn) error {
		if err := getJSON(txn, blobMetaKey(storageID), &meta); err != nil {
			return err
		}
		item, err := txn.Get(blobKey(storageID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("attachment %s: %w", storageID, err)
	}
	return io.NopCloser(bytes.NewReader(data)), meta.ContentType, nil
}

// ResolveURL returns nil for a reference with nothing stored behind it.
func (a AttachmentRepository) ResolveURL(_ context.Context, storageID string) (*string, error) {
	err := a.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(blobMetaKey(storageID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/attachments/%s", a.baseURL, storageID)
	return &url, nil
}
