//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/domain/search"
	"context"
	"io"
	"reflect"
)

// IMessageStore returns feeds newest-first and replies in storage order.
// Lookups of unknown ids fail with errors.ErrNotFound.
type IMessageStore interface {
	GetPage(ctx context.Context, scope domain.Scope, cursor *string, pageSize int) (domain.Page[domain.Message], error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	ListReplies(ctx context.Context, parentMessageID string) ([]domain.Message, error)
	Create(ctx context.Context, message domain.Message) (string, error)
	Update(ctx context.Context, id string, body string) (domain.Message, error)
	Delete(ctx context.Context, id string) (domain.Message, error)
}

// IMemberDirectory resolves members and their user profiles.
// Lookups of unknown ids fail with errors.ErrNotFound.
type IMemberDirectory interface {
	GetMember(ctx context.Context, memberID string) (domain.Member, error)
	GetMemberByUser(ctx context.Context, workspaceID, userID string) (domain.Member, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	// AddMember returns the existing membership id when the user already belongs to the workspace.
	AddMember(ctx context.Context, member domain.Member) (string, error)
}

type IReactionStore interface {
	ListReactions(ctx context.Context, messageID string) ([]domain.Reaction, error)
	// Toggle removes the member's reaction with this value, or adds it when absent.
	// It reports whether the reaction now exists.
	Toggle(ctx context.Context, reaction domain.Reaction) (bool, error)
}

// IAttachmentStore is a key-value object store for message images.
type IAttachmentStore interface {
	Upload(ctx context.Context, content io.Reader) (storageID string, contentType string, err error)
	Open(ctx context.Context, storageID string) (io.ReadCloser, string, error)
	// ResolveURL returns nil when nothing is stored under the reference.
	ResolveURL(ctx context.Context, storageID string) (*string, error)
}

type IWorkspaceStore interface {
	CreateWorkspace(ctx context.Context, workspace domain.Workspace) (string, error)
	GetWorkspace(ctx context.Context, id string) (domain.Workspace, error)
	CreateChannel(ctx context.Context, channel domain.Channel) (string, error)
	GetChannel(ctx context.Context, id string) (domain.Channel, error)
	GetConversation(ctx context.Context, id string) (domain.Conversation, error)
	FindConversation(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (domain.Conversation, error)
	CreateConversation(ctx context.Context, conversation domain.Conversation) (string, error)
}

// IMessageIndex indexes message bodies for workspace search.
type IMessageIndex interface {
	Index(message domain.Message) error
	Remove(messageID string) error
	// Search returns matching message ids, best match first.
	Search(ctx context.Context, workspaceID string, query search.Query) ([]string, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which sinks watch which feed.
type IRegistry interface {
	GetSinksForScope(scope domain.Scope) []EventSink
	Subscribe(viewerID string, scope domain.Scope, sink EventSink)
	Unsubscribe(viewerID string, scope domain.Scope)
}

// IPublisher hands change events to the refresh runtime without blocking writers.
type IPublisher interface {
	Publish(e event.DomainEvent)
}
