//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
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

// Publisher is the shared write side of the hub.
// Implementations must be safe for concurrent use without external locking.
type Publisher interface {
	Publish(msg domain.Message) (int, error)
}

// ISubscription is a private cursor into the hub stream, owned by one session.
type ISubscription interface {
	Ready() <-chan struct{}
	TryReceive() (domain.Message, error)
	Receive(ctx context.Context) (domain.Message, error)
	Close()
}

type IHub interface {
	Publisher
	Subscribe() (ISubscription, error)
	Close()
	Subscribers() int
	Len() int
	Capacity() int
}
