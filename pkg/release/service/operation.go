package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kyma-incubator/app-reconciler/pkg/release"
)

type OperationType string

const (
	OperationApply  OperationType = "apply"
	OperationDelete OperationType = "delete"
)

type OperationStatus string

const (
	StatusPending OperationStatus = "pending"
	StatusRunning OperationStatus = "running"
	StatusSuccess OperationStatus = "success"
	StatusFailed  OperationStatus = "failed"
)

func (s OperationStatus) IsFinal() bool {
	return s == StatusSuccess || s == StatusFailed
}

type Operation struct {
	ID        string          `json:"id"`
	Type      OperationType   `json:"type"`
	Namespace string          `json:"namespace"`
	Name      string          `json:"name"`
	Status    OperationStatus `json:"status"`
	Error     string          `json:"error,omitempty"`
	Kind      release.Kind    `json:"kind,omitempty"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
}

func (o *Operation) String() string {
	return fmt.Sprintf("Operation [id:%s|type:%s|release:%s/%s|status:%s]", o.ID, o.Type, o.Namespace, o.Name, o.Status)
}

//Registry keeps track of submitted operations. Finished operations are dropped after the retention period.
type Registry struct {
	mu         sync.RWMutex
	operations map[string]*Operation
	retention  time.Duration
}

func NewRegistry(retention time.Duration) *Registry {
	return &Registry{
		operations: make(map[string]*Operation),
		retention:  retention,
	}
}

func (r *Registry) Add(opType OperationType, namespace, name string) *Operation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()

	now := time.Now()
	op := &Operation{
		ID:        uuid.NewString(),
		Type:      opType,
		Namespace: namespace,
		Name:      name,
		Status:    StatusPending,
		Created:   now,
		Updated:   now,
	}
	r.operations[op.ID] = op
	copied := *op
	return &copied
}

//Get returns a copy of the operation
func (r *Registry) Get(id string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operations[id]
	if !ok {
		return nil, false
	}
	copied := *op
	return &copied, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operations, id)
}

func (r *Registry) Update(id string, status OperationStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.operations[id]
	if !ok {
		return
	}
	op.Status = status
	op.Updated = time.Now()
	if err != nil {
		op.Error = err.Error()
		op.Kind = release.KindOf(err)
	}
}

//prune expects the caller to hold the lock
func (r *Registry) prune() {
	if r.retention <= 0 {
		return
	}
	for id, op := range r.operations {
		if op.Status.IsFinal() && time.Since(op.Updated) > r.retention {
			delete(r.operations, id)
		}
	}
}
