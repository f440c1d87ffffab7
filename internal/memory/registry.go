// Package memory holds the process-local backend. Each account owns an
// independent store, created on first use.
package memory

import "sync"

type Registry[S any] struct {
	mutex  sync.Mutex
	stores map[string]*Locked[S]
	create func(accountId string) (*S, error)
}

// Locked pairs an account's state with the lock that guards it.
type Locked[S any] struct {
	sync.RWMutex
	State *S
}

func NewRegistry[S any](create func(accountId string) (*S, error)) *Registry[S] {
	return &Registry[S]{
		stores: make(map[string]*Locked[S]),
		create: create,
	}
}

func (r *Registry[S]) For(accountId string) (*Locked[S], error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if store, ok := r.stores[accountId]; ok {
		return store, nil
	}
	state, err := r.create(accountId)
	if err != nil {
		return nil, err
	}
	store := &Locked[S]{State: state}
	r.stores[accountId] = store
	return store, nil
}

func (r *Registry[S]) Read(accountId string, fn func(*S) error) error {
	store, err := r.For(accountId)
	if err != nil {
		return err
	}
	store.RLock()
	defer store.RUnlock()
	return fn(store.State)
}

func (r *Registry[S]) Write(accountId string, fn func(*S) error) error {
	store, err := r.For(accountId)
	if err != nil {
		return err
	}
	store.Lock()
	defer store.Unlock()
	return fn(store.State)
}
