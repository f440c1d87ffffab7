package generation

import (
	"sync"

	"golang.org/x/sync/semaphore"
	"philcali.me/nutrition/internal/exceptions"
)

// InFlight allows one generation per account at a time. A request arriving
// while another is pending is rejected rather than queued.
type InFlight struct {
	mutex    sync.Mutex
	accounts map[string]*semaphore.Weighted
}

func NewInFlight() *InFlight {
	return &InFlight{
		accounts: make(map[string]*semaphore.Weighted),
	}
}

func (f *InFlight) semaphore(accountId string) *semaphore.Weighted {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	sem, ok := f.accounts[accountId]
	if !ok {
		sem = semaphore.NewWeighted(1)
		f.accounts[accountId] = sem
	}
	return sem
}

func (f *InFlight) Run(accountId string, thunk func() error) error {
	sem := f.semaphore(accountId)
	if !sem.TryAcquire(1) {
		return exceptions.InFlight(accountId)
	}
	defer sem.Release(1)
	return thunk()
}
