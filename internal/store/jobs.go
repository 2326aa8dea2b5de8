package store

import (
	"sort"
	"sync"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

// ActiveJobs tracks assignments whose results have not yet been delivered to
// the auction house. A duplicate assignment for the same auction replaces
// the previous record.
type ActiveJobs struct {
	mu   sync.RWMutex
	jobs map[string]model.Job
}

func NewActiveJobs() *ActiveJobs {
	return &ActiveJobs{jobs: make(map[string]model.Job)}
}

func (a *ActiveJobs) Put(job model.Job) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobs[job.AuctionID] = job
}

func (a *ActiveJobs) Get(auctionID string) (model.Job, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	job, ok := a.jobs[auctionID]
	return job, ok
}

func (a *ActiveJobs) Delete(auctionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.jobs, auctionID)
}

// IDs returns the auction ids of all active jobs, sorted for stable output.
func (a *ActiveJobs) IDs() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ids := make([]string, 0, len(a.jobs))
	for id := range a.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *ActiveJobs) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.jobs)
}
