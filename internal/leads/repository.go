package leads

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Filter narrows Find/Count results. Zero values match everything.
type Filter struct {
	// From/To bound CreatedAt inclusively.
	From *time.Time
	To   *time.Time
	// Source is an exact match when non-empty.
	Source string
	// Search is a case-insensitive substring matched against name,
	// email, phone, company, service, and source (logical OR).
	Search string
}

// Page controls pagination of Find results.
type Page struct {
	Skip  int64
	Limit int64
}

// PurgeResult reports the outcome of a bulk delete.
type PurgeResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Repository is the storage contract for one lead kind. Results are
// sorted by CreatedAt descending.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	Find(ctx context.Context, filter Filter, page Page) ([]*Lead, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// DeleteBefore removes leads created before cutoff. A nil cutoff
	// removes every lead of the kind.
	DeleteBefore(ctx context.Context, cutoff *time.Time) (PurgeResult, error)
}

// InMemoryRepository keeps leads in memory. It backs development runs
// without a database and doubles as the test fake.
type InMemoryRepository struct {
	kind Kind

	mu    sync.RWMutex
	leads []*Lead
}

// NewInMemoryRepository creates an empty in-memory repository for the
// given kind.
func NewInMemoryRepository(kind Kind) *InMemoryRepository {
	return &InMemoryRepository{kind: kind}
}

// Create validates the request, assigns an ID and creation time, and
// stores the lead.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := req.lead(r.kind, time.Now().UTC())
	lead.ID = uuid.New().String()

	r.mu.Lock()
	r.leads = append(r.leads, lead)
	r.mu.Unlock()

	return lead, nil
}

// Find returns the filtered page, newest first.
func (r *InMemoryRepository) Find(ctx context.Context, filter Filter, page Page) ([]*Lead, error) {
	r.mu.RLock()
	matched := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if filter.matches(lead) {
			matched = append(matched, lead)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if page.Skip > 0 {
		if page.Skip >= int64(len(matched)) {
			return nil, nil
		}
		matched = matched[page.Skip:]
	}
	if page.Limit > 0 && int64(len(matched)) > page.Limit {
		matched = matched[:page.Limit]
	}

	// Callers may annotate returned leads, so hand out copies rather
	// than pointers into the store.
	out := make([]*Lead, len(matched))
	for i, lead := range matched {
		c := *lead
		out[i] = &c
	}
	return out, nil
}

// Count returns the number of leads matching the filter.
func (r *InMemoryRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, lead := range r.leads {
		if filter.matches(lead) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore removes leads created before cutoff, or all leads when
// cutoff is nil.
func (r *InMemoryRepository) DeleteBefore(ctx context.Context, cutoff *time.Time) (PurgeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cutoff == nil {
		n := int64(len(r.leads))
		r.leads = nil
		return PurgeResult{DeletedCount: n}, nil
	}

	kept := r.leads[:0]
	var deleted int64
	for _, lead := range r.leads {
		if lead.CreatedAt.Before(*cutoff) {
			deleted++
			continue
		}
		kept = append(kept, lead)
	}
	r.leads = kept
	return PurgeResult{DeletedCount: deleted}, nil
}

func (f Filter) matches(lead *Lead) bool {
	if f.From != nil && lead.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && lead.CreatedAt.After(*f.To) {
		return false
	}
	if f.Source != "" && lead.Source != f.Source {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{lead.Name, lead.Email, lead.Phone, lead.Company, lead.Service, lead.Source}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var _ Repository = (*InMemoryRepository)(nil)
