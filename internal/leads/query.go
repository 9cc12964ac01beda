package leads

import (
	"context"
	"sort"
	"time"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// QueryParams selects and pages leads across one or both kinds.
type QueryParams struct {
	// Kind is b2b, b2c, or empty/"all" for both.
	Kind   string
	Source string
	Search string
	From   *time.Time
	To     *time.Time
	Page   int64
	Limit  int64
}

// KindTotals reports per-kind counts for combined queries.
type KindTotals struct {
	B2B int64 `json:"b2b"`
	B2C int64 `json:"b2c"`
}

// QueryResult is one page of leads plus pagination metadata.
type QueryResult struct {
	Items  []*Lead     `json:"items"`
	Total  int64       `json:"total"`
	Page   int64       `json:"page"`
	Limit  int64       `json:"limit"`
	Totals *KindTotals `json:"totals,omitempty"`
}

// QueryService provides filtered, paginated reads over both lead
// collections.
type QueryService struct {
	b2b Repository
	b2c Repository
}

// NewQueryService wires the per-kind repositories.
func NewQueryService(b2b, b2c Repository) *QueryService {
	return &QueryService{b2b: b2b, b2c: b2c}
}

// Query runs a single-kind query directly against that repository. A
// combined query fetches up to one page from each kind, merges, and
// re-sorts. Because each kind contributes at most limit items before
// the merge, pages past the first can undercount when one kind
// dominates at the page boundary.
func (s *QueryService) Query(ctx context.Context, params QueryParams) (*QueryResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := Filter{
		From:   params.From,
		To:     params.To,
		Source: params.Source,
		Search: params.Search,
	}

	if kind, ok := ParseKind(params.Kind); ok {
		repo := s.b2b
		if kind == KindB2C {
			repo = s.b2c
		}
		items, err := repo.Find(ctx, filter, Page{Skip: (page - 1) * limit, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			item.Kind = kind
		}
		total, err := repo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Items: items, Total: total, Page: page, Limit: limit}, nil
	}

	b2bItems, err := s.b2b.Find(ctx, filter, Page{Limit: limit})
	if err != nil {
		return nil, err
	}
	b2bTotal, err := s.b2b.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	b2cItems, err := s.b2c.Find(ctx, filter, Page{Limit: limit})
	if err != nil {
		return nil, err
	}
	b2cTotal, err := s.b2c.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	merged := make([]*Lead, 0, len(b2bItems)+len(b2cItems))
	for _, item := range b2bItems {
		item.Kind = KindB2B
		merged = append(merged, item)
	}
	for _, item := range b2cItems {
		item.Kind = KindB2C
		merged = append(merged, item)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start > int64(len(merged)) {
		start = int64(len(merged))
	}
	end := start + limit
	if end > int64(len(merged)) {
		end = int64(len(merged))
	}

	return &QueryResult{
		Items:  merged[start:end],
		Total:  b2bTotal + b2cTotal,
		Page:   page,
		Limit:  limit,
		Totals: &KindTotals{B2B: b2bTotal, B2C: b2cTotal},
	}, nil
}
