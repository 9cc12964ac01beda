package leads

import (
	"context"
	"testing"
	"time"
)

func seededQueryService(t *testing.T) (*QueryService, *InMemoryRepository, *InMemoryRepository) {
	t.Helper()
	b2b := NewInMemoryRepository(KindB2B)
	b2c := NewInMemoryRepository(KindB2C)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedLead(b2b, &Lead{Name: "b2b", Phone: "1", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	for i := 0; i < 5; i++ {
		seedLead(b2c, &Lead{Name: "b2c", Phone: "2", CreatedAt: base.Add(time.Duration(i)*time.Hour + 30*time.Minute)})
	}
	return NewQueryService(b2b, b2c), b2b, b2c
}

func TestQueryMergedKinds(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "all", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if result.Total != 12 {
		t.Errorf("expected total 12, got %d", result.Total)
	}
	if result.Totals == nil {
		t.Fatalf("expected per-kind totals on merged query")
	}
	if result.Totals.B2B != 7 || result.Totals.B2C != 5 {
		t.Errorf("unexpected totals: %+v", result.Totals)
	}
	if len(result.Items) != 10 {
		t.Errorf("expected 10 items, got %d", len(result.Items))
	}
	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].CreatedAt.After(result.Items[i-1].CreatedAt) {
			t.Errorf("items out of order at %d", i)
		}
	}
	sawB2B, sawB2C := false, false
	for _, item := range result.Items {
		switch item.Kind {
		case KindB2B:
			sawB2B = true
		case KindB2C:
			sawB2C = true
		}
	}
	if !sawB2B || !sawB2C {
		t.Errorf("expected both kinds in merged page")
	}
}

func TestQuerySingleKind(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "b2c", Page: 1, Limit: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Total)
	}
	if result.Totals != nil {
		t.Errorf("expected no per-kind totals on single-kind query")
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.Kind != KindB2C {
			t.Errorf("expected only b2c items, got %s", item.Kind)
		}
	}
}

func TestQuerySingleKindSecondPage(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "b2b", Page: 2, Limit: 4})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 items on second page of 7, got %d", len(result.Items))
	}
	if result.Page != 2 || result.Limit != 4 {
		t.Errorf("expected page/limit echoed back, got %d/%d", result.Page, result.Limit)
	}
}

func TestQueryClampsPagination(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "b2b", Page: 0, Limit: 5000})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", result.Page)
	}
	if result.Limit != maxPageLimit {
		t.Errorf("expected limit clamped to %d, got %d", maxPageLimit, result.Limit)
	}
}

// A merged page draws at most limit rows from each kind before
// re-sorting, so deep pages can undercount when one kind dominates.
// The first page must still be exact.
func TestQueryMergedFirstPageExact(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "all", Page: 1, Limit: 4})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(result.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(result.Items))
	}
	// Newest four overall: b2b@6h, b2b@5h, b2c@4:30, b2b@4h.
	want := []time.Time{
		time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !result.Items[i].CreatedAt.Equal(w) {
			t.Errorf("item %d: expected %s, got %s", i, w, result.Items[i].CreatedAt)
		}
	}
}

func TestQueryMergedWithFilter(t *testing.T) {
	svc, _, _ := seededQueryService(t)

	result, err := svc.Query(context.Background(), QueryParams{Kind: "all", Search: "b2c", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("expected total 5 after filter, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.Kind != KindB2C {
			t.Errorf("filter leaked %s item", item.Kind)
		}
	}
}
