package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

var testSorts = Sorts{
	Default: "newest",
	Orders: map[string]bson.D{
		"newest": {{Key: "created_at", Value: -1}},
		"name":   {{Key: "name_ci", Value: 1}},
	},
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
		wantSort  string
	}{
		{"defaults", "/x", 1, DefaultLimit, "newest"},
		{"explicit", "/x?page=3&limit=5&sort=name", 3, 5, "name"},
		{"page below one", "/x?page=0", 1, DefaultLimit, "newest"},
		{"negative page", "/x?page=-4", 1, DefaultLimit, "newest"},
		{"garbage page", "/x?page=abc", 1, DefaultLimit, "newest"},
		{"limit clamped", "/x?limit=5000", 1, MaxLimit, "newest"},
		{"zero limit", "/x?limit=0", 1, DefaultLimit, "newest"},
		{"unknown sort", "/x?sort=%24where", 1, DefaultLimit, "newest"},
		{"huge page clamped", "/x?page=100000000000000000&limit=100", MaxPage, MaxLimit, "newest"},
		{"page past int64", "/x?page=99999999999999999999", 1, DefaultLimit, "newest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(httptest.NewRequest("GET", tt.target, nil), testSorts)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Sort != tt.wantSort {
				t.Errorf("Parse(%q) = %+v, want page=%d limit=%d sort=%q",
					tt.target, p, tt.wantPage, tt.wantLimit, tt.wantSort)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Params{Page: 1, Limit: 20}).Skip(); got != 0 {
		t.Errorf("page 1 Skip() = %d, want 0", got)
	}
	if got := (Params{Page: 4, Limit: 25}).Skip(); got != 75 {
		t.Errorf("page 4 Skip() = %d, want 75", got)
	}

	p := Parse(httptest.NewRequest("GET", "/x?page=100000000000000000&limit=100", nil), testSorts)
	if got, want := p.Skip(), int64(MaxPage-1)*MaxLimit; got != want {
		t.Errorf("huge page Skip() = %d, want %d", got, want)
	}
	for _, hand := range []Params{
		{Page: MaxPage * 1000, Limit: 100},
		{Page: 0, Limit: 20},
		{Page: 3, Limit: -5},
	} {
		if got := hand.Skip(); got < 0 {
			t.Errorf("%+v Skip() = %d, want non-negative", hand, got)
		}
	}
}

func TestSortsOrder_AppendsIDTiebreaker(t *testing.T) {
	got := testSorts.Order("name")
	want := bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Order(name) = %v, want %v", got, want)
	}

	got = testSorts.Order("unknown")
	if got[0].Key != "created_at" || got[1] != (bson.E{Key: "_id", Value: -1}) {
		t.Errorf("Order(unknown) = %v, want created_at desc then _id desc", got)
	}
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		count     int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty", Params{Page: 1, Limit: 20}, 0, 0, 0, false, false},
		{"single page", Params{Page: 1, Limit: 20}, 7, 7, 1, false, false},
		{"exact multiple", Params{Page: 1, Limit: 10}, 10, 20, 2, true, false},
		{"middle page", Params{Page: 2, Limit: 20}, 20, 57, 3, true, true},
		{"last page", Params{Page: 3, Limit: 20}, 17, 57, 3, false, true},
		{"past the end", Params{Page: 9, Limit: 20}, 0, 57, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildMeta(tt.params, tt.count, tt.total)
			if m.TotalPages != tt.wantPages || m.HasNext != tt.wantNext || m.HasPrev != tt.wantPrev {
				t.Errorf("BuildMeta() = %+v", m)
			}
			if m.Count > m.Limit {
				t.Errorf("count %d exceeds limit %d", m.Count, m.Limit)
			}
			if m.TotalItems != tt.total {
				t.Errorf("TotalItems = %d, want %d", m.TotalItems, tt.total)
			}
		})
	}
}

func TestNewPage_NilItemsBecomeEmpty(t *testing.T) {
	p := NewPage[string](nil, Params{Page: 1, Limit: 20}, 0)
	if p.Items == nil {
		t.Error("expected non-nil items slice")
	}
}
