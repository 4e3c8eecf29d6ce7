package normalize

import "testing"

func TestFolding(t *testing.T) {
	tests := []struct {
		fn    string
		f     func(string) string
		input string
		want  string
	}{
		{"Email", Email, "  Imam.Yusuf@Masjid.ORG ", "imam.yusuf@masjid.org"},
		{"Email", Email, "   ", ""},
		{"Status", Status, " Under_Review ", "under_review"},
		{"Status", Status, "APPROVED", "approved"},
		{"Role", Role, "  Imam  ", "imam"},
		{"Role", Role, "BUSINESS", "business"},
		{"Category", Category, " Restaurant ", "restaurant"},
		{"QueryParam", QueryParam, "  Al Noor ", "Al Noor"},
		{"Name", Name, "  Masjid   Al  Noor ", "Masjid Al Noor"},
		{"Name", Name, "HALAL MEATS", "HALAL MEATS"},
		{"Name", Name, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.fn+"/"+tt.input, func(t *testing.T) {
			if got := tt.f(tt.input); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.fn, tt.input, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"all", ""},
		{"  ALL ", ""},
		{"Approved", "approved"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Filter(tt.input); got != tt.want {
			t.Errorf("Filter(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCode(t *testing.T) {
	if got := Code("  eid 25 "); got != "EID25" {
		t.Errorf("Code() = %q, want EID25", got)
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{" Teaching ", "cooking", "", "teaching", "First  Aid"})
	want := []string{"cooking", "first aid", "teaching"}
	if len(got) != len(want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if out := Tags(nil); out == nil || len(out) != 0 {
		t.Errorf("Tags(nil) = %#v, want empty non-nil slice", out)
	}
}
