package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true},   // RFC 5322 allows single-label domains
		{"admin@mailserver", true}, // useful for dev/test environments

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - bad format (previously allowed by weak regex)
		{".user@example.com", false},      // leading dot in local
		{"user.@example.com", false},      // trailing dot in local
		{"user..name@example.com", false}, // consecutive dots
		{"user@.example.com", false},      // leading dot in domain
		{"user@example..com", false},      // consecutive dots in domain

		// Invalid emails - display name format (should be rejected)
		{"User Name <user@example.com>", false},

		// Invalid emails - other malformed
		{"user @example.com", false}, // space in local
		{"user@ example.com", false}, // space after @
		{"user@exam ple.com", false}, // space in domain
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://masjid.example.org", true},
		{"http://example.com/path?q=1", true},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHTTPURL(tt.in); got != tt.want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type testAddress struct {
	City string `json:"city" validate:"required" label:"City"`
}

type testInput struct {
	Name     string      `json:"name" validate:"required,max=10" label:"Name"`
	Email    string      `json:"email" validate:"omitempty,email"`
	Kind     string      `json:"kind" validate:"required,oneof=a b"`
	Fajr     string      `json:"fajr" validate:"omitempty,hhmm" label:"Fajr"`
	MosqueID string      `json:"mosque_id" validate:"omitempty,objectid" label:"Mosque"`
	Address  testAddress `json:"address"`
}

func TestValidate_Valid(t *testing.T) {
	in := testInput{
		Name:     "Al-Noor",
		Email:    "info@alnoor.org",
		Kind:     "a",
		Fajr:     "05:30",
		MosqueID: "507f1f77bcf86cd799439011",
		Address:  testAddress{City: "Leeds"},
	}
	if res := Validate(in); res.HasErrors() {
		t.Fatalf("expected no errors, got %v", res.Fields)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	in := testInput{
		Name:     "far too long a name",
		Email:    "nope",
		Kind:     "c",
		Fajr:     "25:00",
		MosqueID: "xyz",
	}
	res := Validate(&in)
	if !res.HasErrors() {
		t.Fatal("expected errors")
	}

	want := map[string]string{
		"name":         "Name must be at most 10 characters.",
		"email":        "email must be a valid email address.",
		"kind":         "kind must be one of: a, b.",
		"fajr":         "Fajr must be a time in HH:MM format.",
		"mosque_id":    "Mosque must be a valid id.",
		"address.city": "City is required.",
	}
	for k, msg := range want {
		if got := res.Fields[k]; got != msg {
			t.Errorf("Fields[%q] = %q, want %q", k, got, msg)
		}
	}
	if res.First() == "" {
		t.Error("First() should not be empty")
	}
}

func TestValidate_HHMMBoundaries(t *testing.T) {
	for _, s := range []string{"00:00", "23:59", "12:05"} {
		if res := Validate(testInput{Name: "x", Kind: "a", Fajr: s, Address: testAddress{City: "c"}}); res.HasErrors() {
			t.Errorf("%q rejected: %v", s, res.Fields)
		}
	}
	for _, s := range []string{"24:00", "7:30", "12:60", "noon"} {
		if res := Validate(testInput{Name: "x", Kind: "a", Fajr: s, Address: testAddress{City: "c"}}); !res.HasErrors() {
			t.Errorf("%q accepted", s)
		}
	}
}
