package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func ids(prayers []Prayer) []int {
	out := make([]int, 0, len(prayers))
	for _, p := range prayers {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := defaultCatalog(t)
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	if got := ids(c.All()); !equalIDs(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("All() ids = %v, want [1 2 3 4 5]", got)
	}
	for _, p := range c.All() {
		if p.Title == "" || p.Arabic == "" || p.Latin == "" || p.Meaning == "" || p.Category == "" {
			t.Errorf("prayer %d has an empty field: %+v", p.ID, p)
		}
	}
}

func TestFilter(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		name     string
		query    string
		category string
		want     []int
	}{
		{"category only", "", "Tidur", []int{2, 3, 4, 5}},
		{"all categories", "", AllCategories, []int{1, 2, 3, 4, 5}},
		{"empty category", "", "", []int{1, 2, 3, 4, 5}},
		{"query in title", "mimpi", "", []int{4, 5}},
		{"query is case-insensitive", "MIMPI", AllCategories, []int{4, 5}},
		{"query in meaning", "seluruh alam", "", []int{5}},
		{"query and category", "pagi", "Tidur", nil},
		{"morning category", "", "Pagi & Sore", []int{1}},
		{"no match", "puasa", "", nil},
		{"unknown category", "", "Makan", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(c.Filter(tt.query, tt.category))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.query, tt.category, got, tt.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	c := defaultCatalog(t)
	got := c.Categories()
	want := []string{AllCategories, "Pagi & Sore", "Tidur"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := defaultCatalog(t)
	all := c.All()
	all[0].Title = "changed"

	p, ok := c.ByID(1)
	if !ok {
		t.Fatal("ByID(1) not found")
	}
	if p.Title == "changed" {
		t.Error("mutating All() result changed the catalog")
	}
}

func TestFind(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		ref    string
		wantID int
		err    error
	}{
		{"3", 3, nil},
		{" 1 ", 1, nil},
		{"bangun", 2, nil},
		{"Pagi Hari", 1, nil},
		{"42", 0, ErrNotFound},
		{"zzzzqqq", 0, ErrNotFound},
		{"", 0, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := c.Find(tt.ref)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("Find(%q) error = %v, want %v", tt.ref, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.ref, err)
			}
			if p.ID != tt.wantID {
				t.Errorf("Find(%q) = %d, want %d", tt.ref, p.ID, tt.wantID)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("New(nil) = %v, want ErrEmptyCatalog", err)
	}
	_, err := New([]Prayer{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("New(duplicate) = %v, want ErrDuplicateID", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prayers.yaml")
	data := []byte(`prayers:
  - id: 10
    title: "Doa Sebelum Makan"
    arabic: "اَللّٰهُمَّ بَارِكْ لَنَا"
    latin: "Allahumma barik lana"
    meaning: "Ya Allah, berkahilah kami"
    category: "Makan"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p, ok := c.ByID(10)
	if !ok || p.Category != "Makan" {
		t.Errorf("ByID(10) = %+v, %v", p, ok)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
	if _, err := Parse([]byte("prayers: [")); err == nil {
		t.Error("Parse(invalid) expected error")
	}
}
