package patients_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/JaimeStill/iris/internal/dbtest"
	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/pkg/lifecycle"
	"github.com/JaimeStill/iris/pkg/pagination"
	"github.com/JaimeStill/iris/pkg/storage"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want patients.Gender
	}{
		{"M", patients.GenderMale},
		{"f", patients.GenderFemale},
		{" O ", patients.GenderOther},
		{"", patients.GenderOther},
		{"X", patients.GenderOther},
	}

	for _, tt := range tests {
		if got := patients.ParseGender(tt.in); got != tt.want {
			t.Errorf("ParseGender(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if patients.GenderFemale.Label() != "Female" || patients.GenderOther.Label() != "Other" {
		t.Error("unexpected gender labels")
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30", 30},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
	}

	for _, tt := range tests {
		if got := patients.ParseAge(tt.in); got != tt.want {
			t.Errorf("ParseAge(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cmd := patients.GetOrCreateCommand{Name: "  ", Age: -1, Gender: "z", Phone: " 555 "}
	cmd.Normalize()

	if cmd.Name != patients.DefaultName {
		t.Errorf("name = %q, want %q", cmd.Name, patients.DefaultName)
	}
	if cmd.Age != 0 {
		t.Errorf("age = %d, want 0", cmd.Age)
	}
	if cmd.Gender != patients.GenderOther {
		t.Errorf("gender = %s, want O", cmd.Gender)
	}
	if cmd.Phone != "555" {
		t.Errorf("phone = %q", cmd.Phone)
	}
}

func TestBackfill(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		cmdAge  int
		want    int
		changed bool
	}{
		{name: "unknown age filled", age: 0, cmdAge: 54, want: 54, changed: true},
		{name: "known age kept", age: 40, cmdAge: 54, want: 40},
		{name: "no incoming age", age: 0, cmdAge: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := patients.Patient{ID: "PT00000001", Name: "Jane", Age: tt.age, Gender: patients.GenderFemale}
			cmd := patients.GetOrCreateCommand{Name: "Jane", Age: tt.cmdAge, Gender: patients.GenderMale}

			if got := p.Backfill(cmd); got != tt.changed {
				t.Errorf("Backfill() = %v, want %v", got, tt.changed)
			}
			if p.Age != tt.want {
				t.Errorf("age = %d, want %d", p.Age, tt.want)
			}
			if p.Gender != patients.GenderFemale {
				t.Errorf("gender = %s, want F unchanged", p.Gender)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	pattern := regexp.MustCompile(`^PT[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for range 100 {
		id := patients.NewID()
		if !pattern.MatchString(id) {
			t.Fatalf("NewID() = %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Errorf("ids not unique: %d distinct", len(seen))
	}
}

func newSystem(t *testing.T) patients.System {
	t.Helper()
	db := dbtest.Open(t)

	store, err := storage.New(&storage.Config{Provider: storage.ProviderLocal, Root: t.TempDir()}, discard())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if err := store.Start(lifecycle.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	return patients.New(db, store, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetOrCreate(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	first, created, err := sys.GetOrCreate(ctx, patients.GetOrCreateCommand{Name: "Jane", Age: 30, Gender: "F"})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !created || first.Name != "Jane" || first.Age != 30 || first.Gender != patients.GenderFemale {
		t.Fatalf("first = %+v, created = %v", first, created)
	}

	second, created, err := sys.GetOrCreate(ctx, patients.GetOrCreateCommand{Name: "Jane", Age: 45, Gender: "M"})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if created {
		t.Error("second call created a patient")
	}
	if second.ID != first.ID || second.Age != 30 {
		t.Errorf("second = %+v, want existing patient unchanged", second)
	}

	n, err := sys.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestGetOrCreateBackfillsAge(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	p, _, err := sys.GetOrCreate(ctx, patients.GetOrCreateCommand{Name: "Ravi"})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if p.Age != 0 {
		t.Fatalf("age = %d, want 0", p.Age)
	}

	p, _, err = sys.GetOrCreate(ctx, patients.GetOrCreateCommand{Name: "Ravi", Age: 52})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if p.Age != 52 {
		t.Errorf("age = %d, want backfilled 52", p.Age)
	}

	found, err := sys.Find(ctx, p.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found.Age != 52 {
		t.Errorf("stored age = %d, want 52", found.Age)
	}
}

func TestDelete(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	p, _, err := sys.GetOrCreate(ctx, patients.GetOrCreateCommand{})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if p.Name != patients.DefaultName {
		t.Errorf("name = %q, want default", p.Name)
	}

	if err := sys.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := sys.Find(ctx, p.ID); err != patients.ErrNotFound {
		t.Errorf("Find() after delete error = %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, p.ID); err != patients.ErrNotFound {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
