package catalog

import (
	"testing"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

func newTestCatalog(t *testing.T) *Service {
	t.Helper()
	if err := ksid.InitIDSlice(0, 1); err != nil {
		t.Fatalf("InitIDSlice: %v", err)
	}
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateAndList(t *testing.T) {
	svc := newTestCatalog(t)

	t.Run("persona", func(t *testing.T) {
		created, err := svc.CreatePersona(&Persona{
			Name:    "Pragmatic Priya",
			Segment: "smb",
			Profile: PersonaProfile{Age: 34, Occupation: "product manager"},
		})
		if err != nil {
			t.Fatalf("CreatePersona: %v", err)
		}
		if created.ID.IsZero() || created.Created.IsZero() {
			t.Errorf("created = %+v", created)
		}
		if created.Status != StatusDraft {
			t.Errorf("Status = %q, want draft default", created.Status)
		}
		if got := svc.GetPersona(created.ID); got == nil || got.Name != "Pragmatic Priya" {
			t.Errorf("GetPersona = %+v", got)
		}
		if got := svc.ListPersonas(); len(got) != 1 {
			t.Errorf("ListPersonas = %d", len(got))
		}
	})

	t.Run("proposition", func(t *testing.T) {
		created, err := svc.CreateProposition(&ValueProposition{Title: "One-click onboarding"})
		if err != nil {
			t.Fatalf("CreateProposition: %v", err)
		}
		if created.Fit.Stage != StageIdea {
			t.Errorf("Stage = %q, want idea default", created.Fit.Stage)
		}
	})

	t.Run("model", func(t *testing.T) {
		created, err := svc.CreateModel(&BusinessModel{Name: "Self-serve SaaS"})
		if err != nil {
			t.Fatalf("CreateModel: %v", err)
		}
		if created.Maturity != MaturityConcept {
			t.Errorf("Maturity = %q, want concept default", created.Maturity)
		}
	})

	t.Run("missing name rejected", func(t *testing.T) {
		if _, err := svc.CreatePersona(&Persona{}); err == nil {
			t.Error("CreatePersona with empty name succeeded")
		}
	})
}

func TestSeedDeterministic(t *testing.T) {
	a := newTestCatalog(t)
	if err := Seed(a, 10, 42); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if got := len(a.ListPersonas()); got != 10 {
		t.Errorf("personas = %d, want 10", got)
	}
	if got := len(a.ListPropositions()); got != 10 {
		t.Errorf("propositions = %d, want 10", got)
	}
	if got := len(a.ListModels()); got != 10 {
		t.Errorf("models = %d, want 10", got)
	}

	b := newTestCatalog(t)
	if err := Seed(b, 10, 42); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	pa, pb := a.ListPersonas(), b.ListPersonas()
	for i := range pa {
		if pa[i].Name != pb[i].Name || pa[i].Segment != pb[i].Segment || pa[i].Profile.Age != pb[i].Profile.Age {
			t.Errorf("seed not deterministic at %d: %+v vs %+v", i, pa[i], pb[i])
			break
		}
	}

	t.Run("seeded values stay in range", func(t *testing.T) {
		for _, p := range pa {
			if p.Priority < 1 || p.Priority > 5 {
				t.Errorf("priority out of range: %d", p.Priority)
			}
			if p.Profile.Age < 22 || p.Profile.Age > 61 {
				t.Errorf("age out of range: %d", p.Profile.Age)
			}
		}
		for _, v := range a.ListPropositions() {
			if v.Fit.Score < 0 || v.Fit.Score > 10 {
				t.Errorf("score out of range: %v", v.Fit.Score)
			}
		}
	})
}

func TestSeedViews(t *testing.T) {
	if err := ksid.InitIDSlice(0, 1); err != nil {
		t.Fatalf("InitIDSlice: %v", err)
	}
	views, err := viewstore.NewService(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := SeedViews(views); err != nil {
		t.Fatalf("SeedViews: %v", err)
	}
	personas := views.ListBySource(viewstore.SourcePersonas)
	if len(personas) != 1 || !personas[0].Default {
		t.Errorf("personas views = %+v", personas)
	}

	// Idempotent: a second run adds nothing.
	if err := SeedViews(views); err != nil {
		t.Fatalf("SeedViews (again): %v", err)
	}
	if got := len(views.List()); got != 3 {
		t.Errorf("total views = %d, want 3", got)
	}
}
