// Deterministic seed-data generation from embedded YAML templates.

package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Segments          []string `yaml:"segments"`
	PersonaNames      []string `yaml:"persona_names"`
	Occupations       []string `yaml:"occupations"`
	Locations         []string `yaml:"locations"`
	Incomes           []string `yaml:"incomes"`
	Goals             []string `yaml:"goals"`
	Frustrations      []string `yaml:"frustrations"`
	Channels          []string `yaml:"channels"`
	PropositionTitles []string `yaml:"proposition_titles"`
	Products          []string `yaml:"products"`
	PainRelievers     []string `yaml:"pain_relievers"`
	GainCreators      []string `yaml:"gain_creators"`
	Tags              []string `yaml:"tags"`
	ModelNames        []string `yaml:"model_names"`
	Industries        []string `yaml:"industries"`
	RevenueModels     []string `yaml:"revenue_models"`
	Partners          []string `yaml:"partners"`
}

func loadFixtures() (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if len(f.PersonaNames) == 0 || len(f.Segments) == 0 {
		return nil, fmt.Errorf("fixtures are incomplete")
	}
	return &f, nil
}

// Seed generates n records per catalog using the embedded templates.
// The same seed yields the same dataset.
func Seed(svc *Service, n int, seed uint64) error {
	f, err := loadFixtures()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	statuses := []string{StatusDraft, StatusActive, StatusActive, StatusArchived}
	stages := []string{StageIdea, StagePrototype, StageValidated, StageScaling}
	maturities := []string{MaturityConcept, MaturityMVP, MaturityGrowth, MaturityMature}

	for i := range n {
		p := &Persona{
			Name:     fmt.Sprintf("%s %d", pick(rng, f.PersonaNames), i+1),
			Segment:  pick(rng, f.Segments),
			Status:   pick(rng, statuses),
			Priority: rng.IntN(5) + 1,
			Profile: PersonaProfile{
				Age:        22 + rng.IntN(40),
				Occupation: pick(rng, f.Occupations),
				Location:   pick(rng, f.Locations),
				Income:     pick(rng, f.Incomes),
			},
			Goals:        sample(rng, f.Goals, 2),
			Frustrations: sample(rng, f.Frustrations, 2),
			Channels:     sample(rng, f.Channels, 3),
		}
		if _, err := svc.CreatePersona(p); err != nil {
			return fmt.Errorf("failed to seed persona %d: %w", i, err)
		}
	}

	for i := range n {
		v := &ValueProposition{
			Title:   fmt.Sprintf("%s %d", pick(rng, f.PropositionTitles), i+1),
			Summary: pick(rng, f.GainCreators),
			Segment: pick(rng, f.Segments),
			Fit: PropositionFit{
				Score: math.Round(rng.Float64()*100) / 10,
				Stage: pick(rng, stages),
			},
			Products:      sample(rng, f.Products, 2),
			PainRelievers: sample(rng, f.PainRelievers, 2),
			GainCreators:  sample(rng, f.GainCreators, 2),
			Tags:          sample(rng, f.Tags, 2),
		}
		if _, err := svc.CreateProposition(v); err != nil {
			return fmt.Errorf("failed to seed proposition %d: %w", i, err)
		}
	}

	for i := range n {
		m := &BusinessModel{
			Name:     fmt.Sprintf("%s %d", pick(rng, f.ModelNames), i+1),
			Industry: pick(rng, f.Industries),
			Maturity: pick(rng, maturities),
			Risk:     rng.IntN(10) + 1,
			Revenue: RevenueModel{
				Model:     pick(rng, f.RevenueModels),
				Recurring: rng.IntN(2) == 0,
			},
			KeyPartners: sample(rng, f.Partners, 2),
			Segments:    sample(rng, f.Segments, 2),
			Channels:    sample(rng, f.Channels, 2),
			Tags:        sample(rng, f.Tags, 2),
		}
		if _, err := svc.CreateModel(m); err != nil {
			return fmt.Errorf("failed to seed model %d: %w", i, err)
		}
	}
	return nil
}

// SeedViews creates one default view per source if that source has none.
func SeedViews(views *viewstore.Service) error {
	defaults := []struct {
		name   string
		source viewstore.Source
		layout viewstore.Layout
	}{
		{"All personas", viewstore.SourcePersonas, viewstore.LayoutGrid},
		{"All propositions", viewstore.SourceValueProps, viewstore.LayoutTable},
		{"All models", viewstore.SourceBusinessModels, viewstore.LayoutList},
	}
	for _, d := range defaults {
		if len(views.ListBySource(d.source)) > 0 {
			continue
		}
		v := &viewstore.View{
			Name:    d.name,
			Source:  d.source,
			Layout:  d.layout,
			Default: true,
		}
		if _, err := views.Create(v); err != nil {
			return fmt.Errorf("failed to seed view for %s: %w", d.source, err)
		}
	}
	return nil
}

func pick(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.IntN(len(options))]
}

func sample(rng *rand.Rand, options []string, n int) []string {
	if len(options) == 0 {
		return nil
	}
	if n > len(options) {
		n = len(options)
	}
	perm := rng.Perm(len(options))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, options[i])
	}
	return out
}
