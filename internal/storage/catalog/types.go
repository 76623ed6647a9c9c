// Package catalog stores the three modeling datasets: personas, value
// propositions and business models. Each lives in its own JSONL table.
package catalog

import (
	"errors"
	"time"

	"github.com/maruel/ksid"
)

var (
	errIDRequired   = errors.New("id is required")
	errNameRequired = errors.New("name is required")
)

// Lifecycle status values shared by all catalog records.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// PersonaProfile holds the demographic slice of a persona.
type PersonaProfile struct {
	Age        int    `json:"age,omitempty" jsonschema:"description=Age in years"`
	Occupation string `json:"occupation,omitempty" jsonschema:"description=Job or role"`
	Location   string `json:"location,omitempty" jsonschema:"description=Home market"`
	Income     string `json:"income,omitempty" jsonschema:"description=Income bracket"`
}

// Persona is a modeled customer archetype.
type Persona struct {
	ID           ksid.ID        `json:"id" jsonschema:"description=Unique persona ID"`
	Name         string         `json:"name" jsonschema:"description=Persona name"`
	Segment      string         `json:"segment,omitempty" jsonschema:"description=Customer segment"`
	Status       string         `json:"status,omitempty" jsonschema:"description=Lifecycle status (draft active archived)"`
	Priority     int            `json:"priority,omitempty" jsonschema:"description=Relative priority 1-5"`
	Profile      PersonaProfile `json:"profile" jsonschema:"description=Demographic details"`
	Goals        []string       `json:"goals,omitempty" jsonschema:"description=Jobs to be done"`
	Frustrations []string       `json:"frustrations,omitempty" jsonschema:"description=Pain points"`
	Channels     []string       `json:"channels,omitempty" jsonschema:"description=Reachable channels"`
	Created      time.Time      `json:"created" jsonschema:"description=Creation time"`
	Modified     time.Time      `json:"modified" jsonschema:"description=Last update time"`
}

// Clone returns a deep copy.
func (p *Persona) Clone() *Persona {
	c := *p
	c.Goals = slicesClone(p.Goals)
	c.Frustrations = slicesClone(p.Frustrations)
	c.Channels = slicesClone(p.Channels)
	return &c
}

// GetID returns the persona's ID.
func (p *Persona) GetID() ksid.ID { return p.ID }

// Validate checks that the persona is well-formed for storage.
func (p *Persona) Validate() error {
	if p.ID.IsZero() {
		return errIDRequired
	}
	if p.Name == "" {
		return errNameRequired
	}
	return nil
}

// PropositionFit captures how well a proposition lands with its segment.
type PropositionFit struct {
	Score float64 `json:"score,omitempty" jsonschema:"description=Problem-solution fit score 0-10"`
	Stage string  `json:"stage,omitempty" jsonschema:"description=Validation stage (idea prototype validated scaling)"`
}

// Proposition fit stages.
const (
	StageIdea      = "idea"
	StagePrototype = "prototype"
	StageValidated = "validated"
	StageScaling   = "scaling"
)

// ValueProposition describes an offer mapped to a customer segment.
type ValueProposition struct {
	ID            ksid.ID        `json:"id" jsonschema:"description=Unique proposition ID"`
	Title         string         `json:"title" jsonschema:"description=Proposition title"`
	Summary       string         `json:"summary,omitempty" jsonschema:"description=One-line pitch"`
	Segment       string         `json:"segment,omitempty" jsonschema:"description=Target customer segment"`
	Fit           PropositionFit `json:"fit" jsonschema:"description=Fit assessment"`
	Products      []string       `json:"products,omitempty" jsonschema:"description=Products and services"`
	PainRelievers []string       `json:"pain_relievers,omitempty" jsonschema:"description=Pain relievers"`
	GainCreators  []string       `json:"gain_creators,omitempty" jsonschema:"description=Gain creators"`
	Tags          []string       `json:"tags,omitempty" jsonschema:"description=Free-form tags"`
	Created       time.Time      `json:"created" jsonschema:"description=Creation time"`
	Modified      time.Time      `json:"modified" jsonschema:"description=Last update time"`
}

// Clone returns a deep copy.
func (v *ValueProposition) Clone() *ValueProposition {
	c := *v
	c.Products = slicesClone(v.Products)
	c.PainRelievers = slicesClone(v.PainRelievers)
	c.GainCreators = slicesClone(v.GainCreators)
	c.Tags = slicesClone(v.Tags)
	return &c
}

// GetID returns the proposition's ID.
func (v *ValueProposition) GetID() ksid.ID { return v.ID }

// Validate checks that the proposition is well-formed for storage.
func (v *ValueProposition) Validate() error {
	if v.ID.IsZero() {
		return errIDRequired
	}
	if v.Title == "" {
		return errNameRequired
	}
	return nil
}

// RevenueModel describes how a business model earns.
type RevenueModel struct {
	Model     string `json:"model,omitempty" jsonschema:"description=Revenue model (subscription transactional licensing advertising)"`
	Recurring bool   `json:"recurring,omitempty" jsonschema:"description=Whether revenue recurs"`
}

// BusinessModel is one canvas-level business model sketch.
type BusinessModel struct {
	ID          ksid.ID      `json:"id" jsonschema:"description=Unique model ID"`
	Name        string       `json:"name" jsonschema:"description=Model name"`
	Industry    string       `json:"industry,omitempty" jsonschema:"description=Industry vertical"`
	Maturity    string       `json:"maturity,omitempty" jsonschema:"description=Maturity (concept mvp growth mature)"`
	Risk        int          `json:"risk,omitempty" jsonschema:"description=Risk score 1-10"`
	Revenue     RevenueModel `json:"revenue" jsonschema:"description=Revenue mechanics"`
	KeyPartners []string     `json:"key_partners,omitempty" jsonschema:"description=Key partners"`
	Segments    []string     `json:"segments,omitempty" jsonschema:"description=Served customer segments"`
	Channels    []string     `json:"channels,omitempty" jsonschema:"description=Distribution channels"`
	Tags        []string     `json:"tags,omitempty" jsonschema:"description=Free-form tags"`
	Created     time.Time    `json:"created" jsonschema:"description=Creation time"`
	Modified    time.Time    `json:"modified" jsonschema:"description=Last update time"`
}

// Business model maturity values.
const (
	MaturityConcept = "concept"
	MaturityMVP     = "mvp"
	MaturityGrowth  = "growth"
	MaturityMature  = "mature"
)

// Clone returns a deep copy.
func (m *BusinessModel) Clone() *BusinessModel {
	c := *m
	c.KeyPartners = slicesClone(m.KeyPartners)
	c.Segments = slicesClone(m.Segments)
	c.Channels = slicesClone(m.Channels)
	c.Tags = slicesClone(m.Tags)
	return &c
}

// GetID returns the model's ID.
func (m *BusinessModel) GetID() ksid.ID { return m.ID }

// Validate checks that the model is well-formed for storage.
func (m *BusinessModel) Validate() error {
	if m.ID.IsZero() {
		return errIDRequired
	}
	if m.Name == "" {
		return errNameRequired
	}
	return nil
}

func slicesClone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
