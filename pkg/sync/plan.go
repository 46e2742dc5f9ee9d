package sync

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/rendizy/channelsync/pkg/errors"
)

// planDateFormat is the calendar-date layout accepted in plan files.
const planDateFormat = "2006-01-02"

// Plan is the YAML run-plan format consumed by the CLI. All fields are
// optional; omitted fields fall back to the run defaults.
type Plan struct {
	Properties  []string `yaml:"properties"`
	From        string   `yaml:"from"`
	To          string   `yaml:"to"`
	DryRun      bool     `yaml:"dry_run"`
	Concurrency int      `yaml:"concurrency"`
}

// LoadPlan reads and parses a YAML run plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("plan", "reading plan file", err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, errors.NewConfigError("plan", "parsing plan file", err)
	}
	if _, err := plan.dateRange(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Options converts the plan into run options.
func (p *Plan) Options() ([]Option, error) {
	var opts []Option
	if len(p.Properties) > 0 {
		opts = append(opts, WithProperties(p.Properties...))
	}
	rng, err := p.dateRange()
	if err != nil {
		return nil, err
	}
	if !rng.IsZero() {
		opts = append(opts, WithDateRange(rng.From, rng.To))
	}
	if p.DryRun {
		opts = append(opts, WithDryRun(true))
	}
	if p.Concurrency > 0 {
		opts = append(opts, WithConcurrency(p.Concurrency))
	}
	return opts, nil
}

func (p *Plan) dateRange() (DateRange, error) {
	var rng DateRange
	if (p.From == "") != (p.To == "") {
		return rng, errors.NewConfigError("plan", "from and to must be given together", nil)
	}
	if p.From != "" {
		from, err := time.Parse(planDateFormat, p.From)
		if err != nil {
			return rng, errors.NewConfigError("plan", "invalid from date", err)
		}
		rng.From = from
	}
	if p.To != "" {
		to, err := time.Parse(planDateFormat, p.To)
		if err != nil {
			return rng, errors.NewConfigError("plan", "invalid to date", err)
		}
		rng.To = to
	}
	if p.From != "" && p.To != "" && !rng.To.After(rng.From) {
		return rng, errors.NewConfigError("plan", "to must be after from", nil)
	}
	return rng, nil
}
