package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryLoan   = "Loan"
	categoryOffset = "Offset"
	categoryTax    = "Tax & Ownership"
	categoryMarket = "Purchase & Rent"
)

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "rate_rise_2pct",
		Description: "Interest rates 2 percentage points higher for the whole term",
		Category:    categoryLoan,
		Transforms: []ScenarioTransform{
			&AdjustInterestRate{Delta: decimal.NewFromInt(2)},
		},
	})

	registry.Register(Template{
		Name:        "interest_only",
		Description: "Interest-only repayments instead of principal and interest",
		Category:    categoryLoan,
		Transforms: []ScenarioTransform{
			&SetLoanType{LoanType: domain.LoanInterestOnly},
		},
	})

	registry.Register(Template{
		Name:        "no_offset",
		Description: "No money held in the offset account",
		Category:    categoryOffset,
		Transforms: []ScenarioTransform{
			&SetOffset{Amount: decimal.Zero},
			&SetOffsetContribution{Amount: decimal.Zero, Frequency: domain.FrequencyMonthly},
		},
	})

	registry.Register(Template{
		Name:        "double_offset",
		Description: "Twice the opening offset balance",
		Category:    categoryOffset,
		Transforms: []ScenarioTransform{
			&ScaleOffset{Factor: decimal.NewFromInt(2)},
		},
	})

	registry.Register(Template{
		Name:        "quarantine_losses",
		Description: "Negative gearing removed: losses carried forward against future rental profit",
		Category:    categoryTax,
		Transforms: []ScenarioTransform{
			&QuarantineLosses{StartYear: 1},
		},
	})

	registry.Register(Template{
		Name:        "owner_occupier",
		Description: "Live in the property instead of renting it out",
		Category:    categoryTax,
		Transforms: []ScenarioTransform{
			&OwnerOccupier{},
		},
	})

	registry.Register(Template{
		Name:        "deposit_20pct",
		Description: "20% deposit (avoids lender's mortgage insurance)",
		Category:    categoryMarket,
		Transforms: []ScenarioTransform{
			&SetDepositPercent{Percent: decimal.NewFromInt(20)},
		},
	})

	registry.Register(Template{
		Name:        "rent_up_10pct",
		Description: "Weekly rent 10% higher",
		Category:    categoryMarket,
		Transforms: []ScenarioTransform{
			&AdjustRent{Percent: decimal.NewFromInt(10)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario. The result is named after the template.
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	modified, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return nil, err
	}
	modified.Name = template.Name
	return modified, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		categories[t.Category] = append(categories[t.Category], t)
	}

	for _, category := range []string{categoryLoan, categoryOffset, categoryTax, categoryMarket, ""} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		label := category
		if label == "" {
			label = "Other"
		}
		sb.WriteString(fmt.Sprintf("%s:\n", label))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  propgo compare scenarios.yaml --with rate_rise_2pct,no_offset\n")
	sb.WriteString("  propgo compare scenarios.yaml --scenario Base --with owner_occupier\n")

	return sb.String()
}
