package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is the root of an input file: an optional tax schedule and one or more scenarios
type Configuration struct {
	Tax       *TaxConfig `yaml:"tax,omitempty" json:"tax,omitempty"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// TaxConfig overrides the resident income tax schedule. Rates and the levy are percentages.
type TaxConfig struct {
	MedicareLevy *decimal.Decimal  `yaml:"medicare_levy,omitempty" json:"medicareLevy,omitempty"`
	Brackets     []TaxBracketInput `yaml:"brackets,omitempty" json:"brackets,omitempty"`
}

// TaxBracketInput is one bracket as written in a config file; a zero Max is unbounded
type TaxBracketInput struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
	Base decimal.Decimal `yaml:"base" json:"base"`
}

// Scenario is one named set of projection inputs
type Scenario struct {
	Name         string          `yaml:"name" json:"name"`
	OffsetAmount decimal.Decimal `yaml:"offset_amount" json:"offsetAmount"`

	// Used when AutoPurchaseCosts derives Costs.PurchaseCosts from the property
	ConveyancingFee    decimal.Decimal `yaml:"conveyancing_fee" json:"conveyancingFee"`
	BuildingAndPestFee decimal.Decimal `yaml:"building_and_pest_fee" json:"buildingAndPestFee"`
	AutoPurchaseCosts  bool            `yaml:"auto_purchase_costs" json:"autoPurchaseCosts"`

	Property PropertyDetails `yaml:"property" json:"property"`
	Market   MarketData      `yaml:"market" json:"market"`
	Costs    CostStructure   `yaml:"costs" json:"costs"`
}

// Clone returns a deep copy so transforms can modify schedules without aliasing the original
func (s Scenario) Clone() Scenario {
	out := s
	p := &out.Property
	p.InterestRateChanges = append([]RateChange(nil), s.Property.InterestRateChanges...)
	p.DepreciationSchedule = append([]DepreciationEntry(nil), s.Property.DepreciationSchedule...)
	if s.Property.LMIManualAmount != nil {
		v := *s.Property.LMIManualAmount
		p.LMIManualAmount = &v
	}
	if s.Property.LandValueGrowthRate != nil {
		v := *s.Property.LandValueGrowthRate
		p.LandValueGrowthRate = &v
	}
	if s.Property.ManualOffsetAmount != nil {
		v := *s.Property.ManualOffsetAmount
		p.ManualOffsetAmount = &v
	}
	if s.Property.Precision != nil {
		v := *s.Property.Precision
		p.Precision = &v
	}

	m := &out.Market
	m.PropertyValueCorrections = append([]ValueCorrection(nil), s.Market.PropertyValueCorrections...)
	if s.Market.CurrentValueYear != nil {
		v := *s.Market.CurrentValueYear
		m.CurrentValueYear = &v
	}
	if s.Market.CurrentPropertyValue != nil {
		v := *s.Market.CurrentPropertyValue
		m.CurrentPropertyValue = &v
	}
	return out
}

// ScenarioByName finds a scenario by name
func (c *Configuration) ScenarioByName(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// ScenarioSummary pairs a scenario name with its projection
type ScenarioSummary struct {
	Name    string              `json:"name"`
	Results *CalculationResults `json:"results"`
}
