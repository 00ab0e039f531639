package jurisdiction

import (
	"time"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal   { return decimal.NewFromInt(v) }
func r(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// grantStepDown is the first day QLD and TAS pay their reduced grants
var grantStepDown = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

var registry = map[domain.State]Rules{
	domain.StateNSW: nswRules,
	domain.StateVIC: vicRules,
	domain.StateQLD: qldRules,
	domain.StateWA:  waRules,
	domain.StateSA:  saRules,
	domain.StateTAS: tasRules,
	domain.StateACT: actRules,
	domain.StateNT:  ntRules,
}

var nswRules = &stateRules{
	state: domain.StateNSW,
	duty: []DutyBracket{
		{d(0), d(0), r(1.25), false},
		{d(17000), d(212), r(1.50), false},
		{d(36000), d(497), r(1.75), false},
		{d(97000), d(1564), r(3.50), false},
		{d(364000), d(10909), r(4.50), false},
		{d(1212000), d(49069), r(5.50), false},
		{d(3636000), d(182389), r(7.00), false},
	},
	homeConcession:          d(7125),
	firstHome:               FirstHomeConcession{ExemptUpTo: d(800000), TaperTo: d(1000000)},
	transferFee:             flatFee(r(165.40)),
	mortgageRegistrationFee: r(165.40),
	landTax: []LandTaxBracket{
		{d(1075000), d(100), r(1.6)},
		{d(6571000), d(88036), r(2.0)},
	},
	grant: &GrantRule{Program: "NSW First Home Owner Grant (New Homes)", Amount: d(10000), Cap: d(600000)},
}

var vicRules = &stateRules{
	state: domain.StateVIC,
	duty: []DutyBracket{
		{d(0), d(0), r(1.4), false},
		{d(25000), d(350), r(2.4), false},
		{d(130000), d(2870), r(6.0), false},
		{d(960000), d(0), r(5.5), true},
		{d(2000000), d(110000), r(6.5), false},
	},
	firstHome:               FirstHomeConcession{ExemptUpTo: d(600000), TaperTo: d(750000)},
	transferFee:             perBlockFee(r(116.60), r(2.34), thousand, d(0), d(3621)),
	mortgageRegistrationFee: r(119.70),
	landTax: []LandTaxBracket{
		{d(50000), d(500), d(0)},
		{d(100000), d(975), r(0.2)},
		{d(300000), d(1375), r(0.5)},
		{d(600000), d(2875), r(0.8)},
		{d(1000000), d(6075), r(1.65)},
		{d(1800000), d(19275), r(2.65)},
		{d(3000000), d(51075), r(2.55)},
	},
	grant: &GrantRule{Program: "Victorian First Home Owner Grant", Amount: d(10000), Cap: d(750000)},
}

var qldRules = &stateRules{
	state: domain.StateQLD,
	duty: []DutyBracket{
		{d(0), d(0), d(0), false},
		{d(5000), d(0), r(1.50), false},
		{d(75000), d(1050), r(3.50), false},
		{d(540000), d(17325), r(4.50), false},
		{d(1000000), d(38025), r(5.75), false},
	},
	homeConcession:          d(7125),
	firstHome:               FirstHomeConcession{ExemptUpTo: d(700000), TaperTo: d(800000)},
	transferFee:             perBlockFee(r(238.56), r(44.87), d(10000), d(180000), d(0)),
	mortgageRegistrationFee: r(238.56),
	landTax: []LandTaxBracket{
		{d(600000), d(500), r(1.0)},
		{d(1000000), d(4500), r(1.65)},
		{d(3000000), d(37500), r(1.25)},
		{d(5000000), d(62500), r(1.75)},
		{d(10000000), d(150000), r(2.25)},
	},
	grant: &GrantRule{
		Program:       "Queensland First Home Owner Grant",
		Amount:        d(30000),
		Cap:           d(750000),
		ReducedAmount: d(15000),
		ReducedFrom:   grantStepDown,
	},
}

var waRules = &stateRules{
	state: domain.StateWA,
	duty: []DutyBracket{
		{d(0), d(0), r(1.90), false},
		{d(120000), d(2280), r(2.85), false},
		{d(150000), d(3135), r(3.80), false},
		{d(360000), d(11115), r(4.75), false},
		{d(725000), d(28453), r(5.15), false},
	},
	firstHome:               FirstHomeConcession{ExemptUpTo: d(450000), TaperTo: d(600000)},
	transferFee:             waTransferFee,
	mortgageRegistrationFee: r(210.50),
	landTax: []LandTaxBracket{
		{d(300000), d(300), d(0)},
		{d(420000), d(300), r(0.25)},
		{d(1000000), d(1750), r(0.9)},
		{d(1800000), d(8950), r(1.8)},
		{d(5000000), d(66550), r(2.0)},
		{d(11000000), d(186550), r(2.67)},
	},
	grant: &GrantRule{Program: "WA First Home Owner Grant", Amount: d(10000), Cap: d(750000)},
}

var saRules = &stateRules{
	state: domain.StateSA,
	duty: []DutyBracket{
		{d(0), d(0), r(1.00), false},
		{d(12000), d(120), r(2.00), false},
		{d(30000), d(480), r(3.00), false},
		{d(50000), d(1080), r(3.50), false},
		{d(100000), d(2830), r(4.00), false},
		{d(200000), d(6830), r(4.25), false},
		{d(250000), d(8955), r(4.75), false},
		{d(300000), d(11330), r(5.00), false},
		{d(500000), d(21330), r(5.50), false},
	},
	firstHome:               FirstHomeConcession{AllPrices: true, NewHomesOnly: true},
	transferFee:             saTransferFee,
	mortgageRegistrationFee: d(190),
	landTax: []LandTaxBracket{
		{d(732000), d(0), r(0.5)},
		{d(1189000), d(2285), r(1.25)},
		{d(1730000), r(9047.5), r(2.0)},
		{d(2000000), r(14447.5), r(2.4)},
	},
	grant: &GrantRule{Program: "SA First Home Owner Grant", Amount: d(15000)},
}

var tasRules = &stateRules{
	state: domain.StateTAS,
	duty: []DutyBracket{
		{d(0), d(50), d(0), false},
		{d(3000), d(50), r(1.75), false},
		{d(25000), d(435), r(2.25), false},
		{d(75000), d(1560), r(3.50), false},
		{d(200000), d(5935), r(4.00), false},
		{d(375000), d(12935), r(4.25), false},
		{d(725000), d(27810), r(4.50), false},
	},
	firstHome:               FirstHomeConcession{ExemptUpTo: d(750000)},
	transferFee:             flatFee(r(237.83)),
	mortgageRegistrationFee: r(155.93),
	landTax: []LandTaxBracket{
		{d(125000), d(50), r(0.45)},
		{d(500000), r(1737.5), r(1.5)},
	},
	grant: &GrantRule{
		Program:       "Tasmanian First Home Owner Grant",
		Amount:        d(30000),
		ReducedAmount: d(10000),
		ReducedFrom:   grantStepDown,
	},
}

// ACT concessions are income tested; a full exemption is assumed for eligible buyers
var actRules = &stateRules{
	state: domain.StateACT,
	duty: []DutyBracket{
		{d(0), d(0), r(0.49), false},
		{d(260000), d(1274), r(2.20), false},
		{d(300000), d(2154), r(3.40), false},
		{d(500000), d(8954), r(4.32), false},
		{d(750000), d(19754), r(5.90), false},
		{d(1000000), d(34504), r(6.40), false},
		{d(1455000), d(0), r(4.54), true},
	},
	firstHome:               FirstHomeConcession{AllPrices: true},
	transferFee:             flatFee(d(479)),
	mortgageRegistrationFee: d(178),
	landTax: []LandTaxBracket{
		{d(0), d(1584), r(0.54)},
		{d(150000), d(2394), r(0.64)},
		{d(275000), d(3194), r(1.12)},
		{d(2000000), d(22514), r(1.13)},
	},
}

var ntRules = &stateRules{
	state:                   domain.StateNT,
	dutyFunc:                ntDuty,
	transferFee:             flatFee(d(184)),
	mortgageRegistrationFee: d(167),
	grant:                   &GrantRule{Program: "NT First Home Owner Grant", Amount: d(10000)},
}

var (
	ntQuadraticLimit = d(525000)
	ntQuadraticA     = r(0.06571441)
	ntLinear         = d(15)
	ntHigherBrackets = []DutyBracket{
		{d(525000), d(0), r(4.95), true},
		{d(3000000), d(0), r(5.75), true},
		{d(5000000), d(0), r(5.95), true},
	}
)

// ntDuty applies the statutory formula D = 0.06571441V^2 + 15V, where V is price / 1000
func ntDuty(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	if price.GreaterThan(ntQuadraticLimit) {
		return dutyFromSchedule(ntHigherBrackets, price)
	}
	v := price.Div(thousand)
	return ntQuadraticA.Mul(v).Mul(v).Add(ntLinear.Mul(v)).Round(0)
}

func waTransferFee(price decimal.Decimal) decimal.Decimal {
	switch {
	case price.LessThanOrEqual(d(85000)):
		return r(210.50)
	case price.LessThanOrEqual(d(120000)):
		return r(220.50)
	case price.LessThanOrEqual(d(200000)):
		return r(240.50)
	}
	return perBlockFee(r(240.50), d(20), d(100000), d(200000), d(0))(price)
}

func saTransferFee(price decimal.Decimal) decimal.Decimal {
	switch {
	case price.LessThanOrEqual(d(5000)):
		return d(194)
	case price.LessThanOrEqual(d(20000)):
		return d(215)
	case price.LessThanOrEqual(d(40000)):
		return d(236)
	}
	return perBlockFee(d(334), r(99.50), d(10000), d(50000), d(0))(price)
}
