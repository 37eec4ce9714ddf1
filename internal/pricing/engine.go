package pricing

import "github.com/shopspring/decimal"

// Rates is the per-liter and sales-tax rate snapshot a price is derived from.
// On a booking these values are locked in at creation time so that later
// pricing-config changes never leak into an already-placed order.
type Rates struct {
	FuelPricePerLiter decimal.Decimal
	FederalCarbonTax  decimal.Decimal
	QuebecCarbonTax   decimal.Decimal
	GSTRate           decimal.Decimal
	QSTRate           decimal.Decimal
}

// Breakdown is the full delivered-price decomposition for one quantity.
// Per-liter rates are carried unrounded; Subtotal and Total are rounded to
// two decimal places at the point of computation.
type Breakdown struct {
	RackPrice             decimal.Decimal
	CustomerPriceModifier decimal.Decimal
	FuelPricePerLiter     decimal.Decimal
	FederalCarbonTax      decimal.Decimal
	QuebecCarbonTax       decimal.Decimal
	GSTRate               decimal.Decimal
	QSTRate               decimal.Decimal
	FuelCost              decimal.Decimal
	FederalAmount         decimal.Decimal
	QuebecAmount          decimal.Decimal
	GSTAmount             decimal.Decimal
	QSTAmount             decimal.Decimal
	Subtotal              decimal.Decimal
	Total                 decimal.Decimal
}

// Rates returns the rate snapshot embedded in the breakdown.
func (b Breakdown) Rates() Rates {
	return Rates{
		FuelPricePerLiter: b.FuelPricePerLiter,
		FederalCarbonTax:  b.FederalCarbonTax,
		QuebecCarbonTax:   b.QuebecCarbonTax,
		GSTRate:           b.GSTRate,
		QSTRate:           b.QSTRate,
	}
}

// Compute derives the delivered price for the given quantity from the shared
// rack price and the customer's additive modifier. The function is total over
// its numeric domain: a modifier more negative than the rack price yields a
// negative per-liter price and is accepted as-is; negative quantities are the
// caller's responsibility to reject.
func Compute(liters, rackPrice, modifier, federalTax, quebecTax, gstRate, qstRate decimal.Decimal) Breakdown {
	perLiter := rackPrice.Add(modifier)
	b := computeFromRates(liters, Rates{
		FuelPricePerLiter: perLiter,
		FederalCarbonTax:  federalTax,
		QuebecCarbonTax:   quebecTax,
		GSTRate:           gstRate,
		QSTRate:           qstRate,
	})
	b.RackPrice = rackPrice
	b.CustomerPriceModifier = modifier
	return b
}

// Recompute re-derives subtotal and total for a new quantity using an existing
// rate snapshot. This is the invoice-reconciliation path: the snapshot comes
// from the booking, never from the live pricing config.
func Recompute(liters decimal.Decimal, rates Rates) Breakdown {
	return computeFromRates(liters, rates)
}

func computeFromRates(liters decimal.Decimal, rates Rates) Breakdown {
	fuelCost := liters.Mul(rates.FuelPricePerLiter)
	federalAmount := liters.Mul(rates.FederalCarbonTax)
	quebecAmount := liters.Mul(rates.QuebecCarbonTax)

	subtotal := fuelCost.Add(federalAmount).Add(quebecAmount)
	gst := subtotal.Mul(rates.GSTRate)
	qst := subtotal.Mul(rates.QSTRate)
	total := subtotal.Add(gst).Add(qst)

	return Breakdown{
		FuelPricePerLiter: rates.FuelPricePerLiter,
		FederalCarbonTax:  rates.FederalCarbonTax,
		QuebecCarbonTax:   rates.QuebecCarbonTax,
		GSTRate:           rates.GSTRate,
		QSTRate:           rates.QSTRate,
		FuelCost:          fuelCost,
		FederalAmount:     federalAmount,
		QuebecAmount:      quebecAmount,
		GSTAmount:         gst,
		QSTAmount:         qst,
		Subtotal:          subtotal.Round(2),
		Total:             total.Round(2),
	}
}
