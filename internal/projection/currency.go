package projection

// QuickReferenceAmounts are the USD denominations shown in the conversion table
var QuickReferenceAmounts = []float64{100, 500, 1000, 5000}

// Conversion pairs a USD amount with its local-currency value
type Conversion struct {
	USD   float64 `json:"usd"`
	Local float64 `json:"local"`
}

// CurrencyReference is the converter panel
type CurrencyReference struct {
	Rate           float64      `json:"usd_to_local_rate"`
	QuickReference []Conversion `json:"quick_reference"`
}

// USDValue converts a local amount to USD. A non-positive rate yields 0.
func USDValue(amountLocal, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return amountLocal / rate
}

// LocalValue converts a USD amount to local currency
func LocalValue(amountUSD, rate float64) float64 {
	return amountUSD * rate
}

// QuickReference converts the fixed USD denominations at the given rate
func QuickReference(rate float64) []Conversion {
	out := make([]Conversion, 0, len(QuickReferenceAmounts))
	for _, usd := range QuickReferenceAmounts {
		out = append(out, Conversion{USD: usd, Local: Finite(LocalValue(usd, rate))})
	}
	return out
}

// Currency builds the converter panel for a rate. A non-finite rate counts as 0.
func Currency(rate float64) CurrencyReference {
	rate = Finite(rate)
	return CurrencyReference{
		Rate:           rate,
		QuickReference: QuickReference(rate),
	}
}
