// Package energy holds the energy unit conversions used around regional
// energy balance datasets.
package energy

// Metric prefix scaling.
func KiloToMega(kilo float64) float64 { return kilo / 1_000 }
func KiloToGiga(kilo float64) float64 { return kilo / 1_000_000 }
func GigaToMega(giga float64) float64 { return giga * 1_000 }
func GigaToKilo(giga float64) float64 { return giga * 1_000_000 }

// GwhToTj converts gigawatt-hours to terajoules (1 GWh = 3.6 TJ).
func GwhToTj(gwh float64) float64 { return gwh * 3.6 }

// TjToGwh converts terajoules to gigawatt-hours.
func TjToGwh(tj float64) float64 { return tj / 3.6 }

// GwhToKwh converts gigawatt-hours to kilowatt-hours.
func GwhToKwh(gwh float64) float64 { return gwh * 1_000_000 }

// GjToGwh converts gigajoules to gigawatt-hours.
func GjToGwh(gj float64) float64 { return gj / 3600 }

// PjToGwh converts petajoules to gigawatt-hours.
func PjToGwh(pj float64) float64 { return pj * 277.778 }

// KtoeToGwh converts kiloton of oil equivalent to gigawatt-hours
// (1 ktoe ≈ 11.63 GWh); truncate drops the fractional part.
func KtoeToGwh(ktoe float64, truncate bool) float64 {
	gwh := ktoe * 11.63
	if truncate {
		gwh = float64(int64(gwh))
	}
	return gwh
}

// MwToGwh converts an installed capacity in MW to the yearly yield in GWh
// at continuous full load (8760 h).
func MwToGwh(mw float64) float64 { return mw * 8760 / 1000 }

// FullLoadFractionToYearlyHours converts a full-load fraction (0..1) to
// equivalent full-load hours per year.
func FullLoadFractionToYearlyHours(fraction float64) float64 { return fraction * 8760 }
