package domain

import "math"

// LbPerKg is the fixed conversion factor: 1 kg = 2.2046226218 lb.
const LbPerKg = 2.2046226218

// KgLb holds a weight expressed in both units, each rounded to 2 decimals.
type KgLb struct {
	Kg float64
	Lb float64
}

// Round2 rounds to 2 decimal places, half away from zero, on the scaled
// integer. Both backends rely on this single rule so stored values are
// bit-exact across them.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToKgLb converts a weight value in the given unit to its kg/lb pair.
func ToKgLb(value float64, unit Unit) (KgLb, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return KgLb{}, invalid("value", "must be a finite number")
	}
	switch unit {
	case UnitKg:
		return KgLb{Kg: Round2(value), Lb: Round2(value * LbPerKg)}, nil
	case UnitLb:
		return KgLb{Kg: Round2(value / LbPerKg), Lb: Round2(value)}, nil
	}
	return KgLb{}, invalid("unit", `must be "kg" or "lb"`)
}
