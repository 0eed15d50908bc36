package domain_test

import (
	"math"
	"testing"

	"weightlog/internal/domain"
)

func TestToKgLb(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		unit   domain.Unit
		wantKg float64
		wantLb float64
	}{
		{"100 kg", 100, domain.UnitKg, 100.00, 220.46},
		{"220.46 lb", 220.46, domain.UnitLb, 100.00, 220.46},
		{"80 kg", 80, domain.UnitKg, 80.00, 176.37},
		{"zero", 0, domain.UnitKg, 0, 0},
		{"half away from zero", 0.125, domain.UnitKg, 0.13, 0.28},
		{"negative half away from zero", -0.125, domain.UnitKg, -0.13, -0.28},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ToKgLb(tc.value, tc.unit)
			if err != nil {
				t.Fatalf("ToKgLb(%v, %q) error: %v", tc.value, tc.unit, err)
			}
			if got.Kg != tc.wantKg || got.Lb != tc.wantLb {
				t.Errorf("ToKgLb(%v, %q) = {%v, %v}; want {%v, %v}",
					tc.value, tc.unit, got.Kg, got.Lb, tc.wantKg, tc.wantLb)
			}
		})
	}
}

func TestToKgLb_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  domain.Unit
		field string
	}{
		{"nan", math.NaN(), domain.UnitKg, "value"},
		{"positive inf", math.Inf(1), domain.UnitLb, "value"},
		{"negative inf", math.Inf(-1), domain.UnitKg, "value"},
		{"unknown unit", 50, domain.Unit("st"), "unit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ToKgLb(tc.value, tc.unit)
			ve, ok := err.(*domain.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestToKgLb_RoundTrip(t *testing.T) {
	values := []float64{0.01, 54.3, 80, 100, 187.25, 450.9, 999.99}
	for _, v := range values {
		pair, err := domain.ToKgLb(v, domain.UnitKg)
		if err != nil {
			t.Fatalf("ToKgLb(%v, kg): %v", v, err)
		}
		back, err := domain.ToKgLb(pair.Lb, domain.UnitLb)
		if err != nil {
			t.Fatalf("ToKgLb(%v, lb): %v", pair.Lb, err)
		}
		if math.Abs(back.Kg-v) > 0.01 {
			t.Errorf("round-trip kg %v -> lb %v -> kg %v drifted more than 0.01", v, pair.Lb, back.Kg)
		}
	}
}
