package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestParseFeature(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want FeatureValue
	}{
		{"bool true", true, FeatureValue{Kind: FeatureBoolean, Enabled: true}},
		{"bool false", false, FeatureValue{Kind: FeatureBoolean, Enabled: false}},
		{"json number limit", float64(500), FeatureValue{Kind: FeatureLimit, Limit: 500}},
		{"json number zero", float64(0), FeatureValue{Kind: FeatureLimit, Limit: 0}},
		{"json number unlimited", float64(-1), FeatureValue{Kind: FeatureUnlimited}},
		{"int limit", 25, FeatureValue{Kind: FeatureLimit, Limit: 25}},
		{"int unlimited", -1, FeatureValue{Kind: FeatureUnlimited}},
		{"int64 unlimited", int64(-1), FeatureValue{Kind: FeatureUnlimited}},
		{"string unlimited word", "unlimited", FeatureValue{Kind: FeatureUnlimited}},
		{"string unlimited sentinel", " -1 ", FeatureValue{Kind: FeatureUnlimited}},
		{"string non-empty", "enterprise", FeatureValue{Kind: FeatureBoolean, Enabled: true}},
		{"string empty", "", FeatureValue{Kind: FeatureBoolean, Enabled: false}},
		{"nil", nil, FeatureValue{Kind: FeatureBoolean, Enabled: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFeature(tt.raw)
			if got != tt.want {
				t.Errorf("ParseFeature(%v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFeatureValueGranted(t *testing.T) {
	tests := []struct {
		name  string
		value FeatureValue
		want  bool
	}{
		{"enabled flag", FeatureValue{Kind: FeatureBoolean, Enabled: true}, true},
		{"disabled flag", FeatureValue{Kind: FeatureBoolean, Enabled: false}, false},
		{"limit grants", FeatureValue{Kind: FeatureLimit, Limit: 10}, true},
		{"zero limit still grants", FeatureValue{Kind: FeatureLimit, Limit: 0}, true},
		{"unlimited grants", FeatureValue{Kind: FeatureUnlimited}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Granted(); got != tt.want {
				t.Errorf("Granted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanFeatureLookup(t *testing.T) {
	plan := &PricingPlan{
		Features: datatypes.JSONMap{
			"verify_credentials": true,
			"api_calls":          float64(-1),
		},
	}

	v, ok := plan.Feature("verify_credentials")
	if !ok || !v.Granted() {
		t.Errorf("Feature(verify_credentials) = %+v, %v; want granted", v, ok)
	}

	v, ok = plan.Feature("api_calls")
	if !ok || v.Kind != FeatureUnlimited {
		t.Errorf("Feature(api_calls) = %+v, %v; want unlimited", v, ok)
	}

	if _, ok := plan.Feature("missing"); ok {
		t.Error("Feature(missing) reported present")
	}

	empty := &PricingPlan{}
	if _, ok := empty.Feature("anything"); ok {
		t.Error("Feature on nil map reported present")
	}
}
