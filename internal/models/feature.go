package models

import "strings"

// FeatureKind tags the shape of a plan feature value.
type FeatureKind int

const (
	// FeatureBoolean is a plain on/off flag.
	FeatureBoolean FeatureKind = iota
	// FeatureLimit carries a numeric quota.
	FeatureLimit
	// FeatureUnlimited is the -1 / "unlimited" sentinel.
	FeatureUnlimited
)

// FeatureValue is the decoded form of one entry in a plan's feature map.
// Plan rows store features as loose JSON (booleans, numbers and the -1
// sentinel mixed together); decoding to a tagged value keeps the access
// checks free of truthiness guessing.
type FeatureValue struct {
	Kind    FeatureKind
	Enabled bool
	Limit   int64
}

// Granted reports whether the value grants access to the feature at all.
// A numeric limit counts as access regardless of the quota; callers that
// need the quota must read Limit themselves.
func (v FeatureValue) Granted() bool {
	if v.Kind == FeatureBoolean {
		return v.Enabled
	}
	return true
}

// ParseFeature decodes a raw feature map entry. JSON numbers arrive as
// float64; -1 in any numeric or string form means unlimited. Unknown
// non-false values are treated as enabled flags, matching how plan rows
// have historically been written.
func ParseFeature(raw interface{}) FeatureValue {
	switch v := raw.(type) {
	case bool:
		return FeatureValue{Kind: FeatureBoolean, Enabled: v}
	case float64:
		if v == -1 {
			return FeatureValue{Kind: FeatureUnlimited}
		}
		return FeatureValue{Kind: FeatureLimit, Limit: int64(v)}
	case int:
		if v == -1 {
			return FeatureValue{Kind: FeatureUnlimited}
		}
		return FeatureValue{Kind: FeatureLimit, Limit: int64(v)}
	case int64:
		if v == -1 {
			return FeatureValue{Kind: FeatureUnlimited}
		}
		return FeatureValue{Kind: FeatureLimit, Limit: v}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "-1", "unlimited":
			return FeatureValue{Kind: FeatureUnlimited}
		}
		return FeatureValue{Kind: FeatureBoolean, Enabled: v != ""}
	case nil:
		return FeatureValue{Kind: FeatureBoolean, Enabled: false}
	default:
		return FeatureValue{Kind: FeatureBoolean, Enabled: true}
	}
}

// Feature looks up and decodes a feature by key. The second return is false
// when the key is absent from the plan.
func (p *PricingPlan) Feature(key string) (FeatureValue, bool) {
	if p.Features == nil {
		return FeatureValue{}, false
	}
	raw, ok := p.Features[key]
	if !ok {
		return FeatureValue{}, false
	}
	return ParseFeature(raw), true
}
