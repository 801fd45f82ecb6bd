// Package nutrient defines the 24-nutrient vocabulary the planner optimizes
// against: identifiers, per-nutrient weights, and the three penalty groups
// used by the MIP objective.
package nutrient

// ID identifies one of the 24 tracked nutrients.
type ID string

const (
	Calories         ID = "calories"
	Protein          ID = "protein"
	Fat              ID = "fat"
	Carbohydrate     ID = "carbohydrate"
	Fiber            ID = "fiber"
	Sodium           ID = "sodium"
	Potassium        ID = "potassium"
	Calcium          ID = "calcium"
	Magnesium        ID = "magnesium"
	Iron             ID = "iron"
	Zinc             ID = "zinc"
	VitaminA         ID = "vitamin_a"
	VitaminD         ID = "vitamin_d"
	VitaminE         ID = "vitamin_e"
	VitaminK         ID = "vitamin_k"
	VitaminB1        ID = "vitamin_b1"
	VitaminB2        ID = "vitamin_b2"
	VitaminB6        ID = "vitamin_b6"
	VitaminB12       ID = "vitamin_b12"
	Niacin           ID = "niacin"
	PantothenicAcid  ID = "pantothenic_acid"
	Biotin           ID = "biotin"
	Folate           ID = "folate"
	VitaminC         ID = "vitamin_c"
)

// All lists the 24 nutrients in a stable order, used whenever a
// deterministic iteration is required (objective assembly, reporting).
var All = []ID{
	Calories, Protein, Fat, Carbohydrate, Fiber,
	Sodium, Potassium, Calcium, Magnesium, Iron, Zinc,
	VitaminA, VitaminD, VitaminE, VitaminK,
	VitaminB1, VitaminB2, VitaminB6, VitaminB12,
	Niacin, PantothenicAcid, Biotin, Folate, VitaminC,
}

// Weight scales a nutrient's penalty contribution in the MIP objective.
// Reproduced from the reference implementation's NUTRIENT_WEIGHTS table.
var Weight = map[ID]float64{
	Calories:        1.0,
	Protein:         1.5,
	Fat:             1.0,
	Carbohydrate:    1.0,
	Fiber:           1.2,
	Sodium:          0.8,
	Potassium:       1.0,
	Calcium:         1.2,
	Magnesium:       1.0,
	Iron:            1.3,
	Zinc:            1.0,
	VitaminA:        1.0,
	VitaminD:        1.5,
	VitaminE:        0.8,
	VitaminK:        0.8,
	VitaminB1:       1.2,
	VitaminB2:       1.2,
	VitaminB6:       1.0,
	VitaminB12:      1.3,
	Niacin:          1.0,
	PantothenicAcid: 0.8,
	Biotin:          0.8,
	Folate:          1.2,
	VitaminC:        1.0,
}

// Group classifies how a nutrient's target participates in constraints
// and the objective (see spec.md §4.1).
type Group int

const (
	// LowerBoundGroup nutrients must satisfy x >= min; an optional upper
	// limit ratio adds a heavily-penalized ceiling.
	LowerBoundGroup Group = iota
	// UpperTargetGroup nutrients must satisfy x <= max (sodium); undershoot
	// is unpenalized or lightly penalized.
	UpperTargetGroup
	// RangeGroup nutrients require both x >= min and x <= max, penalized
	// symmetrically (calories, fat, carbohydrate).
	RangeGroup
)

// upperTargetSet and rangeSet partition All; everything else is lower-bound.
var upperTargetSet = map[ID]bool{
	Sodium: true,
}

var rangeSet = map[ID]bool{
	Calories:     true,
	Fat:          true,
	Carbohydrate: true,
}

// GroupOf returns the penalty group a nutrient belongs to.
func GroupOf(n ID) Group {
	if upperTargetSet[n] {
		return UpperTargetGroup
	}
	if rangeSet[n] {
		return RangeGroup
	}
	return LowerBoundGroup
}

// UpperLimitRatio gives, for a subset of lower-bound nutrients that can
// accumulate to toxic levels, the ratio over `min` past which overshoot is
// penalized at UpperLimitPenalty instead of the default OverPenalty.
// Nutrients absent from this map have no modeled upper limit.
var UpperLimitRatio = map[ID]float64{
	VitaminA: 3.0,
	VitaminD: 2.0,
	Niacin:   3.0,
	Zinc:     2.0,
	Iron:     2.0,
}

// Penalty weights used by the objective (spec.md §4.1). UnderPenalty is
// intentionally far larger than OverPenalty: missing a recommended intake
// is worse than a small overshoot. UpperLimitPenalty exceeds both because
// it guards against genuinely unsafe doses for the nutrients in
// UpperLimitRatio.
const (
	OverPenalty       = 1.0
	UnderPenalty      = 10.0
	UpperLimitPenalty = 50.0
)

// SaturationThreshold relaxes lower-bound targets inside constraints: 80%
// of the recommended intake is treated as constraint-satisfying, while the
// objective still rewards closing the remaining gap.
const SaturationThreshold = 0.8

// Normalizer returns the value used to scale a nutrient's deviation terms
// in the objective so that nutrients measured in micrograms are not
// swamped by ones measured in grams. Never less than 1.
func Normalizer(min float64) float64 {
	if min < 1 {
		return 1
	}
	return min
}

// ImportantForWarnings lists the nutrients that generate a NutrientWarning
// when their achievement rate falls below the configured threshold.
var ImportantForWarnings = []ID{
	Protein, Fiber, Calcium, Iron, VitaminD, VitaminB12, Folate, VitaminC,
}

// ValueMap holds one float64 per nutrient id — intake totals, achievement
// rates, or deviations, depending on context. A missing key reads as zero.
type ValueMap map[ID]float64

// Get returns m[n], or 0 if absent.
func (m ValueMap) Get(n ID) float64 {
	return m[n]
}

// Add returns the element-wise sum of m and other as a new map.
func (m ValueMap) Add(other ValueMap) ValueMap {
	out := make(ValueMap, len(m)+len(other))
	for n, v := range m {
		out[n] = v
	}
	for n, v := range other {
		out[n] += v
	}
	return out
}

// Scale returns m with every value multiplied by factor.
func (m ValueMap) Scale(factor float64) ValueMap {
	out := make(ValueMap, len(m))
	for n, v := range m {
		out[n] = v * factor
	}
	return out
}

// NewValueMap builds a zeroed map over the given nutrient set.
func NewValueMap(ids []ID) ValueMap {
	out := make(ValueMap, len(ids))
	for _, n := range ids {
		out[n] = 0
	}
	return out
}

// DisplayName gives a short human label for a nutrient, used in warning
// messages.
var DisplayName = map[ID]string{
	Calories:        "calories",
	Protein:         "protein",
	Fat:             "fat",
	Carbohydrate:    "carbohydrate",
	Fiber:           "fiber",
	Sodium:          "sodium",
	Potassium:       "potassium",
	Calcium:         "calcium",
	Magnesium:       "magnesium",
	Iron:            "iron",
	Zinc:            "zinc",
	VitaminA:        "vitamin A",
	VitaminD:        "vitamin D",
	VitaminE:        "vitamin E",
	VitaminK:        "vitamin K",
	VitaminB1:       "vitamin B1",
	VitaminB2:       "vitamin B2",
	VitaminB6:       "vitamin B6",
	VitaminB12:      "vitamin B12",
	Niacin:          "niacin",
	PantothenicAcid: "pantothenic acid",
	Biotin:          "biotin",
	Folate:          "folate",
	VitaminC:        "vitamin C",
}
