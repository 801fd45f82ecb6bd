package nutrient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupOf(t *testing.T) {
	assert.Equal(t, UpperTargetGroup, GroupOf(Sodium))
	assert.Equal(t, RangeGroup, GroupOf(Calories))
	assert.Equal(t, RangeGroup, GroupOf(Fat))
	assert.Equal(t, RangeGroup, GroupOf(Carbohydrate))
	assert.Equal(t, LowerBoundGroup, GroupOf(Protein))
	assert.Equal(t, LowerBoundGroup, GroupOf(VitaminC))
}

func TestUpperLimitRatioOnlyCoversToxicitySubset(t *testing.T) {
	for _, n := range []ID{VitaminA, VitaminD, Niacin, Zinc, Iron} {
		ratio, ok := UpperLimitRatio[n]
		assert.True(t, ok, "%s should have a modeled upper limit", n)
		assert.Greater(t, ratio, 1.0)
	}
	_, ok := UpperLimitRatio[Protein]
	assert.False(t, ok, "protein has no modeled upper limit")
}

func TestNormalizerFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1.0, Normalizer(0))
	assert.Equal(t, 1.0, Normalizer(-5))
	assert.Equal(t, 50.0, Normalizer(50))
}

func TestValueMapAddAndScale(t *testing.T) {
	a := ValueMap{Calories: 100, Protein: 10}
	b := ValueMap{Protein: 5, Fat: 2}

	sum := a.Add(b)
	assert.Equal(t, 100.0, sum.Get(Calories))
	assert.Equal(t, 15.0, sum.Get(Protein))
	assert.Equal(t, 2.0, sum.Get(Fat))
	assert.Equal(t, 0.0, sum.Get(Sodium))

	scaled := a.Scale(2)
	assert.Equal(t, 200.0, scaled.Get(Calories))
	assert.Equal(t, 20.0, scaled.Get(Protein))
	// original map is untouched
	assert.Equal(t, 100.0, a.Get(Calories))
}

func TestNewValueMapZeroesEveryID(t *testing.T) {
	m := NewValueMap([]ID{Calories, Sodium})
	assert.Len(t, m, 2)
	assert.Equal(t, 0.0, m.Get(Calories))
	assert.Equal(t, 0.0, m.Get(Sodium))
}

func TestAllAndWeightAgreeOnVocabulary(t *testing.T) {
	assert.Len(t, All, 24)
	for _, n := range All {
		w, ok := Weight[n]
		assert.True(t, ok, "missing weight for %s", n)
		assert.Greater(t, w, 0.0)
		assert.NotEmpty(t, DisplayName[n])
	}
}

func TestImportantForWarningsIsSubsetOfAll(t *testing.T) {
	set := make(map[ID]bool, len(All))
	for _, n := range All {
		set[n] = true
	}
	for _, n := range ImportantForWarnings {
		assert.True(t, set[n], "%s must be a tracked nutrient", n)
	}
}
