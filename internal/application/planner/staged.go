package planner

import (
	"math/rand"
	"strings"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/classifier"
)

// scheduleGrid is {day: {meal: *dish.Dish}}; a nil entry means "no dish
// placed yet" (spec.md §4.3 staged scheduling). Grounded on
// original_source/.../domain/services/meal_scheduler.py's
// dict[int, dict[str, Optional[Dish]]] return shape.
type scheduleGrid map[int]map[dish.MealType]*dish.Dish

func newGrid(days int, meals []dish.MealType) scheduleGrid {
	g := make(scheduleGrid, days)
	for d := 1; d <= days; d++ {
		g[d] = make(map[dish.MealType]*dish.Dish, len(meals))
		for _, m := range meals {
			g[d][m] = nil
		}
	}
	return g
}

// PhaseZero pre-places keep_dish_ids staples and mains into the first
// available slots, unconditionally (mirrors solve_multi_day_staged's
// keep_staples/keep_mains placement loop, before Phase 1 runs). A
// STAPLE_MAIN dish placed as a staple suppresses that (day, meal)'s main
// slot, since it already fills both roles (spec.md §9).
func PhaseZero(dishes []dish.Dish, keepIDs map[int]bool, days int, meals []dish.MealType) (staples, mains scheduleGrid) {
	staples = newGrid(days, meals)
	mains = newGrid(days, meals)

	var keepStaples, keepMains []dish.Dish
	for _, d := range dishes {
		if !keepIDs[d.ID] {
			continue
		}
		if d.Category.IsStapleLike() {
			keepStaples = append(keepStaples, d)
		} else if d.Category == dish.MainCategory {
			keepMains = append(keepMains, d)
		}
	}

	idx := 0
outerStaple:
	for day := 1; day <= days; day++ {
		for _, m := range meals {
			if idx >= len(keepStaples) {
				break outerStaple
			}
			dd := keepStaples[idx]
			staples[day][m] = &dd
			idx++
		}
	}

	idx = 0
outerMain:
	for day := 1; day <= days; day++ {
		for _, m := range meals {
			if idx >= len(keepMains) {
				break outerMain
			}
			if s := staples[day][m]; s != nil && s.Category == dish.StapleMainCategory {
				continue
			}
			dd := keepMains[idx]
			mains[day][m] = &dd
			idx++
		}
	}

	return staples, mains
}

// SchedulePhase1Staples fills every staple slot PhaseZero left empty
// (spec.md §4.3 Phase 1), grounded on MealScheduler.schedule_staples.
func SchedulePhase1Staples(rng *rand.Rand, dishes []dish.Dish, days int, meals []dish.MealType, household dish.HouseholdType, fixed scheduleGrid) scheduleGrid {
	var staple []dish.Dish
	for _, d := range dishes {
		if d.Category == dish.StapleCategory {
			staple = append(staple, d)
		}
	}
	grid := newGrid(days, meals)
	if len(staple) == 0 {
		return overlay(grid, fixed)
	}

	var rice, bread, noodle []dish.Dish
	for _, d := range staple {
		switch classifier.ClassifyStaple(d) {
		case classifier.Bread:
			bread = append(bread, d)
		case classifier.Noodle:
			noodle = append(noodle, d)
		default:
			rice = append(rice, d)
		}
	}
	if len(rice) == 0 {
		rice = staple
	}

	var lastType classifier.StapleType
	for day := 1; day <= days; day++ {
		for _, m := range meals {
			if fixedDish := fixed[day][m]; fixedDish != nil {
				grid[day][m] = fixedDish
				lastType = classifier.ClassifyStaple(*fixedDish)
				continue
			}
			d := selectStapleForMeal(rng, m, day, lastType, rice, bread, noodle, household)
			grid[day][m] = d
			if d != nil {
				lastType = classifier.ClassifyStaple(*d)
			}
		}
	}
	return grid
}

func selectStapleForMeal(rng *rand.Rand, meal dish.MealType, day int, lastType classifier.StapleType, rice, bread, noodle []dish.Dish, household dish.HouseholdType) *dish.Dish {
	if meal == dish.Breakfast {
		if len(bread) > 0 && rng.Float64() < 0.6 {
			return pick(rng, bread)
		}
		var simple []dish.Dish
		for _, d := range rice {
			if containsAny(d.Name, "おにぎり", "ご飯") {
				simple = append(simple, d)
			}
		}
		if len(simple) > 0 {
			return pick(rng, simple)
		}
		return pick(rng, rice)
	}

	var candidates []dish.Dish
	if lastType == classifier.Noodle {
		candidates = rice
	} else {
		switch (day - 1) % 3 {
		case 1:
			if len(noodle) > 0 {
				candidates = noodle
			} else {
				candidates = rice
			}
		default:
			candidates = rice
		}
	}

	if household == dish.HouseholdSingle {
		var oneDish []dish.Dish
		for _, d := range candidates {
			if classifier.IsOneDishMeal(d) {
				oneDish = append(oneDish, d)
			}
		}
		if len(oneDish) > 0 && rng.Float64() < 0.4 {
			return pick(rng, oneDish)
		}
	}
	return pick(rng, candidates)
}

// SchedulePhase2Mains fills every main slot PhaseZero left empty, rotating
// through protein sources (spec.md §4.3 Phase 2), grounded on
// MealScheduler.schedule_mains.
func SchedulePhase2Mains(rng *rand.Rand, dishes []dish.Dish, days int, meals []dish.MealType, staples scheduleGrid, pc classifier.ProteinClassifier, household dish.HouseholdType, excluded map[int]bool, variety dish.Level, fixed scheduleGrid) scheduleGrid {
	var mainDishes []dish.Dish
	for _, d := range dishes {
		if d.Category == dish.MainCategory && !excluded[d.ID] {
			mainDishes = append(mainDishes, d)
		}
	}
	grid := newGrid(days, meals)
	if len(mainDishes) == 0 {
		return overlay(grid, fixed)
	}

	byProtein := make(map[classifier.ProteinSource][]dish.Dish)
	for _, d := range mainDishes {
		if source, ok := pc.Classify(d); ok {
			byProtein[source] = append(byProtein[source], d)
		}
	}

	reuseGap, historyLen := varietyParams(variety, days)

	usedDay := make(map[int]int) // dish id -> last used day
	var recent []classifier.ProteinSource
	proteinIdx := 0

	for day := 1; day <= days; day++ {
		for _, m := range meals {
			if fixedDish := fixed[day][m]; fixedDish != nil {
				grid[day][m] = fixedDish
				usedDay[fixedDish.ID] = day
				continue
			}

			available := make(map[int]bool, len(mainDishes))
			for _, d := range mainDishes {
				last, seen := usedDay[d.ID]
				if !seen {
					available[d.ID] = true
					continue
				}
				if variety == dish.LevelSmall && d.StorageDays > 0 {
					if day <= last+d.StorageDays {
						available[d.ID] = true
					}
				} else if day-last > reuseGap {
					available[d.ID] = true
				}
			}

			if m == dish.Breakfast {
				d := selectBreakfastMain(rng, mainDishes, available)
				grid[day][m] = d
				if d != nil {
					usedDay[d.ID] = day
				}
				continue
			}

			staple := staples[day][m]
			compatible := []dish.FlavorProfile{dish.Japanese, dish.Western, dish.Chinese}
			if staple != nil {
				compatible = classifier.FlavorCompatibility[classifier.ClassifyStaple(*staple)]
			}

			d, nextIdx := selectMainWithRotation(rng, byProtein, compatible, m, available, proteinIdx, recent, historyLen)
			proteinIdx = nextIdx
			grid[day][m] = d
			if d != nil {
				if source, ok := pc.Classify(*d); ok {
					recent = append(recent, source)
					if len(recent) > historyLen+1 {
						recent = recent[1:]
					}
					proteinIdx++
				}
				usedDay[d.ID] = day
			}
		}
	}
	return grid
}

// varietyParams mirrors schedule_mains's small/normal/large tuning.
func varietyParams(variety dish.Level, days int) (reuseGap, historyLen int) {
	switch variety {
	case dish.LevelSmall:
		return 0, 0
	case dish.LevelLarge:
		return days + 1, 3
	default:
		return 2, 2
	}
}

func selectBreakfastMain(rng *rand.Rand, dishes []dish.Dish, available map[int]bool) *dish.Dish {
	var candidates []dish.Dish
	for _, d := range dishes {
		if available[d.ID] && classifier.IsBreakfastMain(d) && d.EligibleFor(dish.Breakfast) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return pick(rng, candidates)
}

func selectMainWithRotation(rng *rand.Rand, byProtein map[classifier.ProteinSource][]dish.Dish, compatible []dish.FlavorProfile, meal dish.MealType, available map[int]bool, proteinIdx int, recent []classifier.ProteinSource, historyLen int) (*dish.Dish, int) {
	if historyLen == 0 {
		var candidates []dish.Dish
		for _, list := range byProtein {
			for _, d := range list {
				if available[d.ID] && d.EligibleFor(meal) && flavorIn(d.FlavorProfile, compatible) {
					candidates = append(candidates, d)
				}
			}
		}
		if len(candidates) == 0 {
			for _, list := range byProtein {
				for _, d := range list {
					if available[d.ID] && d.EligibleFor(meal) {
						candidates = append(candidates, d)
					}
				}
			}
		}
		if len(candidates) == 0 {
			return nil, proteinIdx
		}
		return pickPtr(rng, candidates), proteinIdx
	}

	target := classifier.RotationOrder[proteinIdx%len(classifier.RotationOrder)]
	attempts := 0
	recentWindow := recentTail(recent, historyLen)
	for containsProtein(recentWindow, target) && attempts < len(classifier.RotationOrder) {
		proteinIdx++
		target = classifier.RotationOrder[proteinIdx%len(classifier.RotationOrder)]
		attempts++
	}

	candidates := filterAvailable(byProtein[target], available, meal, compatible, true)
	if len(candidates) == 0 {
		candidates = filterAvailable(byProtein[target], available, meal, nil, false)
	}
	if len(candidates) == 0 {
		for _, alt := range classifier.RotationOrder {
			if alt == target {
				continue
			}
			candidates = filterAvailable(byProtein[alt], available, meal, nil, false)
			if len(candidates) > 0 {
				break
			}
		}
	}
	if len(candidates) == 0 {
		for _, list := range byProtein {
			for _, d := range list {
				if d.EligibleFor(meal) {
					candidates = append(candidates, d)
				}
			}
			if len(candidates) > 0 {
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil, proteinIdx
	}
	return pickPtr(rng, candidates), proteinIdx
}

func filterAvailable(list []dish.Dish, available map[int]bool, meal dish.MealType, compatible []dish.FlavorProfile, requireFlavor bool) []dish.Dish {
	var out []dish.Dish
	for _, d := range list {
		if !available[d.ID] || !d.EligibleFor(meal) {
			continue
		}
		if requireFlavor && !flavorIn(d.FlavorProfile, compatible) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func recentTail(recent []classifier.ProteinSource, n int) []classifier.ProteinSource {
	if len(recent) <= n {
		return recent
	}
	return recent[len(recent)-n:]
}

func containsProtein(list []classifier.ProteinSource, target classifier.ProteinSource) bool {
	for _, p := range list {
		if p == target {
			return true
		}
	}
	return false
}

func flavorIn(f dish.FlavorProfile, list []dish.FlavorProfile) bool {
	for _, x := range list {
		if x == f {
			return true
		}
	}
	return false
}

func pick(rng *rand.Rand, list []dish.Dish) *dish.Dish {
	if len(list) == 0 {
		return nil
	}
	d := list[rng.Intn(len(list))]
	return &d
}

func pickPtr(rng *rand.Rand, list []dish.Dish) *dish.Dish {
	return pick(rng, list)
}

func overlay(grid, fixed scheduleGrid) scheduleGrid {
	for day, meals := range fixed {
		for m, d := range meals {
			if d != nil {
				grid[day][m] = d
			}
		}
	}
	return grid
}

func containsAny(name string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}
