package gorm

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// DishRepository implements outbound.DishRepository over a normalized
// dishes/dish_ingredients schema, the same connection-injected,
// context-first shape as the teacher's gorm.RecipeRepository.
type DishRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDishRepository wires a DishRepository; db is expected to already have
// AutoMigrate applied by the caller (see container.go).
func NewDishRepository(db *gorm.DB, logger *zap.Logger) outbound.DishRepository {
	return &DishRepository{db: db, logger: logger.Named("gorm-dish-repository")}
}

func (r *DishRepository) FindAll(ctx context.Context, category *dish.Category, mealType *dish.MealType, skip, limit int) ([]dish.Dish, error) {
	q := r.db.WithContext(ctx).Preload("Ingredients")
	if category != nil {
		q = q.Where("category = ?", string(*category))
	}
	if mealType != nil {
		// MealTypes is a JSON array column; LIKE keeps this portable across
		// sqlite (dev/test) and postgres (prod) without a JSON operator.
		q = q.Where("meal_types LIKE ?", "%\""+string(*mealType)+"\"%")
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []DishModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainDishes(rows), nil
}

func (r *DishRepository) FindByIDs(ctx context.Context, ids []int) ([]dish.Dish, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []DishModel
	if err := r.db.WithContext(ctx).Preload("Ingredients").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainDishes(rows), nil
}

func (r *DishRepository) FindExcludingAllergens(ctx context.Context, excluded []dish.Allergen) ([]dish.Dish, error) {
	var rows []DishModel
	if err := r.db.WithContext(ctx).Preload("Ingredients").Find(&rows).Error; err != nil {
		return nil, err
	}
	dishes := toDomainDishes(rows)
	if len(excluded) == 0 {
		return dishes, nil
	}
	excludedSet := make(map[dish.Allergen]bool, len(excluded))
	for _, a := range excluded {
		excludedSet[a] = true
	}
	out := dishes[:0]
	for _, d := range dishes {
		carriesExcluded := false
		for _, a := range d.Allergens {
			if excludedSet[a] {
				carriesExcluded = true
				break
			}
		}
		if !carriesExcluded {
			out = append(out, d)
		}
	}
	return out, nil
}

func toDomainDishes(rows []DishModel) []dish.Dish {
	out := make([]dish.Dish, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainDish(row))
	}
	return out
}

func toDomainDish(row DishModel) dish.Dish {
	meals := make([]dish.MealType, 0, len(row.MealTypes))
	for _, m := range row.MealTypes {
		meals = append(meals, dish.MealType(m))
	}
	allergens := make([]dish.Allergen, 0, len(row.Allergens))
	for _, a := range row.Allergens {
		allergens = append(allergens, dish.Allergen(a))
	}
	nutrients := make(dish.NutrientVector, len(row.Nutrients))
	for k, v := range row.Nutrients {
		nutrients[nutrient.ID(k)] = v
	}
	ingredients := make([]dish.Ingredient, 0, len(row.Ingredients))
	for _, ing := range row.Ingredients {
		ingredients = append(ingredients, dish.Ingredient{
			FoodID:        ing.FoodID,
			FoodName:      ing.FoodName,
			BasicID:       ing.BasicID,
			BasicName:     ing.BasicName,
			AmountGrams:   ing.AmountGrams,
			DisplayAmount: ing.DisplayAmount,
			Unit:          ing.Unit,
			CookingMethod: dish.CookingMethod(ing.CookingMethod),
		})
	}
	return dish.Dish{
		ID:            row.ID,
		Name:          row.Name,
		Category:      dish.Category(row.Category),
		MealTypes:     meals,
		ServingSize:   row.ServingSize,
		StorageDays:   row.StorageDays,
		MinServings:   row.MinServings,
		MaxServings:   row.MaxServings,
		FlavorProfile: dish.FlavorProfile(row.FlavorProfile),
		Nutrients:     nutrients,
		Ingredients:   ingredients,
		Allergens:     allergens,
	}
}

// FromDomainDish converts a domain Dish into its persisted row shape, used
// by seed loaders and tests that need to round-trip through the schema.
func FromDomainDish(d dish.Dish) DishModel {
	meals := make(StringSlice, 0, len(d.MealTypes))
	for _, m := range d.MealTypes {
		meals = append(meals, string(m))
	}
	allergens := make(StringSlice, 0, len(d.Allergens))
	for _, a := range d.Allergens {
		allergens = append(allergens, string(a))
	}
	nutrients := make(NutrientMap, len(d.Nutrients))
	for k, v := range d.Nutrients {
		nutrients[string(k)] = v
	}
	ingredients := make([]IngredientModel, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		ingredients = append(ingredients, IngredientModel{
			DishID:        d.ID,
			FoodID:        ing.FoodID,
			FoodName:      ing.FoodName,
			BasicID:       ing.BasicID,
			BasicName:     ing.BasicName,
			AmountGrams:   ing.AmountGrams,
			DisplayAmount: ing.DisplayAmount,
			Unit:          ing.Unit,
			CookingMethod: string(ing.CookingMethod),
		})
	}
	return DishModel{
		ID:            d.ID,
		Name:          d.Name,
		Category:      string(d.Category),
		MealTypes:     meals,
		ServingSize:   d.ServingSize,
		StorageDays:   d.StorageDays,
		MinServings:   d.MinServings,
		MaxServings:   d.MaxServings,
		FlavorProfile: string(d.FlavorProfile),
		Nutrients:     nutrients,
		Allergens:     allergens,
		Ingredients:   ingredients,
	}
}
