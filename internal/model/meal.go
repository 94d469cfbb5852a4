package model

// MealCategory is the fixed set of catalog sections a meal can belong to.
type MealCategory string

const (
	CategoryHealthySalad MealCategory = "healthy-salad"
	CategoryLowCalorie   MealCategory = "low-calorie"
	CategoryHighProtein  MealCategory = "high-protein"
)

// MealCategories lists every valid category in display order.
var MealCategories = []MealCategory{
	CategoryHealthySalad,
	CategoryLowCalorie,
	CategoryHighProtein,
}

// Valid reports whether c is one of MealCategories.
func (c MealCategory) Valid() bool {
	for _, known := range MealCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Meal is a catalog entry. Meals are independent of users.
type Meal struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Calories float64      `json:"calories"`
	Protein  float64      `json:"protein"`
	Fat      float64      `json:"fat"`
	Category MealCategory `json:"category"`
}
