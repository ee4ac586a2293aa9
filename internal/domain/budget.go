package domain

// CategorySplit holds per-category budget figures. Depending on context the
// values are fractions of the total (summing to 1.0) or absolute amounts.
type CategorySplit struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Transportation float64 `json:"transportation"`
}

// Sum returns the total across all four categories.
func (s CategorySplit) Sum() float64 {
	return s.Accommodation + s.Food + s.Activities + s.Transportation
}

// Scale multiplies every category by f.
func (s CategorySplit) Scale(f float64) CategorySplit {
	return CategorySplit{
		Accommodation:  s.Accommodation * f,
		Food:           s.Food * f,
		Activities:     s.Activities * f,
		Transportation: s.Transportation * f,
	}
}

// BudgetAllocation is the computed per-category spend targets for a trip.
type BudgetAllocation struct {
	Total            float64       `json:"total"`
	Daily            float64       `json:"daily"`
	PerPerson        float64       `json:"per_person"`
	Percentages      CategorySplit `json:"percentages"`
	Amounts          CategorySplit `json:"amounts"`
	PotentialSavings float64       `json:"potential_savings"`
}

// SavingsSuggestion is a category-level cost reduction proposed when actual
// spend exceeds the target budget.
type SavingsSuggestion struct {
	Category   string  `json:"category"`
	Suggestion string  `json:"suggestion"`
	Savings    float64 `json:"savings"`
}

// SavingsReport aggregates savings suggestions against the current cost.
type SavingsReport struct {
	CurrentCost   float64             `json:"current_cost"`
	TargetBudget  float64             `json:"target_budget"`
	TotalSavings  float64             `json:"total_savings"`
	AdjustedCost  float64             `json:"adjusted_cost"`
	Suggestions   []SavingsSuggestion `json:"suggestions,omitempty"`
}
