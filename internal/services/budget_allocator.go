package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// Flat optimization-opportunity hint reported with every allocation.
const potentialSavingsRatio = 0.15

// styleSplits is the fixed percentage table keyed by travel style.
// Every row sums to 1.0.
var styleSplits = map[domain.TravelStyle]domain.CategorySplit{
	domain.StyleLuxury:      {Accommodation: 0.50, Food: 0.25, Activities: 0.20, Transportation: 0.05},
	domain.StyleComfortable: {Accommodation: 0.40, Food: 0.30, Activities: 0.25, Transportation: 0.05},
	domain.StyleBudget:      {Accommodation: 0.30, Food: 0.30, Activities: 0.30, Transportation: 0.10},
	domain.StyleBackpacker:  {Accommodation: 0.20, Food: 0.30, Activities: 0.40, Transportation: 0.10},
}

const savingsSchemaHint = `[{"category":"accommodation|food|activities|transportation","suggestion":"string","savings":0.0}]`

// BudgetAllocator computes category budget splits by travel style and, when
// spend exceeds the target, asks the text-generation collaborator for
// category-level savings suggestions.
type BudgetAllocator struct {
	gen     ports.TextGenerator
	timeout time.Duration
	log     zerolog.Logger
}

func NewBudgetAllocator(gen ports.TextGenerator, timeout time.Duration, log zerolog.Logger) *BudgetAllocator {
	return &BudgetAllocator{
		gen:     gen,
		timeout: timeout,
		log:     log.With().Str("component", "budget_allocator").Logger(),
	}
}

// Allocate derives total/daily/per-person figures and the fixed ratio table
// for the itinerary's travel style. Unknown styles use the comfortable split.
func (b *BudgetAllocator) Allocate(itin domain.Itinerary) (domain.BudgetAllocation, error) {
	if itin.Budget <= 0 {
		return domain.BudgetAllocation{}, errors.New("allocate budget: budget must be positive")
	}
	if itin.DurationDays < 1 {
		return domain.BudgetAllocation{}, errors.New("allocate budget: duration must be at least 1 day")
	}
	travelers := itin.Travelers
	if travelers < 1 {
		travelers = 1
	}

	split, ok := styleSplits[itin.TravelStyle]
	if !ok {
		split = styleSplits[domain.StyleComfortable]
	}

	return domain.BudgetAllocation{
		Total:            itin.Budget,
		Daily:            itin.Budget / float64(itin.DurationDays),
		PerPerson:        itin.Budget / float64(travelers),
		Percentages:      split,
		Amounts:          split.Scale(itin.Budget),
		PotentialSavings: potentialSavingsRatio * itin.Budget,
	}, nil
}

// SuggestSavings asks the collaborator for category-level reductions when the
// computed itinerary cost exceeds the target budget. On failure it reports
// zero savings with the unmodified cost.
func (b *BudgetAllocator) SuggestSavings(ctx context.Context, itin domain.Itinerary) domain.SavingsReport {
	cost := itin.TotalCost()
	report := domain.SavingsReport{
		CurrentCost:  cost,
		TargetBudget: itin.Budget,
		AdjustedCost: cost,
	}

	prompt := fmt.Sprintf("A trip to %s is costing %.2f against a budget of %.2f. "+
		"Suggest per-category savings (accommodation, food, activities, transportation). Reply with JSON only.",
		itin.Destination, cost, itin.Budget)

	suggestions := Attempt(ctx, "savings suggestions", b.timeout, func(ctx context.Context) ([]domain.SavingsSuggestion, error) {
		raw, err := b.gen.Complete(ctx, prompt, savingsSchemaHint)
		if err != nil {
			return nil, fmt.Errorf("complete savings prompt: %w", err)
		}
		var out []domain.SavingsSuggestion
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("parse savings response: %w", err)
		}
		return out, nil
	}).OrElseFunc(func(serr *ServiceError) []domain.SavingsSuggestion {
		b.log.Warn().Err(serr).Msg("savings suggestion failed, reporting zero savings")
		return nil
	})

	for _, s := range suggestions {
		if s.Savings <= 0 {
			continue
		}
		report.Suggestions = append(report.Suggestions, s)
		report.TotalSavings += s.Savings
	}
	report.AdjustedCost = cost - report.TotalSavings

	return report
}
