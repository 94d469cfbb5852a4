package service

import (
	"sort"
	"time"

	"github.com/sakif/fitness-tracker/internal/model"
)

// MultipleActivities names a day that has more than one exercise.
const MultipleActivities = "Multiple activities"

// AggregateByDay groups exercises by the UTC calendar date of their
// timestamp. Each group sums calories, duration, steps and distance, keeps
// the first exercise's timestamp as its own, and lists its exercises in
// input order. Groups are returned newest first; ties keep input order.
func AggregateByDay(exercises []model.Exercise) []model.DayAggregate {
	days := []model.DayAggregate{}
	index := make(map[string]int)

	for _, ex := range exercises {
		key := ex.DateTime.UTC().Format(time.DateOnly)

		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, model.DayAggregate{
				DateTime:   ex.DateTime.UTC(),
				Activities: []model.Exercise{},
			})
		}

		day := &days[i]
		day.Calories += ex.Calories
		day.Duration += ex.Duration
		day.Steps += ex.Steps
		day.Distance += ex.Distance
		day.Activities = append(day.Activities, ex)
	}

	for i := range days {
		if len(days[i].Activities) == 1 {
			days[i].Name = days[i].Activities[0].Name
		} else {
			days[i].Name = MultipleActivities
		}
	}

	sort.SliceStable(days, func(a, b int) bool {
		return days[a].DateTime.After(days[b].DateTime)
	})
	return days
}
