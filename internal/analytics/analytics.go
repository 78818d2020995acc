// Package analytics derives completion scores from habits and logs.
// Everything here is pure and never fails.
package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/levelup/internal/models"
	"github.com/julianstephens/levelup/internal/utils"
)

// DayScore is the completion percentage of one window day.
type DayScore struct {
	Date      time.Time `json:"-"`
	Key       string    `json:"date"`
	Completed int       `json:"completed"`
	Score     int       `json:"score"`
	Weekend   bool      `json:"weekend"`
}

type Summary struct {
	Today        int `json:"today"`
	Average      int `json:"average"`
	ActiveHabits int `json:"active_habits"`
	TotalChecks  int `json:"total_checks"`
}

// HabitStat is the window performance of a single habit.
type HabitStat struct {
	HabitID       string  `json:"habit_id"`
	Name          string  `json:"name"`
	Checks        int     `json:"checks"`
	Rate          float64 `json:"rate"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
}

// roundHalfUp rounds to the nearest integer with .5 going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// DailyScores returns one score per window day, in window order. Completed
// counts every log on the day, so orphaned logs still count.
func DailyScores(habits []models.Habit, logs []models.LogEntry, window []time.Time) []DayScore {
	perDay := make(map[string]int, len(window))
	for _, l := range logs {
		perDay[l.Date]++
	}

	scores := make([]DayScore, 0, len(window))
	for _, day := range window {
		key := utils.FormatKey(day)
		ds := DayScore{
			Date:      day,
			Key:       key,
			Completed: perDay[key],
			Weekend:   utils.IsWeekend(day),
		}
		if len(habits) > 0 {
			ds.Score = roundHalfUp(100 * float64(ds.Completed) / float64(len(habits)))
		}
		scores = append(scores, ds)
	}
	return scores
}

func Summarize(scores []DayScore, habits []models.Habit, logs []models.LogEntry) Summary {
	s := Summary{
		ActiveHabits: len(habits),
		TotalChecks:  len(logs),
	}
	if len(scores) == 0 {
		return s
	}

	s.Today = scores[len(scores)-1].Score
	total := 0
	for _, ds := range scores {
		total += ds.Score
	}
	s.Average = roundHalfUp(float64(total) / float64(len(scores)))
	return s
}

// HabitStats reports checks, rate and streaks for each habit over window.
// The current streak may end yesterday when today is not checked yet.
func HabitStats(habits []models.Habit, logs []models.LogEntry, window []time.Time) []HabitStat {
	done := make(map[string]bool, len(logs))
	for _, l := range logs {
		done[models.LogID(l.HabitID, l.Date)] = true
	}

	keys := make([]string, len(window))
	for i, day := range window {
		keys[i] = utils.FormatKey(day)
	}

	stats := make([]HabitStat, 0, len(habits))
	for _, h := range habits {
		st := HabitStat{HabitID: h.ID, Name: h.Name}

		run := 0
		for _, key := range keys {
			if done[models.LogID(h.ID, key)] {
				st.Checks++
				run++
				if run > st.LongestStreak {
					st.LongestStreak = run
				}
			} else {
				run = 0
			}
		}

		end := len(keys) - 1
		if end >= 0 && !done[models.LogID(h.ID, keys[end])] {
			end--
		}
		for i := end; i >= 0 && done[models.LogID(h.ID, keys[i])]; i-- {
			st.CurrentStreak++
		}

		if len(keys) > 0 {
			st.Rate = float64(st.Checks) / float64(len(keys))
		}
		stats = append(stats, st)
	}
	return stats
}
