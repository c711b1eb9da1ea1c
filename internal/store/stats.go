package store

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hakwonlab/homework-backend/internal/model"
)

// MonthRange returns the inclusive YYYY-MM-DD bounds of a calendar month.
// The upper bound is the month's true last day (time.Date normalizes day 0 of
// the following month), not a fixed day 31.
func MonthRange(year, month int) (start, end string) {
	start = fmt.Sprintf("%04d-%02d-01", year, month)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	end = last.Format("2006-01-02")
	return start, end
}

// CompletionRate is the weighted completion percentage, counting partial
// completion as half credit, rounded to the nearest integer.
func CompletionRate(done, partial, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * (float64(done) + 0.5*float64(partial)) / float64(total)))
}

// ClassStatsForMonth groups a month's records by the owning student's class
// and counts each status. Pure function: both backends must produce identical
// results from identical inputs. Records are processed in id order, so groups
// appear in first-matched order. Records whose student or class is missing
// from the lookup maps are skipped; classes with no matching records are
// omitted rather than reported as zeros.
func ClassStatsForMonth(
	records []model.HomeworkRecord,
	students map[int]model.Student,
	classes map[int]model.Class,
	year, month int,
) []model.ClassMonthlyStat {
	start, end := MonthRange(year, month)

	matched := filterByDate(records, start, end)
	byID := make(map[int]*model.ClassMonthlyStat)
	var order []int

	for _, rec := range matched {
		student, ok := students[rec.StudentID]
		if !ok {
			continue
		}
		class, ok := classes[student.ClassID]
		if !ok {
			continue
		}
		stat, ok := byID[class.ID]
		if !ok {
			stat = &model.ClassMonthlyStat{ClassID: class.ID, ClassName: class.Name}
			byID[class.ID] = stat
			order = append(order, class.ID)
		}
		tally(&stat.Total, &stat.Done, &stat.Partial, &stat.NotDone, &stat.Absent, rec.Status)
	}

	stats := make([]model.ClassMonthlyStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byID[id])
	}
	return stats
}

// StudentStatsForMonth groups a month's records by student, counts each
// status and derives the completion rate. The result is stable-sorted by
// completion rate ascending; ties keep first-matched order.
func StudentStatsForMonth(
	records []model.HomeworkRecord,
	students map[int]model.Student,
	classes map[int]model.Class,
	year, month int,
) []model.StudentMonthlyStat {
	start, end := MonthRange(year, month)

	matched := filterByDate(records, start, end)
	byID := make(map[int]*model.StudentMonthlyStat)
	var order []int

	for _, rec := range matched {
		student, ok := students[rec.StudentID]
		if !ok {
			continue
		}
		class, ok := classes[student.ClassID]
		if !ok {
			continue
		}
		stat, ok := byID[student.ID]
		if !ok {
			stat = &model.StudentMonthlyStat{
				StudentID:   student.ID,
				StudentName: student.Name,
				ClassName:   class.Name,
			}
			byID[student.ID] = stat
			order = append(order, student.ID)
		}
		tally(&stat.Total, &stat.Done, &stat.Partial, &stat.NotDone, &stat.Absent, rec.Status)
	}

	stats := make([]model.StudentMonthlyStat, 0, len(order))
	for _, id := range order {
		stat := byID[id]
		stat.CompletionRate = CompletionRate(stat.Done, stat.Partial, stat.Total)
		stats = append(stats, *stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CompletionRate < stats[j].CompletionRate
	})
	return stats
}

// filterByDate returns the records within [start, end], sorted by id so the
// grouping order above is deterministic regardless of input order.
func filterByDate(records []model.HomeworkRecord, start, end string) []model.HomeworkRecord {
	matched := make([]model.HomeworkRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date >= start && rec.Date <= end {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func tally(total, done, partial, notDone, absent *int, status model.HomeworkStatus) {
	*total++
	switch status {
	case model.StatusDone:
		*done++
	case model.StatusPartial:
		*partial++
	case model.StatusNotDone:
		*notDone++
	case model.StatusAbsent:
		*absent++
	}
}
