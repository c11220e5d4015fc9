// Package schedule holds the fixed 12-week reading program.
package schedule

import (
	"strconv"
	"strings"
)

// DaysPerWeek is the number of readings in each week, Monday through Friday.
const DaysPerWeek = 5

// Weekdays names the reading days in order.
var Weekdays = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Week is one week of readings.
type Week struct {
	Name     string   `json:"name"`
	Readings []string `json:"readings"`
}

var weeks = []Week{
	{"Week 1", []string{"Genesis 1-10", "Genesis 11-20", "Genesis 21-30", "Genesis 31-40", "Genesis 41-50"}},
	{"Week 2", []string{"Exodus 1-5", "Exodus 6-10", "Exodus 11-15", "Exodus 16-20", "Exodus 32-34"}},
	{"Week 3", []string{"Numbers 11-14", "Numbers 16-17", "Numbers 20-25", "Deuteronomy 1-3", "Deuteronomy 29-34"}},
	{"Week 4", []string{"Joshua 1-3", "Joshua 4-6", "Joshua 7-9", "Joshua 10-11", "Joshua 23-24"}},
	{"Week 5", []string{"Judges 1-5", "Judges 6-10", "Judges 11-15", "Judges 16-21", "Ruth 1-4"}},
	{"Week 6", []string{"1 Samuel 1-6", "1 Samuel 7-12", "1 Samuel 13-18", "1 Samuel 19-24", "1 Samuel 25-31"}},
	{"Week 7", []string{"2 Samuel 1-5", "2 Samuel 6-10", "2 Samuel 11-15", "2 Samuel 16-20", "2 Samuel 21-24"}},
	{"Week 8", []string{"1 Kings 1-5", "1 Kings 6-10", "1 Kings 11-15", "1 Kings 16-20", "1 Kings 21-22"}},
	{"Week 9", []string{"2 Kings 1-5", "2 Kings 6-10", "2 Kings 11-15", "2 Kings 16-20", "2 Kings 21-25"}},
	{"Week 10", []string{"Ezra 1-5", "Ezra 6-10", "Nehemiah 1-6", "Nehemiah 7-13", "Esther 1-10"}},
	{"Week 11", []string{"Matthew 1-6", "Matthew 7-12", "Matthew 13-18", "Matthew 19-24", "Matthew 25-28"}},
	{"Week 12", []string{"Acts 1-5", "Acts 6-10", "Acts 11-16", "Acts 17-22", "Acts 23-28"}},
}

// Weeks returns every week in order. The result is a copy.
func Weeks() []Week {
	out := make([]Week, len(weeks))
	for i, w := range weeks {
		out[i] = Week{Name: w.Name, Readings: append([]string(nil), w.Readings...)}
	}
	return out
}

// Names returns the week names in order.
func Names() []string {
	names := make([]string, len(weeks))
	for i, w := range weeks {
		names[i] = w.Name
	}
	return names
}

// Days returns the readings for a week, or nil for an unknown week.
// The week may be given by name ("Week 3") or number ("3").
func Days(week string) []string {
	w, ok := Lookup(week)
	if !ok {
		return nil
	}
	return w.Readings
}

// Lookup finds a week by name or number.
func Lookup(week string) (Week, bool) {
	week = strings.TrimSpace(week)
	if n, err := strconv.Atoi(week); err == nil {
		week = "Week " + strconv.Itoa(n)
	}
	for _, w := range weeks {
		if strings.EqualFold(w.Name, week) {
			return Week{Name: w.Name, Readings: append([]string(nil), w.Readings...)}, true
		}
	}
	return Week{}, false
}
