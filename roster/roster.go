package roster

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"

	"rollcall-roster/models"
)

const (
	MinAverage = 1.0
	MaxAverage = 10.0

	// KeepAverage passed to EditAt leaves the current average in place.
	KeepAverage = -1.0
)

var (
	ErrInvalidAverage  = errors.New("average must be between 1 and 10")
	ErrInvalidPosition = errors.New("invalid position")
	ErrEmpty           = errors.New("roster is empty")
)

// Roster is the ordered, mutable list of students owned by a session.
// Positions are 0-based and only meaningful against the current length.
type Roster struct {
	students []models.Student
}

// New creates an empty roster
func New() *Roster {
	return &Roster{}
}

// ValidAverage reports whether a lies within [MinAverage, MaxAverage].
// NaN fails both comparisons and is therefore rejected.
func ValidAverage(a float64) bool {
	return a >= MinAverage && a <= MaxAverage
}

// ParseAverage converts user or file text into an average. Surrounding
// whitespace is ignored. Range is not checked here.
func ParseAverage(text string) (float64, error) {
	a, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAverage, text)
	}
	return a, nil
}

// FormatAverage renders an average in the shortest form that parses back
// to the same value.
func FormatAverage(a float64) string {
	return strconv.FormatFloat(a, 'g', -1, 64)
}

// Len returns the number of students
func (r *Roster) Len() int {
	return len(r.students)
}

// IsEmpty reports whether the roster has no students
func (r *Roster) IsEmpty() bool {
	return len(r.students) == 0
}

// Add appends a student. Out-of-range averages are rejected and the
// roster is left unchanged.
func (r *Roster) Add(name string, average float64) error {
	if !ValidAverage(average) {
		return ErrInvalidAverage
	}
	r.students = append(r.students, models.Student{Name: name, Average: average})
	return nil
}

// AddText parses averageText and adds the student. A parse failure is
// a rejection like an out-of-range value.
func (r *Roster) AddText(name, averageText string) error {
	a, err := ParseAverage(averageText)
	if err != nil {
		return err
	}
	return r.Add(name, a)
}

// List returns a copy of the students in current order
func (r *Roster) List() []models.Student {
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out
}

// All yields each student with its current position.
func (r *Roster) All() iter.Seq2[int, models.Student] {
	return func(yield func(int, models.Student) bool) {
		for i, s := range r.students {
			if !yield(i, s) {
				return
			}
		}
	}
}

// SortDescending orders students by average, highest first. Students with
// equal averages keep their relative order.
func (r *Roster) SortDescending() {
	sort.SliceStable(r.students, func(i, j int) bool {
		return r.students[i].Average > r.students[j].Average
	})
}

func (r *Roster) checkPosition(pos int) error {
	if pos < 0 || pos >= len(r.students) {
		return fmt.Errorf("%w: %d (roster has %d students)", ErrInvalidPosition, pos, len(r.students))
	}
	return nil
}

// EditAt updates the student at pos and returns it as stored afterwards.
//
// A non-empty newName always replaces the name. newAverage equal to
// KeepAverage leaves the average alone; any other out-of-range value also
// leaves it alone but ErrInvalidAverage is returned. The two fields are
// applied independently, so a name change survives an invalid average.
func (r *Roster) EditAt(pos int, newName string, newAverage float64) (models.Student, error) {
	if err := r.checkPosition(pos); err != nil {
		return models.Student{}, err
	}
	s := &r.students[pos]
	if newName != "" {
		s.Name = newName
	}
	if newAverage == KeepAverage {
		return *s, nil
	}
	if !ValidAverage(newAverage) {
		return *s, ErrInvalidAverage
	}
	s.Average = newAverage
	return *s, nil
}

// RemoveAt deletes the student at pos and returns it. Later positions
// shift down by one.
func (r *Roster) RemoveAt(pos int) (models.Student, error) {
	if err := r.checkPosition(pos); err != nil {
		return models.Student{}, err
	}
	removed := r.students[pos]
	r.students = append(r.students[:pos], r.students[pos+1:]...)
	return removed, nil
}

// Matches yields students whose name contains substr. Matching is
// case-sensitive.
func (r *Roster) Matches(substr string) iter.Seq[models.Student] {
	return func(yield func(models.Student) bool) {
		for _, s := range r.students {
			if strings.Contains(s.Name, substr) && !yield(s) {
				return
			}
		}
	}
}

// Search collects Matches. An empty roster returns ErrEmpty; a non-empty
// roster without matches returns nil and no error.
func (r *Roster) Search(substr string) ([]models.Student, error) {
	if r.IsEmpty() {
		return nil, ErrEmpty
	}
	var found []models.Student
	for s := range r.Matches(substr) {
		found = append(found, s)
	}
	return found, nil
}

// Replace swaps in a new set of students, dropping any that violate the
// average bound. It returns how many were kept.
func (r *Roster) Replace(students []models.Student) int {
	kept := make([]models.Student, 0, len(students))
	for _, s := range students {
		if ValidAverage(s.Average) {
			kept = append(kept, s)
		}
	}
	r.students = kept
	return len(kept)
}
