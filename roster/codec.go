package roster

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"rollcall-roster/models"
)

// Store persists a roster snapshot somewhere (file, Redis, workbook).
type Store interface {
	Save(ctx context.Context, students []models.Student) error
	Load(ctx context.Context) ([]models.Student, error)
	// Location names the backing resource for user-facing messages.
	Location() string
}

// FormatLine renders a student as "name,average". Commas or newlines in
// the name are written as-is and will not read back correctly.
func FormatLine(s models.Student) string {
	return s.Name + "," + FormatAverage(s.Average)
}

// ParseLine is the inverse of FormatLine. It splits on the first comma and
// returns false for lines with no comma, a non-numeric average, or an
// average outside the allowed range.
func ParseLine(line string) (models.Student, bool) {
	name, rest, ok := strings.Cut(line, ",")
	if !ok {
		return models.Student{}, false
	}
	a, err := ParseAverage(rest)
	if err != nil || !ValidAverage(a) {
		return models.Student{}, false
	}
	return models.Student{Name: name, Average: a}, true
}

// WriteLines writes one FormatLine per student and returns the number
// written, or 0 on error.
func WriteLines(w io.Writer, students []models.Student) (int, error) {
	bw := bufio.NewWriter(w)
	for i, s := range students {
		if _, err := bw.WriteString(FormatLine(s) + "\n"); err != nil {
			return 0, fmt.Errorf("failed to write student %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush roster: %w", err)
	}
	return len(students), nil
}

// Serialize writes the roster in its line format
func (r *Roster) Serialize(w io.Writer) (int, error) {
	return WriteLines(w, r.students)
}

// ReadLine returns the next line from br without its "\n" or "\r\n"
// terminator. Lines have no length limit. A final line without a
// terminator is returned normally; io.EOF is returned once input is
// exhausted.
func ReadLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// ReadLines parses every well-formed line from rd, silently skipping the
// rest.
func ReadLines(rd io.Reader) ([]models.Student, error) {
	var out []models.Student
	br := bufio.NewReader(rd)
	for {
		line, err := ReadLine(br)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		if s, ok := ParseLine(line); ok {
			out = append(out, s)
		}
	}
}

// Deserialize replaces the roster with the students read from rd and
// returns how many were loaded. On a read error the roster is unchanged.
func (r *Roster) Deserialize(rd io.Reader) (int, error) {
	students, err := ReadLines(rd)
	if err != nil {
		return 0, err
	}
	return r.Replace(students), nil
}

// SaveTo writes the current roster to store
func (r *Roster) SaveTo(ctx context.Context, store Store) (int, error) {
	if err := store.Save(ctx, r.List()); err != nil {
		return 0, err
	}
	return r.Len(), nil
}

// LoadFrom replaces the roster with what store holds. If the store
// cannot be read the roster keeps its current contents.
func (r *Roster) LoadFrom(ctx context.Context, store Store) (int, error) {
	students, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return r.Replace(students), nil
}
