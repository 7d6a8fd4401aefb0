// Package console runs the interactive student manager menu over
// line-oriented input.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"rollcall-roster/models"
	"rollcall-roster/roster"
)

const menuText = `1. Add student
2. Display all students
3. Sort by average
4. Edit student
5. Delete student
6. Search student
7. Save to file
8. Load from file
0. Exit
`

// Menu drives a Roster from user input. It owns the roster for the
// lifetime of the session.
type Menu struct {
	roster *roster.Roster
	store  roster.Store
	in     *bufio.Reader
	inErr  error
	out    io.Writer
	title  lipgloss.Style
}

// NewMenu creates a menu reading commands from in and writing to out.
// store backs the save and load options.
func NewMenu(r *roster.Roster, store roster.Store, in io.Reader, out io.Writer) *Menu {
	renderer := lipgloss.NewRenderer(out)
	return &Menu{
		roster: r,
		store:  store,
		in:     bufio.NewReader(in),
		out:    out,
		title:  renderer.NewStyle().Bold(true),
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// readLine prompts and returns the next input line with any trailing
// "\r" removed. ok is false once input is exhausted.
func (m *Menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	line, err := roster.ReadLine(m.in)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			m.inErr = err
		}
		return "", false
	}
	return line, true
}

// Run shows the menu until the user picks 0 or input runs out.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf("\n%s\n%s", m.title.Render("=== STUDENT MANAGER MENU ==="), menuText)
		line, ok := m.readLine("Choose an option: ")
		if !ok {
			return m.inErr
		}
		option, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			option = -1
		}

		switch option {
		case 1:
			ok = m.add()
		case 2:
			m.displayAll()
		case 3:
			m.sort()
		case 4:
			ok = m.edit()
		case 5:
			ok = m.remove()
		case 6:
			ok = m.search()
		case 7:
			m.save(ctx)
		case 8:
			m.load(ctx)
		case 0:
			m.printf("Exiting program.\n")
			return nil
		default:
			m.printf("Invalid option. Try again.\n")
		}
		if !ok {
			return m.inErr
		}
	}
}

func (m *Menu) display(s models.Student) {
	m.printf("%s - Average: %s\n", s.Name, roster.FormatAverage(s.Average))
}

func (m *Menu) add() bool {
	m.printf("\n--- Add Student ---\n")
	name, ok := m.readLine("Student name: ")
	if !ok {
		return false
	}
	avg, ok := m.readLine("Average (1-10): ")
	if !ok {
		return false
	}
	if err := m.roster.AddText(name, avg); err != nil {
		m.printf("Invalid input. Average must be between 1 and 10.\n")
		return true
	}
	m.printf("Student added successfully!\n")
	return true
}

func (m *Menu) displayAll() {
	m.printf("\n--- Student List ---\n")
	if m.roster.IsEmpty() {
		m.printf("No students in the list.\n")
		return
	}
	for _, s := range m.roster.All() {
		m.display(s)
	}
}

func (m *Menu) sort() {
	switch m.roster.Len() {
	case 0:
		m.printf("No students to sort.\n")
		return
	case 1:
		m.printf("Only one student in the list.\n")
		m.displayAll()
		return
	}
	m.roster.SortDescending()
	m.printf("Students sorted by average (highest to lowest):\n")
	m.displayAll()
}

// readPosition lists the roster and asks for a position. valid is false
// when the input is not a usable number; bounds are left to the roster.
func (m *Menu) readPosition(verb string) (pos int, valid, ok bool) {
	m.displayAll()
	line, ok := m.readLine(fmt.Sprintf("Enter student position to %s (0-%d): ", verb, m.roster.Len()-1))
	if !ok {
		return 0, false, false
	}
	pos, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		m.printf("Invalid position.\n")
		return 0, false, true
	}
	return pos, true, true
}

func (m *Menu) edit() bool {
	if m.roster.IsEmpty() {
		m.printf("No students to edit.\n")
		return true
	}
	pos, valid, ok := m.readPosition("edit")
	if !ok || !valid {
		return ok
	}
	if pos < 0 || pos >= m.roster.Len() {
		m.printf("Invalid position.\n")
		return true
	}

	name, ok := m.readLine("New name (leave empty to keep current): ")
	if !ok {
		return false
	}
	avgText, ok := m.readLine("New average (enter -1 to keep current): ")
	if !ok {
		return false
	}

	newAvg := roster.KeepAverage
	if strings.TrimSpace(avgText) != "" {
		a, err := roster.ParseAverage(avgText)
		if err != nil {
			a = 0 // reported below as out of range
		}
		newAvg = a
	}

	updated, err := m.roster.EditAt(pos, name, newAvg)
	switch {
	case errors.Is(err, roster.ErrInvalidPosition):
		m.printf("Invalid position.\n")
		return true
	case errors.Is(err, roster.ErrInvalidAverage):
		m.printf("Average must be between 1 and 10. Keeping old value.\n")
	}
	m.printf("Student updated successfully!\n")
	m.display(updated)
	return true
}

func (m *Menu) remove() bool {
	if m.roster.IsEmpty() {
		m.printf("No students to delete.\n")
		return true
	}
	pos, valid, ok := m.readPosition("delete")
	if !ok || !valid {
		return ok
	}
	removed, err := m.roster.RemoveAt(pos)
	if err != nil {
		m.printf("Invalid position.\n")
		return true
	}
	m.printf("Deleting: ")
	m.display(removed)
	m.printf("Student deleted successfully!\n")
	return true
}

func (m *Menu) search() bool {
	if m.roster.IsEmpty() {
		m.printf("No students to search.\n")
		return true
	}
	query, ok := m.readLine("Enter name to search: ")
	if !ok {
		return false
	}
	found, err := m.roster.Search(query)
	if err != nil {
		m.printf("No students to search.\n")
		return true
	}
	if len(found) == 0 {
		m.printf("No students found containing: %s\n", query)
		return true
	}
	for _, s := range found {
		m.display(s)
	}
	return true
}

func (m *Menu) save(ctx context.Context) {
	n, err := m.roster.SaveTo(ctx, m.store)
	if err != nil {
		m.printf("Error opening file for writing.\n")
		return
	}
	m.printf("Saved %d students to %s.\n", n, m.store.Location())
}

func (m *Menu) load(ctx context.Context) {
	n, err := m.roster.LoadFrom(ctx, m.store)
	if err != nil {
		m.printf("Error opening file for reading.\n")
		return
	}
	m.printf("Loaded %d students from %s.\n", n, m.store.Location())
}
