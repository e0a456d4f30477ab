package table

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type sample struct {
	id    int
	label string
	note  *string
}

func sampleColumns(noteOptional bool) []Column[sample] {
	return []Column[sample]{
		{Field: "Id", Header: "ID", Value: func(s sample) (string, bool) { return strconv.Itoa(s.id), true }},
		{Field: "Label", Header: "LABEL", Value: func(s sample) (string, bool) { return s.label, true }},
		{Field: "Note", Header: "NOTE", Optional: noteOptional, Value: func(s sample) (string, bool) {
			if s.note == nil {
				return "", false
			}
			return *s.note, true
		}},
	}
}

func TestProject_PreservesOrderAndRendersAbsentAsEmpty(t *testing.T) {
	t.Parallel()

	note := "checked"
	records := []sample{
		{id: 2, label: "b", note: &note},
		{id: 1, label: "a"},
		{id: 2, label: "b", note: &note},
	}

	got, err := Project("Samples", sampleColumns(true), records)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	want := Table{
		Name:   "Samples",
		Header: []string{"ID", "LABEL", "NOTE"},
		Rows: [][]string{
			{"2", "b", "checked"},
			{"1", "a", ""},
			{"2", "b", "checked"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestProject_EmptyRecordsYieldHeaderOnly(t *testing.T) {
	t.Parallel()

	got, err := Project[sample]("Samples", sampleColumns(true), nil)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected no rows, got %d", got.Len())
	}
	if diff := cmp.Diff([]string{"ID", "LABEL", "NOTE"}, got.Header); diff != "" {
		t.Fatalf("unexpected header (-want +got):\n%s", diff)
	}
}

func TestProject_MissingRequiredValue(t *testing.T) {
	t.Parallel()

	_, err := Project("Samples", sampleColumns(false), []sample{{id: 7, label: "x"}})
	if !errors.Is(err, ErrMissingValue) {
		t.Fatalf("expected ErrMissingValue, got %v", err)
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"Id", "Label", "Note"}, Fields(sampleColumns(true))); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
}
