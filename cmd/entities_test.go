package cmd

import (
	"bytes"
	"p6export/p6"
	"strings"
	"testing"
)

func TestPrintEntities(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := printEntities(&buf, p6.Describe(), true); err != nil {
		t.Fatalf("print: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"/p6ws/services/ResourceHourService",
		"ReadResourceAssignmentPeriodActuals",
		"ResourceHours: OBJECT_ID, PROJECT_OBJECT_ID*, RESOURCE_OBJECT_ID",
		"Resources: OBJECT_ID, NAME, TIMESHEET_APPROVAL_MANAGER, USE_TIMESHEETS\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}
