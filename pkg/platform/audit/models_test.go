package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionCategories(t *testing.T) {
	assert.Equal(t, CategoryCompliance, ActionSubmissionValidated.Category())
	assert.Equal(t, CategoryCompliance, ActionDriverFlagged.Category())
	assert.Equal(t, CategoryOperations, ActionReportStored.Category())
}

func TestUnknownActionDefaultsToOperations(t *testing.T) {
	assert.Equal(t, CategoryOperations, Action("made_up").Category())
}
