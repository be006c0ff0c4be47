package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bioPlan = `
courses:
  - name: Bio
    exam_date: "2025-01-10"
    topics:
      - name: Cells
        performance: 40
        last_studied: "2024-12-01"
        retention_rate: 0.6
        completed: false
      - name: Genetics
        performance: 85
        last_studied: "2024-12-15"
        retention_rate: 1
        completed: true
  - name: Chem
    exam_date: "2025-02-01"
    topics: []
`

func TestParse(t *testing.T) {
	courses, err := Parse(strings.NewReader(bioPlan))
	require.NoError(t, err)
	require.Len(t, courses, 2)

	bio := courses[0]
	assert.Equal(t, "Bio", bio.Name)
	assert.Equal(t, domain.MustParseDate("2025-01-10"), bio.ExamDate)
	require.Len(t, bio.Topics, 2)
	assert.Equal(t, domain.Topic{
		Name:          "Cells",
		Performance:   40,
		LastStudied:   domain.MustParseDate("2024-12-01"),
		RetentionRate: 0.6,
	}, bio.Topics[0])
	assert.True(t, bio.Topics[1].Completed)
	assert.Equal(t, 1.0, bio.Topics[1].RetentionRate)

	assert.Equal(t, "Chem", courses[1].Name)
	assert.Empty(t, courses[1].Topics)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		dateError   bool
		errContains string
	}{
		{
			name: "malformed exam date",
			input: `
courses:
  - name: Bio
    exam_date: "10/01/2025"
    topics: []
`,
			dateError:   true,
			errContains: `course "Bio": exam_date`,
		},
		{
			name: "malformed last studied",
			input: `
courses:
  - name: Bio
    exam_date: "2025-01-10"
    topics:
      - name: Cells
        performance: 40
        last_studied: "yesterday"
        retention_rate: 0.5
`,
			dateError:   true,
			errContains: `course "Bio" topic "Cells": last_studied`,
		},
		{
			name: "missing exam date",
			input: `
courses:
  - name: Bio
    topics: []
`,
			dateError:   true,
			errContains: "exam_date",
		},
		{
			name: "performance out of range",
			input: `
courses:
  - name: Bio
    exam_date: "2025-01-10"
    topics:
      - name: Cells
        performance: 140
        last_studied: "2024-12-01"
        retention_rate: 0.5
`,
			errContains: "invalid course plan",
		},
		{
			name: "duplicate course",
			input: `
courses:
  - name: Bio
    exam_date: "2025-01-10"
  - name: Bio
    exam_date: "2025-01-12"
`,
			errContains: "invalid course plan",
		},
		{
			name:        "not yaml",
			input:       "courses: [unterminated",
			errContains: "parsing course plan",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
			assert.Equal(t, tc.dateError, errors.Is(err, domain.ErrInvalidDate))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	courses, err := Parse(strings.NewReader("courses: []\n"))
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bioPlan), 0o644))

	courses, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
