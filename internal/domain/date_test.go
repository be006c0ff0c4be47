package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2025-01-10"},
		{name: "leap day", input: "2024-02-29"},
		{name: "single digit month", input: "2025-1-10", wantErr: true},
		{name: "slashes", input: "2025/01/10", wantErr: true},
		{name: "impossible day", input: "2025-02-30", wantErr: true},
		{name: "trailing time", input: "2025-01-10T00:00:00Z", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, d.String())
		})
	}
}

func TestDaysUntil(t *testing.T) {
	today := MustParseDate("2024-12-20")

	assert.Equal(t, 21, today.DaysUntil(MustParseDate("2025-01-10")))
	assert.Equal(t, 0, today.DaysUntil(today))
	assert.Equal(t, -19, today.DaysUntil(MustParseDate("2024-12-01")))
	assert.Equal(t, MustParseDate("2025-01-10"), today.AddDays(21))
}

func TestDaysUntilAcrossDST(t *testing.T) {
	// Dates are UTC so a DST change in local time cannot shift the count.
	from := MustParseDate("2025-03-01")
	to := MustParseDate("2025-04-01")
	assert.Equal(t, 31, from.DaysUntil(to))
}

func TestDaysUntilFarApart(t *testing.T) {
	from := MustParseDate("2024-05-01")

	testCases := []struct {
		to       string
		expected int
	}{
		{to: "9999-12-31", expected: 2913052},
		{to: "1600-01-01", expected: -154984},
		{to: "0001-01-01", expected: -739006},
		{to: "2324-05-01", expected: 109572},
	}
	for _, tc := range testCases {
		t.Run(tc.to, func(t *testing.T) {
			to := MustParseDate(tc.to)
			assert.Equal(t, tc.expected, from.DaysUntil(to))
			assert.Equal(t, -tc.expected, to.DaysUntil(from))
			assert.Equal(t, to, from.AddDays(tc.expected))
		})
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Exam Date `json:"exam"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"exam":"2025-01-10"}`), &payload))
	assert.Equal(t, "2025-01-10", payload.Exam.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"exam":"2025-01-10"}`, string(out))

	err = json.Unmarshal([]byte(`{"exam":"10/01/2025"}`), &payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestValidateCourses(t *testing.T) {
	exam := MustParseDate("2025-01-10")
	valid := Topic{Name: "Cells", Performance: 40, LastStudied: MustParseDate("2024-12-01"), RetentionRate: 0.6}

	t.Run("valid", func(t *testing.T) {
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam, Topics: []Topic{valid}}})
		assert.NoError(t, err)
	})

	t.Run("missing exam date", func(t *testing.T) {
		err := ValidateCourses([]Course{{Name: "Bio", Topics: []Topic{valid}}})
		assert.ErrorContains(t, err, "ExamDate")
	})

	t.Run("missing last studied", func(t *testing.T) {
		bad := valid
		bad.LastStudied = Date{}
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam, Topics: []Topic{bad}}})
		assert.ErrorContains(t, err, "LastStudied")
	})

	t.Run("empty is valid", func(t *testing.T) {
		assert.NoError(t, ValidateCourses(nil))
	})

	t.Run("performance out of range", func(t *testing.T) {
		bad := valid
		bad.Performance = 101
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam, Topics: []Topic{bad}}})
		assert.Error(t, err)
	})

	t.Run("retention out of range", func(t *testing.T) {
		bad := valid
		bad.RetentionRate = 1.5
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam, Topics: []Topic{bad}}})
		assert.Error(t, err)
	})

	t.Run("duplicate course names", func(t *testing.T) {
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam}, {Name: "Bio", ExamDate: exam}})
		assert.Error(t, err)
	})

	t.Run("missing topic name", func(t *testing.T) {
		bad := valid
		bad.Name = ""
		err := ValidateCourses([]Course{{Name: "Bio", ExamDate: exam, Topics: []Topic{bad}}})
		assert.Error(t, err)
	})
}
