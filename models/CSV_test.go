package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVRows(t *testing.T) {
	t.Run("Should map cells by header and drop empty ones", func(t *testing.T) {
		in := "School,Program,Status,PS\nMIT,CS,Draft,https://docs/ps\nUCLA,MEng,,\n"

		items, err := ReadCSVRows(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, map[string]any{"school": "MIT", "program": "CS", "status": "Draft", "ps": "https://docs/ps"}, items[0])
		assert.Equal(t, map[string]any{"school": "UCLA", "program": "MEng"}, items[1])
	})

	t.Run("Should feed the validator", func(t *testing.T) {
		items, err := ReadCSVRows(strings.NewReader("school,program\nMIT,\nUCLA,MEng\n"))
		require.NoError(t, err)

		_, err = ValidateRows(items)

		var invalid *InvalidRowsError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, []any{map[string]any{"school": "MIT"}}, invalid.Rows)
	})

	t.Run("Should tolerate short and long records", func(t *testing.T) {
		items, err := ReadCSVRows(strings.NewReader("school,program\nMIT\nUCLA,MEng,extra\n"))

		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"school": "MIT"},
			map[string]any{"school": "UCLA", "program": "MEng"},
		}, items)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		_, err := ReadCSVRows(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyCSV)
	})
}
