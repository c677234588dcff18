package utils

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountNaN(t *testing.T) {
	assert.Equal(t, 0, CountNaN(nil))
	assert.Equal(t, 0, CountNaN([][]float64{{0, 1, 2}, {3, 4, 5}}))
	nan := math.NaN()
	assert.Equal(t, 2, CountNaN([][]float64{{nan, 1}, {0, 0}, {1, nan}}))
}

func TestGetMemUsage(t *testing.T) {
	assert.Contains(t, GetMemUsage(), "Alloc = ")
}

func TestNotepadVerbosity(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotepad(&buf, false)
	n.INFO.Println("hidden")
	n.WARN.Println("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
