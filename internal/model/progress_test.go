package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := map[float64]ProgressStatus{
		0:     StatusNotStarted,
		0.01:  StatusInProgress,
		1:     StatusInProgress,
		50:    StatusInProgress,
		99:    StatusInProgress,
		99.99: StatusInProgress,
		100:   StatusCompleted,
	}
	for pct, want := range cases {
		assert.Equal(t, want, DeriveStatus(pct), "percentage %v", pct)
	}
}

func TestQuestionOptionIndex(t *testing.T) {
	q := Question{Options: []string{"Red", "Green", "Blue"}}
	assert.Equal(t, 1, q.OptionIndex("Green"))
	assert.Equal(t, -1, q.OptionIndex("green"))
}
