package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lhhunghimself/504-week7/internal/config"
)

func TestBuildMazeFlagPrecedence(t *testing.T) {
	cfg = config.Default()
	t.Cleanup(func() {
		cfg = nil
		mazeSizeFlag, seedFlag, gatesFlag, minimalFlag = 0, 0, 0, false
	})

	// Config recipe applies when no flags are set.
	m := buildMaze()
	assert.Equal(t, 5, m.Width)

	// Flags override the config.
	mazeSizeFlag = 7
	seedFlag = 9
	gatesFlag = 3
	m = buildMaze()
	assert.Equal(t, 7, m.Width)
	assert.Len(t, m.GateIDs(), 3)

	// --minimal wins over everything.
	minimalFlag = true
	m = buildMaze()
	assert.Equal(t, 3, m.Width)
}

func TestQuestionFileParsing(t *testing.T) {
	data := `
questions:
  - id: q-net-1
    question_text: "HTTPS listens on which port?"
    correct_answer: "443"
    category: networking
    hint: "One more than 442."
  - id: q-net-2
    question_text: "What does DNS resolve?"
    correct_answer: "names"
`
	var qf questionFile
	require.NoError(t, yaml.Unmarshal([]byte(data), &qf))
	require.Len(t, qf.Questions, 2)

	assert.Equal(t, "q-net-1", qf.Questions[0].ID)
	assert.Equal(t, "443", qf.Questions[0].Answer)
	assert.Equal(t, "One more than 442.", qf.Questions[0].Hint)
	assert.Empty(t, qf.Questions[1].Category)
}
