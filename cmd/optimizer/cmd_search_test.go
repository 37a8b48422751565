package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioOptimizer/internal/finance"
)

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"C", "GS", "IBM"}, splitSymbols([]string{"C GS", " IBM "}))
	assert.Empty(t, splitSymbols(nil))
}

func TestSearchCommand_RejectsBadFlags(t *testing.T) {
	cases := [][]string{
		{"search", "--format", "xml"},
		{"search", "--start", "2010/01/01"},
		{"search", "--end", "yesterday"},
	}
	for _, args := range cases {
		root := newRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.Execute()
		require.Error(t, err, "%v", args)
		assert.False(t, finance.IsSearchFailure(err))
	}
}

func TestSearchFailureIsDistinguished(t *testing.T) {
	assert.True(t, finance.IsSearchFailure(fmt.Errorf("run: %w", finance.ErrDegenerateSeries)))
	assert.False(t, finance.IsSearchFailure(fmt.Errorf("open db: permission denied")))
}
