// pkg/ui/console_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory streams
// PURPOSE: Test confirmation prompt semantics (default is decline)

package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrizaln/relinka/pkg/types"
	"github.com/mrizaln/relinka/pkg/ui"
)

func samplePlan() *types.RelinkPlan {
	return &types.RelinkPlan{
		Source:      "/home/user/file.txt",
		Destination: "/home/user/file2.txt",
		Rewrites: []types.LinkRewrite{
			{LinkPath: "/home/user/file.link", OldTarget: "file.txt", NewTarget: "file2.txt"},
		},
	}
}

func TestConfirmPlan_Answers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes_word", input: "yes\n", want: true},
		{name: "yes_upper", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty_declines", input: "\n", want: false},
		{name: "eof_declines", input: "", want: false},
		{name: "garbage_declines", input: "sure why not\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			dialog := ui.NewDialog(strings.NewReader(tt.input), &out)

			got, err := dialog.ConfirmPlan(samplePlan())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmPlan_ShowsPlan(t *testing.T) {
	var out bytes.Buffer
	dialog := ui.NewDialog(strings.NewReader("n\n"), &out)

	_, err := dialog.ConfirmPlan(samplePlan())
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "/home/user/file.txt")
	assert.Contains(t, rendered, "/home/user/file2.txt")
	assert.Contains(t, rendered, "/home/user/file.link")
	assert.Contains(t, rendered, "Proceed? (y/N):")
}

func TestConfirmPlan_NoRewrites(t *testing.T) {
	var out bytes.Buffer
	dialog := ui.NewDialog(strings.NewReader("y\n"), &out)

	plan := &types.RelinkPlan{Source: "/a", Destination: "/b"}
	got, err := dialog.ConfirmPlan(plan)
	require.NoError(t, err)

	assert.True(t, got)
	assert.Contains(t, out.String(), "No links to fix")
}
