package app

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/los-clearance/internal/render"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	c, err := parseFlags(newFlagSet(), []string{"-db", "runs.sqlite", "-r", "3", "-o", "out/path", "-f", "JPG", "-view", "plan", "-theme", "thermal"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), c.RunID)
	assert.Equal(t, render.ImageJPEG, c.Format)
	assert.Equal(t, ViewPlan, c.View)
	assert.Equal(t, render.ThermalTheme, c.Theme)
	assert.Equal(t, map[View]string{ViewPlan: "out/path_plan.jpeg"}, c.OutputFiles())
}

func TestParseFlags_Defaults(t *testing.T) {
	c, err := parseFlags(newFlagSet(), []string{"-db", "runs.sqlite", "-u", "5d3c", "-o", "path"})
	require.NoError(t, err)

	assert.Equal(t, render.ImagePNG, c.Format)
	assert.Equal(t, map[View]string{
		ViewProfile: "path_profile.png",
		ViewPlan:    "path_plan.png",
	}, c.OutputFiles())
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := map[string][]string{
		"no db":     {"-r", "1", "-o", "x"},
		"no run":    {"-db", "runs.sqlite", "-o", "x"},
		"no output": {"-db", "runs.sqlite", "-r", "1"},
		"format":    {"-db", "runs.sqlite", "-r", "1", "-o", "x", "-f", "gif"},
		"view":      {"-db", "runs.sqlite", "-r", "1", "-o", "x", "-view", "side"},
		"theme":     {"-db", "runs.sqlite", "-r", "1", "-o", "x", "-theme", "neon"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(newFlagSet(), args)
			assert.Error(t, err)
		})
	}
}
