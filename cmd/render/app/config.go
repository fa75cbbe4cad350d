package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/roman-kulish/los-clearance/internal/render"
)

const (
	ViewProfile View = "profile"
	ViewPlan    View = "plan"
	ViewBoth    View = "both"
)

type View string

var validViews = map[View]struct{}{
	ViewProfile: {},
	ViewPlan:    {},
	ViewBoth:    {},
}

type Config struct {
	DBPath     string
	RunID      int64
	RunUUID    string
	OutputFile string
	Format     render.ImageFormat
	View       View
	Theme      render.ColorTheme
	Width      int
	Height     int
}

func NewConfig() *Config {
	return &Config{
		Format: render.ImagePNG,
		View:   ViewBoth,
	}
}

// NewConfigFromCLI parses the command line into a Config
func NewConfigFromCLI() (*Config, error) {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()

	var imageFormat, view, theme string
	fs.StringVar(&c.DBPath, "db", "", "Path to the database file")
	fs.Int64Var(&c.RunID, "r", 0, "Run ID")
	fs.StringVar(&c.RunUUID, "u", "", "Run UUID, used instead of the run ID")
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output file, without extension")
	fs.StringVar(&imageFormat, "f", string(render.ImagePNG), "Output image format. [png, jpeg]")
	fs.StringVar(&view, "view", string(ViewBoth), "Image to render. [profile, plan, both]")
	fs.StringVar(&theme, "theme", "", "Plan view color theme. [classic, grayscale, thermal, marine]")
	fs.IntVar(&c.Width, "w", 0, "Plot width in pixels")
	fs.IntVar(&c.Height, "h", 0, "Plot height in pixels")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	format, fErr := render.ParseImageFormat(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.RunID <= 0 && c.RunUUID == "" {
		err = errors.New("run id or uuid is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if fErr != nil {
		err = fErr
	} else if _, ok := validViews[View(strings.ToLower(view))]; !ok {
		err = fmt.Errorf("invalid view: %s", view)
	} else if !render.ValidTheme(render.ColorTheme(theme)) {
		err = fmt.Errorf("invalid color theme: %s", theme)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Format = format
	c.View = View(strings.ToLower(view))
	c.Theme = render.ColorTheme(theme)
	return c, nil
}

// OutputFiles returns the image file for each rendered view
func (c *Config) OutputFiles() map[View]string {
	files := make(map[View]string, 2)
	if c.View == ViewProfile || c.View == ViewBoth {
		files[ViewProfile] = fmt.Sprintf("%s_%s.%s", c.OutputFile, ViewProfile, c.Format)
	}
	if c.View == ViewPlan || c.View == ViewBoth {
		files[ViewPlan] = fmt.Sprintf("%s_%s.%s", c.OutputFile, ViewPlan, c.Format)
	}
	return files
}
