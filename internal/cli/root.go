package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/fatih/color"

	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/service"
)

// Context is handed to every command's Run method by kong.
type Context struct {
	Ctx      context.Context
	Services *service.Service
	Repos    *repository.Repository
	Out      io.Writer
	Now      func() time.Time
	// Rand returns a value in [0, 1).
	Rand func() float64
}

var (
	okf   = color.New(color.FgGreen).SprintfFunc()
	warnf = color.New(color.FgYellow).SprintfFunc()
	errf  = color.New(color.FgRed).SprintfFunc()
	dimf  = color.New(color.FgCyan).SprintfFunc()
)

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func describeTarget(t models.EffectiveTarget) string {
	if t.Source == models.SourceSchema && t.SchemaID != nil {
		return fmt.Sprintf("%.1f°C (schema #%d, %s)", t.Temperature, *t.SchemaID, t.Mode)
	}
	return fmt.Sprintf("%.1f°C (default)", t.Temperature)
}

func describeState(p *models.PowerState) string {
	switch {
	case p == nil:
		return warnf("UNKNOWN")
	case *p == models.PowerOn:
		return errf("ON")
	default:
		return okf("OFF")
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
