package cli

import (
	"errors"
	"fmt"
	"time"

	"office_climate/internal/models"
)

// SeedCmd replaces the recent history with random readings around two reference temperatures.
type SeedCmd struct {
	Office  float64       `required:"" help:"Reference indoor temperature (°C)."`
	Weather float64       `required:"" help:"Reference outdoor temperature (°C)."`
	Hours   int           `default:"24" help:"How many hours back to wipe and fill."`
	Step    time.Duration `default:"10m" help:"Spacing between generated readings."`
}

// spread is the relative deviation of generated values from the reference.
const spread = 0.1

func (c *SeedCmd) Validate() error {
	if c.Hours <= 0 {
		return errors.New("--hours must be positive")
	}
	if c.Step <= 0 {
		return errors.New("--step must be positive")
	}
	return nil
}

func (c *SeedCmd) Run(ctx *Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	now := ctx.now().UTC()
	since := now.Add(-time.Duration(c.Hours) * time.Hour)

	wipedOffice, err := ctx.Repos.Readings.DeleteSince(ctx.Ctx, since)
	if err != nil {
		return fmt.Errorf("wipe readings: %w", err)
	}
	wipedWeather, err := ctx.Repos.Weather.DeleteObservationsSince(ctx.Ctx, since)
	if err != nil {
		return fmt.Errorf("wipe weather log: %w", err)
	}

	count := 0
	for ts := since; !ts.After(now); ts = ts.Add(c.Step) {
		office := models.Reading{Timestamp: ts, Temperature: c.jitter(ctx, c.Office)}
		if err := ctx.Repos.Readings.Append(ctx.Ctx, office); err != nil {
			return fmt.Errorf("insert reading at %s: %w", ts.Format(time.RFC3339), err)
		}
		outdoor := models.WeatherObservation{Timestamp: ts, Temperature: c.jitter(ctx, c.Weather)}
		if err := ctx.Repos.Weather.AppendObservation(ctx.Ctx, outdoor); err != nil {
			return fmt.Errorf("insert weather observation at %s: %w", ts.Format(time.RFC3339), err)
		}
		count++
	}

	ctx.printf("Wiped %d office and %d weather readings from the last %d hours.\n", wipedOffice, wipedWeather, c.Hours)
	ctx.printf("%s\n", okf("Inserted %d office and %d weather readings.", count, count))
	return nil
}

func (c *SeedCmd) jitter(ctx *Context, ref float64) float64 {
	r := 0.5
	if ctx.Rand != nil {
		r = ctx.Rand()
	}
	lo, hi := ref*(1-spread), ref*(1+spread)
	return round1(lo + r*(hi-lo))
}
