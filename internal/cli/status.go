package cli

import (
	"time"
)

type StatusCmd struct {
	At time.Time `help:"Evaluate the schedule at this instant (RFC3339) instead of now."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	at := c.At
	if at.IsZero() {
		at = ctx.now()
	}

	rec, err := ctx.Services.Recommend(ctx.Ctx, at)
	if err != nil {
		return err
	}

	ctx.printf("Target:  %s\n", describeTarget(rec.Target))
	if rec.Reading == nil {
		ctx.printf("Reading: %s\n", warnf("none"))
	} else {
		ctx.printf("Reading: %.1f°C %s\n", rec.Reading.Temperature, dimf("at %s", rec.Reading.Timestamp.Format(time.RFC3339)))
	}
	ctx.printf("Socket:  %s\n", describeState(rec.State))
	return nil
}
