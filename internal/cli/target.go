package cli

type TargetSetCmd struct {
	Value float64 `arg:"" help:"New default target temperature (°C)."`
}

func (c *TargetSetCmd) Run(ctx *Context) error {
	if err := ctx.Services.SetDefault(ctx.Ctx, c.Value); err != nil {
		return err
	}
	ctx.printf("%s\n", okf("Default target set to %.1f°C.", c.Value))
	return nil
}
