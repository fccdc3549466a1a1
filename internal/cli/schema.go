package cli

import (
	"errors"
	"fmt"
)

type SchemaListCmd struct{}

func (c *SchemaListCmd) Run(ctx *Context) error {
	schemas, err := ctx.Services.ListSchemas(ctx.Ctx)
	if err != nil {
		return err
	}
	if len(schemas) == 0 {
		ctx.printf("No schemas found\n")
		return nil
	}

	ctx.printf("Schemas:\n")
	for _, s := range schemas {
		marker := " "
		if s.IsActive {
			marker = okf("*")
		}
		ctx.printf("  %s [%d] %s - in office %.1f°C, out of office %.1f°C\n",
			marker, s.ID, s.Name, s.InOfficeTemperature, s.OutOfOfficeTemperature)
	}
	return nil
}

// SchemaActivateCmd switches the active schema, or clears it with --none.
type SchemaActivateCmd struct {
	ID   int64 `arg:"" optional:"" help:"Schema id to activate."`
	None bool  `help:"Deactivate all schemas."`
}

func (c *SchemaActivateCmd) Validate() error {
	if c.None && c.ID != 0 {
		return errors.New("pass either a schema id or --none, not both")
	}
	if !c.None && c.ID <= 0 {
		return errors.New("a positive schema id or --none is required")
	}
	return nil
}

func (c *SchemaActivateCmd) Run(ctx *Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.None {
		if err := ctx.Services.SetActiveSchema(ctx.Ctx, nil); err != nil {
			return err
		}
		ctx.printf("%s\n", okf("No schema active; the default target applies."))
		return nil
	}

	id := c.ID
	if err := ctx.Services.SetActiveSchema(ctx.Ctx, &id); err != nil {
		return fmt.Errorf("activate schema %d: %w", id, err)
	}
	ctx.printf("%s\n", okf("Schema %d is now active.", id))
	return nil
}
