package logo

import (
	"errors"
	"fmt"
)

// disposer is anything Teardown releases.
type disposer interface {
	Dispose() error
}

// release disposes the resource held in *field once and clears the field.
func release[T disposer](field *T, name string) error {
	if any(*field) == nil {
		return nil
	}
	r := *field
	var zero T
	*field = zero
	if err := r.Dispose(); err != nil {
		return fmt.Errorf("failed to dispose %s: %w", name, err)
	}
	return nil
}

// Teardown releases everything Bootstrap acquired, in order: scene manager,
// asset, environment, diffuse and specular cubemaps, BRDF lookup texture, skybox.
// Released fields are set to nil, so a second call and a partially bootstrapped
// context are both safe.
//
// Parameters:
//   - ctx: the context, may be nil
//
// Returns:
//   - error: the joined dispose errors
func Teardown(ctx *Context) error {
	if ctx == nil {
		return nil
	}
	var errs []error

	errs = append(errs, release(&ctx.Manager, "scene manager"))
	if ctx.Asset != nil && ctx.Loader != nil {
		ctx.Loader.Unload(ctx.Config.ModelPath)
	}
	errs = append(errs, release(&ctx.Asset, "asset"))
	ctx.Instance = nil

	errs = append(errs,
		release(&ctx.EnvCubemap, "environment cubemap"),
		release(&ctx.DiffuseCubemap, "diffuse cubemap"),
		release(&ctx.SpecularCubemap, "specular cubemap"),
		release(&ctx.BRDFLUT, "BRDF lookup texture"),
		release(&ctx.Skybox, "skybox"),
	)

	if ctx.Input != nil {
		ctx.Input.Clear()
	}
	ctx.Input = nil
	ctx.Controller = nil
	ctx.Camera = nil
	ctx.Light = nil
	return errors.Join(errs...)
}
