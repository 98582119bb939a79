package engine

// Game adapts a set of callbacks to Application. Nil callbacks are skipped.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(ctx *Context) error
type Update func(ctx *Context, deltaTime float32)
type Render func(ctx *Context) error
type OnResize func(ctx *Context, width uint32, height uint32)
type Shutdown func(ctx *Context)

var (
	_ Application = (*Game)(nil)
	_ Resizer     = (*Game)(nil)
)

func (g *Game) Init(ctx *Context) error {
	if g.FnInitialize == nil {
		return nil
	}
	return g.FnInitialize(ctx)
}

func (g *Game) Update(ctx *Context, deltaTime float32) {
	if g.FnUpdate != nil {
		g.FnUpdate(ctx, deltaTime)
	}
}

func (g *Game) Draw(ctx *Context) error {
	if g.FnRender == nil {
		return nil
	}
	return g.FnRender(ctx)
}

func (g *Game) OnResize(ctx *Context, width, height uint32) {
	if g.FnOnResize != nil {
		g.FnOnResize(ctx, width, height)
	}
}

func (g *Game) Shutdown(ctx *Context) {
	if g.FnShutdown != nil {
		g.FnShutdown(ctx)
	}
}
