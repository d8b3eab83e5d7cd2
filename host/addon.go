package host

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"go.uber.org/zap"

	"github.com/wippyai/jsaddon"
	"github.com/wippyai/jsaddon/deferral"
	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/object"
	"github.com/wippyai/jsaddon/resource"
)

// DefaultWorkers is the worker count used when no queue is configured.
const DefaultWorkers = 4

// Addon exposes native methods to a goja runtime. An Addon is bound to a
// single runtime and, like the runtime, must only be used from the
// goroutine that runs it.
type Addon struct {
	ctx      context.Context
	vm       *goja.Runtime
	table    *resource.Table
	builder  *object.Builder
	engine   *deferral.Engine
	queue    deferral.Queue
	methods  map[string]jsaddon.Func
	observer resource.Observer
	maxPairs int
	workers  int64
}

// Option configures an Addon.
type Option func(*Addon)

// WithMaxPairs bounds every container the addon allocates.
func WithMaxPairs(n int) Option {
	return func(a *Addon) {
		a.maxPairs = n
	}
}

// WithQueue sets the work facility used for deferred tasks.
func WithQueue(q deferral.Queue) Option {
	return func(a *Addon) {
		a.queue = q
	}
}

// WithWorkers sets the worker count of the default queue.
func WithWorkers(n int64) Option {
	return func(a *Addon) {
		a.workers = n
	}
}

// WithContext sets the parent context of every native call.
func WithContext(ctx context.Context) Option {
	return func(a *Addon) {
		a.ctx = ctx
	}
}

// New creates an Addon. Without WithQueue, deferred tasks go to a
// deferral.Loop that the embedder drives through Queue.
func New(opts ...Option) *Addon {
	a := &Addon{
		ctx:     context.Background(),
		table:   resource.NewTable(),
		methods:  make(map[string]jsaddon.Func),
		observer: tableLogger{},
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.queue == nil {
		a.queue = deferral.NewLoop(a.workers)
	}
	a.table.Subscribe(a.observer)
	a.engine = deferral.New(a.queue)
	a.builder = object.NewBuilder(a.table, a.listOptions()...)
	return a
}

// Method registers fn under name. Methods registered after Install or
// module load are not visible to scripts already holding the exports.
func (a *Addon) Method(name string, fn jsaddon.Func) {
	a.methods[name] = fn
}

// Methods returns the registered method names in sorted order.
func (a *Addon) Methods() []string {
	names := make([]string, 0, len(a.methods))
	for name := range a.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runtime returns the bound runtime, nil before Install or module load.
func (a *Addon) Runtime() *goja.Runtime { return a.vm }

// Table returns the handle table holding callbacks and native objects.
func (a *Addon) Table() *resource.Table { return a.table }

// Builder returns an object builder whose containers release their
// function handles through the addon's table.
func (a *Addon) Builder() *object.Builder { return a.builder }

// Engine returns the deferral engine.
func (a *Addon) Engine() *deferral.Engine { return a.engine }

// Queue returns the work facility behind Engine.
func (a *Addon) Queue() deferral.Queue { return a.queue }

// Alloc allocates a container with the addon's options.
func (a *Addon) Alloc() *nvlist.List {
	return nvlist.Alloc(a.listOptions()...)
}

// Install binds the addon to vm and sets the global name to its exports.
func (a *Addon) Install(vm *goja.Runtime, name string) error {
	a.vm = vm
	return vm.Set(name, a.exports(vm))
}

// ModuleLoader returns a loader for require.Registry.RegisterNativeModule.
// Loading the module binds the addon to the loading runtime.
func (a *Addon) ModuleLoader() require.ModuleLoader {
	return func(vm *goja.Runtime, module *goja.Object) {
		a.vm = vm
		_ = module.Set("exports", a.exports(vm))
	}
}

// Close drops every callback and native object still in the table.
func (a *Addon) Close() error {
	var live []uint64
	a.table.Each(func(h resource.Handle, _ uint32, _ any) bool {
		live = append(live, uint64(h))
		return true
	})
	if len(live) > 0 {
		Logger().Debug("handles live at close", zap.Uint64s("handles", live))
	}
	a.table.Unsubscribe(a.observer)
	return a.table.Close()
}

func (a *Addon) listOptions() []nvlist.Option {
	opts := []nvlist.Option{nvlist.WithReleaser(a.table.ReleaseID)}
	if a.maxPairs > 0 {
		opts = append(opts, nvlist.WithMaxPairs(a.maxPairs))
	}
	return opts
}

func (a *Addon) exports(vm *goja.Runtime) *goja.Object {
	obj := vm.NewObject()
	for _, name := range a.Methods() {
		_ = obj.Set(name, a.wrap(name, a.methods[name]))
	}
	return obj
}

// wrap adapts fn to goja's native function convention. Each call gets its
// own error context.
func (a *Addon) wrap(name string, fn jsaddon.Func) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		ec := errctx.New()
		ctx := errctx.With(a.ctx, ec)

		in, err := a.Arguments(ctx, call.Arguments)
		if err != nil {
			panic(a.exception(ec, err))
		}
		defer in.Free()

		Logger().Debug("native call", zap.String("method", name), zap.Int("args", in.Len()))

		out, err := fn(ctx, in)
		if err != nil {
			panic(a.exception(ec, err))
		}
		if out == nil {
			return goja.Undefined()
		}
		defer out.Free()

		v, err := a.Result(ctx, out)
		if err != nil {
			panic(a.exception(ec, err))
		}
		return v
	}
}

// exception records err and builds the Error object thrown for it. The
// object's code property names the error kind.
func (a *Addon) exception(ec *errctx.Context, err error) goja.Value {
	_ = ec.RecordError(err)
	kind, msg, _ := ec.Last()

	ctor := a.vm.Get("Error")
	obj, cerr := a.vm.New(ctor, a.vm.ToValue(msg))
	if cerr != nil {
		return a.vm.NewGoError(err)
	}
	_ = obj.Set("code", string(kind))

	var e *errors.Error
	if stderrors.As(err, &e) && len(e.Path) > 0 {
		_ = obj.Set("member", e.Path[len(e.Path)-1])
	}
	Logger().Debug("native call failed", zap.String("code", string(kind)), zap.String("message", msg))
	return obj
}
