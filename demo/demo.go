// Package demo is a small addon exercising every value kind, the deferral
// engine and callbacks. The jsaddon CLI loads it as "demo".
package demo

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/wippyai/jsaddon"
	"github.com/wippyai/jsaddon/args"
	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/host"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/object"
	"github.com/wippyai/jsaddon/resource"
	"github.com/wippyai/jsaddon/value"
)

// Name is the module name the addon is registered under.
const Name = "demo"

type addon struct {
	host *host.Addon
}

// Register adds the demo methods to a.
func Register(a *host.Addon) {
	d := &addon{host: a}
	a.Method("add", d.add)
	a.Method("describe", d.describe)
	a.Method("parseU64", d.parseU64)
	a.Method("echo", d.echo)
	a.Method("wrap", d.wrap)
	a.Method("sumAsync", d.sumAsync)
	a.Method("noop", d.noop)
}

// add(a, b) returns a + b.
func (d *addon) add(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var x, y float64
	if err := args.Decode(ctx, in, args.NoExtra, args.Number(&x), args.Number(&y)); err != nil {
		return nil, err
	}
	return d.host.Builder().New(ctx, object.Number(jsaddon.ResultKey, x+y))
}

// describe(v) reports the tagged kind of v and, for objects, its members.
func (d *addon) describe(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var p *nvlist.Pair
	if err := args.Decode(ctx, in, args.NoExtra, args.Any(&p)); err != nil {
		return nil, err
	}

	kind := value.Classify(p)
	props := []object.Prop{
		object.String("kind", kind.String()),
		object.String("stored", p.Type().String()),
	}
	if kind == value.KindObject {
		l, _ := p.List()
		var names []string
		for _, m := range l.Pairs() {
			if m.Name() != nvlist.FuncMarker {
				names = append(names, m.Name())
			}
		}
		sort.Strings(names)
		members := make([]object.Prop, len(names))
		for i, n := range names {
			m, _ := l.Lookup(n)
			members[i] = object.String(n, value.Classify(m).String())
		}
		props = append(props, object.Object("members", members...))
	}
	return d.host.Builder().New(ctx, props...)
}

// parseU64(s) parses an unsigned 64-bit literal and returns it in decimal,
// as a number and as its high and low 32-bit words.
func (d *addon) parseU64(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var u uint64
	if err := args.Decode(ctx, in, args.NoExtra, args.Uint64(&u)); err != nil {
		return nil, err
	}

	scratch := d.host.Alloc()
	defer scratch.Free()
	if err := scratch.AddUint64Array("words", []uint64{u >> 32, u & 0xffffffff}); err != nil {
		return nil, errctx.From(ctx).RecordContainerOp(err, "words")
	}
	words, _ := scratch.Lookup("words")

	return d.host.Builder().New(ctx,
		object.Uint64("decimal", u),
		object.Number("approx", float64(u)),
		object.Any("words", words),
	)
}

// echo(v) returns v unchanged.
func (d *addon) echo(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var p *nvlist.Pair
	if err := args.Decode(ctx, in, args.NoExtra, args.Any(&p)); err != nil {
		return nil, err
	}
	return d.host.Builder().New(ctx, object.Any(jsaddon.ResultKey, p))
}

// wrap(fn) returns {fn, nested: {fn}}, holding fn once per container.
func (d *addon) wrap(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var fn resource.Handle
	if err := args.Decode(ctx, in, args.NoExtra, args.Func(&fn)); err != nil {
		return nil, err
	}
	return d.host.Builder().New(ctx,
		object.Func("fn", fn),
		object.Object("nested", object.Func("fn", fn)),
	)
}

// noop() returns undefined.
func (d *addon) noop(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	if err := args.Decode(ctx, in, args.NoExtra); err != nil {
		return nil, err
	}
	return nil, errctx.From(ctx).Void()
}

type sumJob struct {
	terms []float64
	cb    resource.Handle
}

type sumResult struct {
	err error
	sum float64
}

// sumAsync(numbers, cb) adds the numeric members of numbers off the loop
// and calls cb(err, sum) from the completion.
func (d *addon) sumAsync(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
	var (
		nums *nvlist.List
		cb   resource.Handle
	)
	if err := args.Decode(ctx, in, args.NoExtra, args.Object(&nums), args.Func(&cb)); err != nil {
		return nil, err
	}

	job := &sumJob{cb: cb}
	var bad string
	nums.Each(func(p *nvlist.Pair) bool {
		v, err := value.Extract(value.KindNumber, p)
		if err != nil {
			bad = p.Name()
			return false
		}
		job.terms = append(job.terms, v.(float64))
		return true
	})
	if bad != "" {
		return nil, errctx.From(ctx).Record(errors.KindBadArg, "member %s is not a number", bad)
	}

	table := d.host.Table()
	if !table.Hold(cb) {
		return nil, errctx.From(ctx).Record(errors.KindBadF, "callback %d is not live", cb)
	}
	obj := table.Ref(table.Insert(resource.TypeObject, job))
	defer obj.Release()

	if _, err := d.host.Engine().Defer(ctx, obj, job, sumWorker, d.sumDone); err != nil {
		table.Release(cb)
		return nil, err
	}
	return nil, errctx.From(ctx).Void()
}

func sumWorker(ctx context.Context, _ jsaddon.Object, data any) any {
	job := data.(*sumJob)
	var r sumResult
	for _, t := range job.terms {
		r.sum += t
	}
	if len(job.terms) == 0 {
		r.err = errctx.From(ctx).Record(errors.KindMissingArg, "nothing to sum")
	}
	return r
}

func (d *addon) sumDone(ctx context.Context, _ jsaddon.Object, data any, result any) {
	job := data.(*sumJob)
	r := result.(sumResult)
	defer d.host.Table().Release(job.cb)

	b := d.host.Builder()
	var (
		cbArgs *nvlist.List
		err    error
	)
	if r.err != nil {
		var e *errors.Error
		msg := r.err.Error()
		if stderrors.As(r.err, &e) {
			msg = e.Message()
		}
		cbArgs, err = b.New(ctx, object.String("0", msg))
	} else {
		cbArgs, err = b.New(ctx, object.Null("0"), object.Number("1", r.sum))
	}
	if err != nil {
		return
	}
	defer cbArgs.Free()

	if res, err := d.host.Call(ctx, job.cb, cbArgs); err == nil {
		res.Free()
	}
}
