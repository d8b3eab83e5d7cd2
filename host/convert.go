package host

import (
	"context"
	"strconv"

	"github.com/dop251/goja"

	"github.com/wippyai/jsaddon"
	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
	"github.com/wippyai/jsaddon/value"
)

// callback is the table entry behind a function handle.
type callback struct {
	fn    goja.Callable
	value goja.Value
}

// Arguments converts call arguments into a positional container. Every
// function argument is registered in the table with one hold owned by the
// container.
func (a *Addon) Arguments(ctx context.Context, argv []goja.Value) (*nvlist.List, error) {
	l := a.Alloc()
	for i, v := range argv {
		if err := a.Encode(ctx, l, strconv.Itoa(i), v); err != nil {
			l.Free()
			return nil, err
		}
	}
	return l, nil
}

// Encode stores the JavaScript value v in l under name. Objects and arrays
// become nested containers keyed by their own enumerable properties.
func (a *Addon) Encode(ctx context.Context, l *nvlist.List, name string, v goja.Value) error {
	ec := errctx.From(ctx)
	return a.encode(ec, l, name, v, 0)
}

// maxDepth bounds nesting so cyclic objects fail instead of recursing forever.
const maxDepth = 64

func (a *Addon) encode(ec *errctx.Context, l *nvlist.List, name string, v goja.Value, depth int) error {
	if depth > maxDepth {
		return ec.Record(errors.KindYouSuck, "member %s: object nesting exceeds %d levels", name, maxDepth)
	}

	var err error
	switch {
	case v == nil || goja.IsUndefined(v):
		err = l.AddBoolean(name)
	case goja.IsNull(v):
		err = l.AddByte(name, 0)
	default:
		if fn, ok := goja.AssertFunction(v); ok {
			return a.encodeCallback(ec, l, name, fn, v)
		}
		if obj, ok := v.(*goja.Object); ok {
			return a.encodeObject(ec, l, name, obj, depth)
		}
		switch x := v.Export().(type) {
		case bool:
			err = l.AddBooleanValue(name, x)
		case string:
			err = l.AddString(name, x)
		case int64:
			err = l.AddDouble(name, float64(x))
		case float64:
			err = l.AddDouble(name, x)
		default:
			return ec.Record(errors.KindYouSuck, "member %s: unsupported value type %T", name, x)
		}
	}
	if err != nil {
		return ec.RecordContainerOp(err, name)
	}
	return nil
}

func (a *Addon) encodeCallback(ec *errctx.Context, l *nvlist.List, name string, fn goja.Callable, v goja.Value) error {
	h := a.table.Insert(resource.TypeCallback, &callback{fn: fn, value: v})
	if h == 0 {
		return ec.Record(errors.KindBadF, "member %s: callback table is closed", name)
	}
	if err := value.Encode(l, name, value.KindFunc, h); err != nil {
		a.table.Release(h)
		return ec.RecordContainerOp(err, name)
	}
	if err := l.AddStringArray(nvlist.FuncMarker, nil); err != nil {
		return ec.RecordContainerOp(err, nvlist.FuncMarker)
	}
	return nil
}

func (a *Addon) encodeObject(ec *errctx.Context, l *nvlist.List, name string, obj *goja.Object, depth int) error {
	child := l.Child()
	for _, key := range obj.Keys() {
		if err := a.encode(ec, child, key, obj.Get(key), depth+1); err != nil {
			child.Free()
			return err
		}
	}
	if err := l.AddList(name, child); err != nil {
		child.Free()
		return ec.RecordContainerOp(err, name)
	}
	return nil
}

// Result converts a native result. A "res" member is returned on its own;
// otherwise the whole container becomes an object.
func (a *Addon) Result(ctx context.Context, l *nvlist.List) (goja.Value, error) {
	if p, err := l.Lookup(jsaddon.ResultKey); err == nil {
		return a.Value(ctx, p)
	}
	obj, err := a.Object(ctx, l)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Object converts a container into a JavaScript object. Function handle
// markers are skipped.
func (a *Addon) Object(ctx context.Context, l *nvlist.List) (*goja.Object, error) {
	obj := a.vm.NewObject()
	var err error
	l.Each(func(p *nvlist.Pair) bool {
		if p.Name() == nvlist.FuncMarker {
			return true
		}
		var v goja.Value
		if v, err = a.Value(ctx, p); err != nil {
			return false
		}
		err = obj.Set(p.Name(), v)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Value converts a single pair.
func (a *Addon) Value(ctx context.Context, p *nvlist.Pair) (goja.Value, error) {
	switch value.Classify(p) {
	case value.KindNumber:
		v, _ := p.Double()
		return a.vm.ToValue(v), nil
	case value.KindString:
		v, _ := p.StringValue()
		return a.vm.ToValue(v), nil
	case value.KindBoolean:
		v, _ := p.BooleanValue()
		return a.vm.ToValue(v), nil
	case value.KindNull:
		return goja.Null(), nil
	case value.KindUndefined:
		return goja.Undefined(), nil
	case value.KindObject:
		child, _ := p.List()
		obj, err := a.Object(ctx, child)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case value.KindFunc:
		id, _ := p.Handle()
		v, ok := a.table.GetTyped(resource.Handle(id), resource.TypeCallback)
		if !ok {
			return nil, errctx.From(ctx).Record(errors.KindBadF, "member %s: function handle %d is not live", p.Name(), id)
		}
		return v.(*callback).value, nil
	}

	switch p.Type() {
	case nvlist.TypeUint64Array:
		arr, _ := p.Uint64Array()
		out := make([]any, len(arr))
		for i, x := range arr {
			if x > 1<<53 {
				out[i] = strconv.FormatUint(x, 10)
			} else {
				out[i] = float64(x)
			}
		}
		return a.vm.ToValue(out), nil
	case nvlist.TypeStringArray:
		arr, _ := p.StringArray()
		out := make([]any, len(arr))
		for i, s := range arr {
			out[i] = s
		}
		return a.vm.ToValue(out), nil
	case nvlist.TypeByte:
		b, _ := p.Byte()
		return a.vm.ToValue(float64(b)), nil
	}
	return nil, errctx.From(ctx).Record(errors.KindYouSuck, "member %s: cannot convert %s", p.Name(), p.Type())
}

// Call invokes the callback behind h with the pairs of args as positional
// arguments, in order. The return value comes back under "res". Call must
// run on the runtime's goroutine; from a deferred task that is the
// completion.
func (a *Addon) Call(ctx context.Context, h resource.Handle, args *nvlist.List) (*nvlist.List, error) {
	ec := errctx.From(ctx)
	v, ok := a.table.GetTyped(h, resource.TypeCallback)
	if !ok {
		return nil, ec.Record(errors.KindBadF, "function handle %d is not live", h)
	}
	cb := v.(*callback)

	var argv []goja.Value
	if args != nil {
		var err error
		args.Each(func(p *nvlist.Pair) bool {
			if p.Name() == nvlist.FuncMarker {
				return true
			}
			var jv goja.Value
			if jv, err = a.Value(ctx, p); err != nil {
				return false
			}
			argv = append(argv, jv)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	res, err := cb.fn(goja.Undefined(), argv...)
	if err != nil {
		return nil, ec.RecordError(errors.Wrap(errors.PhaseHost, errors.KindUnknown, err, "callback threw: "+exceptionText(err)))
	}

	out := a.Alloc()
	if err := a.Encode(ctx, out, jsaddon.ResultKey, res); err != nil {
		out.Free()
		return nil, err
	}
	return out, nil
}

func exceptionText(err error) string {
	if ex, ok := err.(*goja.Exception); ok && ex.Value() != nil {
		return ex.Value().String()
	}
	return err.Error()
}
