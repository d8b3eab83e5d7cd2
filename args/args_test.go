package args

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
)

func positional(t *testing.T, add ...func(l *nvlist.List, name string) error) *nvlist.List {
	t.Helper()
	l := nvlist.Alloc()
	for i, fn := range add {
		if err := fn(l, strconv.Itoa(i)); err != nil {
			t.Fatalf("building argument %d: %v", i, err)
		}
	}
	return l
}

func num(v float64) func(*nvlist.List, string) error {
	return func(l *nvlist.List, n string) error { return l.AddDouble(n, v) }
}

func str(v string) func(*nvlist.List, string) error {
	return func(l *nvlist.List, n string) error { return l.AddString(n, v) }
}

func boolean(v bool) func(*nvlist.List, string) error {
	return func(l *nvlist.List, n string) error { return l.AddBooleanValue(n, v) }
}

func TestDecode_NumberString(t *testing.T) {
	tests := []struct {
		name     string
		list     func(t *testing.T) *nvlist.List
		wantKind errors.Kind
		wantMsg  string
	}{
		{
			name: "exact",
			list: func(t *testing.T) *nvlist.List { return positional(t, num(3.5), str("x")) },
		},
		{
			name:     "missing second",
			list:     func(t *testing.T) *nvlist.List { return positional(t, num(3.5)) },
			wantKind: errors.KindMissingArg,
			wantMsg:  "argument 1 is required",
		},
		{
			name:     "extra third",
			list:     func(t *testing.T) *nvlist.List { return positional(t, num(3.5), str("x"), boolean(true)) },
			wantKind: errors.KindExtraArg,
			wantMsg:  "superfluous extra argument(s) detected",
		},
		{
			name:     "wrong kind",
			list:     func(t *testing.T) *nvlist.List { return positional(t, str("3.5"), str("x")) },
			wantKind: errors.KindBadArg,
			wantMsg:  "argument 0 is of incorrect type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, ec := errctx.Ensure(context.Background())
			var (
				n float64
				s string
			)
			err := Decode(ctx, tt.list(t), NoExtra, Number(&n), String(&s))

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				if n != 3.5 || s != "x" {
					t.Errorf("outputs = (%v, %q), want (3.5, \"x\")", n, s)
				}
				if _, _, ok := ec.Last(); ok {
					t.Error("success should not touch the error context")
				}
				return
			}

			if !stderrors.Is(err, &errors.Error{Kind: tt.wantKind}) {
				t.Fatalf("err = %v, want kind %s", err, tt.wantKind)
			}
			if ec.Kind() != tt.wantKind || ec.Message() != tt.wantMsg {
				t.Errorf("recorded %q %q, want %q %q", ec.Kind(), ec.Message(), tt.wantKind, tt.wantMsg)
			}
			if n != 0 || s != "" {
				t.Errorf("outputs written on failure: (%v, %q)", n, s)
			}
		})
	}
}

func TestDecode_ExtraAllowedWithoutFlag(t *testing.T) {
	l := positional(t, num(1), str("x"), boolean(true))
	var n float64
	if err := Decode(context.Background(), l, 0, Number(&n)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 1 {
		t.Errorf("n = %v", n)
	}
}

func TestDecode_AllOrNothing(t *testing.T) {
	l := positional(t, num(7), str("y"), num(9))
	var (
		a float64
		b string
		c bool
	)
	err := Decode(context.Background(), l, 0, Number(&a), String(&b), Boolean(&c))
	if err == nil {
		t.Fatal("expected badarg for position 2")
	}
	if a != 0 || b != "" {
		t.Errorf("earlier positions written before later failure: %v %q", a, b)
	}
}

func TestDecode_AllKinds(t *testing.T) {
	child := nvlist.Alloc()
	l := nvlist.Alloc()
	_ = l.AddDouble("0", 1.25)
	_ = l.AddString("1", "s")
	_ = l.AddBooleanValue("2", true)
	_ = l.AddList("3", child)
	_ = l.AddByte("4", 0)
	_ = l.AddBoolean("5")
	_ = l.AddHandle("6", 42)
	_ = l.AddString("7", "0x10")
	_ = l.AddUint64Array("8", []uint64{1, 2})
	_ = l.AddStringArray("9", []string{"a"})

	var (
		n   float64
		s   string
		b   bool
		o   *nvlist.List
		fn  resource.Handle
		u   uint64
		raw *nvlist.Pair
		dt  nvlist.DataType
	)
	err := Decode(context.Background(), l, NoExtra,
		Number(&n), String(&s), Boolean(&b), Object(&o), Null(), Undefined(),
		Func(&fn), Uint64(&u), Any(&raw), Invalid(&dt))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if n != 1.25 || s != "s" || !b || o != child || fn != 42 || u != 16 {
		t.Errorf("decoded %v %q %v %p %d %d", n, s, b, o, fn, u)
	}
	if raw == nil || raw.Name() != "8" {
		t.Errorf("any slot = %v", raw)
	}
	if dt != nvlist.TypeStringArray {
		t.Errorf("invalid slot = %v", dt)
	}
}

func TestDecode_NilDestination(t *testing.T) {
	l := positional(t, num(1), str("x"))
	if err := Decode(context.Background(), l, NoExtra, Number(nil), String(nil)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestDecode_Uint64Rejected(t *testing.T) {
	l := positional(t, str("twelve"))
	var u uint64 = 99
	err := Decode(context.Background(), l, 0, Uint64(&u))
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindBadArg}) {
		t.Fatalf("err = %v, want badarg", err)
	}
	if u != 99 {
		t.Errorf("u overwritten with %d", u)
	}
}

func TestDecode_NullRejectsNonZeroByte(t *testing.T) {
	l := nvlist.Alloc()
	_ = l.AddByte("0", 1)
	err := Decode(context.Background(), l, 0, Null())
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindBadArg}) {
		t.Fatalf("err = %v, want badarg", err)
	}
}

func TestDecode_ContractViolations(t *testing.T) {
	ctx, ec := errctx.Ensure(context.Background())

	if err := Decode(ctx, nil, 0); !stderrors.Is(err, &errors.Error{Kind: errors.KindYouSuck}) {
		t.Errorf("nil list: %v", err)
	}
	if err := Decode(ctx, nvlist.Alloc(), 0, Slot{}); !stderrors.Is(err, &errors.Error{Kind: errors.KindYouSuck}) {
		t.Errorf("zero slot: %v", err)
	}
	if ec.Kind() != errors.KindYouSuck {
		t.Errorf("recorded kind %q", ec.Kind())
	}
}

func TestDecode_EmptySignature(t *testing.T) {
	if err := Decode(context.Background(), nvlist.Alloc(), NoExtra); err != nil {
		t.Errorf("empty list, empty signature: %v", err)
	}
	l := positional(t, num(1))
	if err := Decode(context.Background(), l, NoExtra); !stderrors.Is(err, &errors.Error{Kind: errors.KindExtraArg}) {
		t.Errorf("one arg, empty signature: %v", err)
	}
}

func TestValidate(t *testing.T) {
	l := positional(t, num(1))
	var n float64
	if err := Validate(context.Background(), l, NoExtra, Number(&n)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n != 0 {
		t.Error("Validate wrote a destination")
	}
}
