package value

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
)

func TestClassify(t *testing.T) {
	l := nvlist.Alloc()
	_ = l.AddDouble("number", 1.5)
	_ = l.AddString("string", "s")
	_ = l.AddBooleanValue("boolean", true)
	_ = l.AddList("object", l.Child())
	_ = l.AddBoolean("undefined")
	_ = l.AddByte("null", 0)
	_ = l.AddByte("byte", 7)
	_ = l.AddHandle("func", 3)
	_ = l.AddUint64Array("array", []uint64{3})
	_ = l.AddStringArray(nvlist.FuncMarker, nil)

	tests := []struct {
		name string
		want Kind
	}{
		{"number", KindNumber},
		{"string", KindString},
		{"boolean", KindBoolean},
		{"object", KindObject},
		{"undefined", KindUndefined},
		{"null", KindNull},
		{"byte", KindInvalid},
		{"func", KindFunc},
		{"array", KindInvalid},
		{nvlist.FuncMarker, KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := l.Lookup(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got := Classify(p); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}

	if Classify(nil) != KindInvalid {
		t.Error("Classify(nil) should be invalid")
	}
}

func TestRoundTrip(t *testing.T) {
	child := nvlist.Alloc()
	tests := []struct {
		kind     Kind
		payload  any
		classify Kind
	}{
		{KindNumber, 3.5, KindNumber},
		{KindString, "x", KindString},
		{KindBoolean, true, KindBoolean},
		{KindBoolean, false, KindBoolean},
		{KindObject, child, KindObject},
		{KindNull, nil, KindNull},
		{KindUndefined, nil, KindUndefined},
		{KindFunc, resource.Handle(9), KindFunc},
		{KindStringUint64, uint64(18446744073709551615), KindString},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			l := nvlist.Alloc()
			if err := Encode(l, "v", tt.kind, tt.payload); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			p, _ := l.Lookup("v")
			if got := Classify(p); got != tt.classify {
				t.Errorf("Classify = %v, want %v", got, tt.classify)
			}
			got, err := Extract(tt.kind, p)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.payload {
				t.Errorf("Extract = %v, want %v", got, tt.payload)
			}
		})
	}
}

func TestExtract_Mismatch(t *testing.T) {
	l := nvlist.Alloc()
	_ = l.AddString("s", "hello")
	_ = l.AddByte("b", 1)
	p, _ := l.Lookup("s")

	for _, k := range []Kind{KindNumber, KindBoolean, KindObject, KindNull, KindUndefined, KindFunc, KindStringUint64, KindNone} {
		t.Run(k.String(), func(t *testing.T) {
			_, err := Extract(k, p)
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Kind != errors.KindBadArg || e.Actual != "string" {
				t.Errorf("err = %v", e)
			}
		})
	}

	nb, _ := l.Lookup("b")
	if _, err := Extract(KindNull, nb); err == nil {
		t.Error("non-zero byte must not extract as null")
	}
}

func TestExtract_Meta(t *testing.T) {
	l := nvlist.Alloc()
	_ = l.AddUint64Array("a", []uint64{1, 2})
	p, _ := l.Lookup("a")

	got, err := Extract(KindAny, p)
	if err != nil || got != p {
		t.Errorf("Extract(Any) = %v, %v; want the pair itself", got, err)
	}

	got, err = Extract(KindInvalid, p)
	if err != nil || got != nvlist.TypeUint64Array {
		t.Errorf("Extract(Invalid) = %v, %v; want stored type", got, err)
	}
}

func TestStringUint64(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"0x1F", 31, true},
		{"0X1f", 31, true},
		{"017", 15, true},
		{"18446744073709551615", 18446744073709551615, true},
		{"18446744073709551616", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"12abc", 0, false},
		{"09", 0, false},
		{"0x", 0, false},
		{" 1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := nvlist.Alloc()
			_ = l.AddString("n", tt.in)
			p, _ := l.Lookup("n")

			got, err := Extract(KindStringUint64, p)
			if tt.ok {
				if err != nil {
					t.Fatalf("Extract: %v", err)
				}
				if got != tt.want {
					t.Errorf("Extract = %v, want %d", got, tt.want)
				}
				return
			}
			if err == nil {
				t.Errorf("Extract(%q) = %v, want type mismatch", tt.in, got)
			}
		})
	}
}

func TestEncode_BadPayload(t *testing.T) {
	l := nvlist.Alloc()

	err := Encode(l, "n", KindNumber, "not a number")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindYouSuck {
		t.Fatalf("err = %v, want yousuck", err)
	}

	err = Encode(l, "x", KindInvalid, nil)
	if !stderrors.As(err, &e) || e.Kind != errors.KindYouSuck {
		t.Fatalf("err = %v, want yousuck for invalid kind", err)
	}
	if l.Len() != 0 {
		t.Errorf("failed encodes added %d pairs", l.Len())
	}
}

func TestKind_String(t *testing.T) {
	if KindFunc.String() != "function" {
		t.Errorf("KindFunc = %q", KindFunc.String())
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("Kind(200) = %q", Kind(200).String())
	}
	if KindNull.HasPayload() || !KindNumber.HasPayload() {
		t.Error("HasPayload mismatch")
	}
}
