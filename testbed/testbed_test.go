package testbed

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"

	"github.com/wippyai/jsaddon/demo"
	"github.com/wippyai/jsaddon/host"
)

// runScript loads the demo addon through require and runs src on an event
// loop until every deferred task has completed.
func runScript(t *testing.T, src string, opts ...host.Option) (*goja.Runtime, *host.Addon) {
	t.Helper()

	registry := require.NewRegistry()
	loop := eventloop.NewEventLoop(eventloop.WithRegistry(registry))
	queue := host.NewLoopQueue(loop, 4)

	addon := host.New(append([]host.Option{host.WithQueue(queue)}, opts...)...)
	demo.Register(addon)
	registry.RegisterNativeModule(demo.Name, addon.ModuleLoader())

	var vm *goja.Runtime
	loop.Run(func(r *goja.Runtime) {
		vm = r
		if _, err := r.RunString(src); err != nil {
			t.Errorf("script: %v", err)
		}
	})
	return vm, addon
}

func eval(t *testing.T, vm *goja.Runtime, expr string) goja.Value {
	t.Helper()
	v, err := vm.RunString(expr)
	if err != nil {
		t.Fatalf("%s: %v", expr, err)
	}
	return v
}

func TestDemo_Add(t *testing.T) {
	vm, _ := runScript(t, `var demo = require("demo"); var r = demo.add(40, 2);`)
	if got := eval(t, vm, "r").ToFloat(); got != 42 {
		t.Errorf("add = %v", got)
	}
}

func TestDemo_Errors(t *testing.T) {
	tests := []struct {
		call string
		code string
	}{
		{`demo.add()`, "missingarg"},
		{`demo.add(1, "x")`, "badarg"},
		{`demo.add(1, 2, 3)`, "extraarg"},
		{`demo.parseU64("banana")`, "badarg"},
		{`demo.parseU64(12)`, "badarg"},
		{`demo.sumAsync({a: 1, b: "x"}, function() {})`, "badarg"},
		{`demo.noop(1)`, "extraarg"},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			vm, _ := runScript(t, `var demo = require("demo"); var code;
				try { `+tt.call+` } catch (e) { code = e.code; }`)
			if got := eval(t, vm, "code").String(); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestDemo_Describe(t *testing.T) {
	vm, _ := runScript(t, `var demo = require("demo");
		var d = [
			demo.describe(1).kind,
			demo.describe("s").kind,
			demo.describe(true).kind,
			demo.describe(null).kind,
			demo.describe(undefined).kind,
			demo.describe(function() {}).kind,
			JSON.stringify(demo.describe({n: 1, f: function() {}, o: {}}).members),
		].join("|");`)

	want := `number|string|boolean|null|undefined|function|{"f":"function","n":"number","o":"object"}`
	if got := eval(t, vm, "d").String(); got != want {
		t.Errorf("describe = %s\nwant       %s", got, want)
	}
}

func TestDemo_ParseU64(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		words string
	}{
		{"0", "0", "0,0"},
		{"42", "42", "0,42"},
		{"0x10", "16", "0,16"},
		{"010", "8", "0,8"},
		{"0x100000002", "4294967298", "1,2"},
		{"18446744073709551615", "18446744073709551615", "4294967295,4294967295"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			vm, _ := runScript(t, `var p = require("demo").parseU64("`+tt.in+`");
				var r = p.decimal, w = p.words.join(",");`)
			if got := eval(t, vm, "r").String(); got != tt.want {
				t.Errorf("parseU64(%s) = %s, want %s", tt.in, got, tt.want)
			}
			if got := eval(t, vm, "w").String(); got != tt.words {
				t.Errorf("parseU64(%s).words = %s, want %s", tt.in, got, tt.words)
			}
		})
	}
}

func TestDemo_Wrap(t *testing.T) {
	vm, addon := runScript(t, `var demo = require("demo");
		var f = function() {};
		var w = demo.wrap(f);
		var same = w.fn === f && w.nested.fn === f;`)
	if !eval(t, vm, "same").ToBoolean() {
		t.Error("wrapped callbacks lost identity")
	}
	if n := addon.Table().Len(); n != 0 {
		t.Errorf("%d callbacks still held", n)
	}
}

func TestDemo_SumAsync(t *testing.T) {
	vm, addon := runScript(t, `var demo = require("demo");
		var got = [];
		demo.sumAsync({a: 1, b: 2.5, c: 3}, function(err, sum) { got.push([err, sum]); });
		demo.sumAsync({}, function(err, sum) { got.push([err, sum]); });
		var syncReturn = demo.sumAsync({x: 1}, function() {});`)

	if !goja.IsUndefined(eval(t, vm, "syncReturn")) {
		t.Error("sumAsync should return undefined")
	}
	if n := eval(t, vm, "got.length").ToInteger(); n != 2 {
		t.Fatalf("%d callbacks ran, want 2", n)
	}
	if got := eval(t, vm, `got.filter(function(r) { return r[0] === null; })[0][1]`).ToFloat(); got != 6.5 {
		t.Errorf("sum = %v", got)
	}
	if got := eval(t, vm, `got.filter(function(r) { return r[0] !== null; })[0][0]`).String(); got != "nothing to sum" {
		t.Errorf("err = %q", got)
	}
	if n := addon.Table().Len(); n != 0 {
		t.Errorf("%d entries left in the table", n)
	}
	if p := addon.Engine().Pending(); p != 0 {
		t.Errorf("%d tasks pending", p)
	}
}

func TestDemo_Echo(t *testing.T) {
	vm, _ := runScript(t, `var demo = require("demo");
		var e = JSON.stringify([demo.echo(1), demo.echo("a"), demo.echo({x: [true, null]})]);`)
	if got := eval(t, vm, "e").String(); got != `[1,"a",{"x":{"0":true,"1":null}}]` {
		t.Errorf("echo = %s", got)
	}
}

func TestDemo_MaxPairs(t *testing.T) {
	vm, _ := runScript(t, `var demo = require("demo"); var code;
		try { demo.describe({a: 1, b: 2, c: 3}); } catch (e) { code = e.code; }`,
		host.WithMaxPairs(2))
	if got := eval(t, vm, "code").String(); got != "nomem" {
		t.Errorf("code = %s", got)
	}
}
