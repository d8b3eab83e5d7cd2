package main

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"

	"github.com/wippyai/jsaddon/demo"
	"github.com/wippyai/jsaddon/host"
)

// session is an event loop with the demo addon available both as the
// global "demo" and through require("demo").
type session struct {
	loop  *eventloop.EventLoop
	addon *host.Addon
	queue *host.LoopQueue
}

func newSession(cfg Config) *session {
	registry := require.NewRegistry()
	loop := eventloop.NewEventLoop(eventloop.WithRegistry(registry))
	queue := host.NewLoopQueue(loop, cfg.Workers)

	addon := host.New(host.WithQueue(queue), host.WithMaxPairs(cfg.MaxPairs))
	demo.Register(addon)
	registry.RegisterNativeModule(demo.Name, addon.ModuleLoader())

	return &session{loop: loop, addon: addon, queue: queue}
}

// runScript runs src to completion, including every deferred task it
// started, and returns the script's completion value rendered as text.
func (s *session) runScript(name, src string) (string, error) {
	var (
		out string
		err error
	)
	s.loop.Run(func(vm *goja.Runtime) {
		if err = s.addon.Install(vm, demo.Name); err != nil {
			return
		}
		var v goja.Value
		if v, err = vm.RunScript(name, src); err != nil {
			err = describeError(err)
			return
		}
		out = render(vm, v)
	})
	return out, err
}

// start runs the loop in the background for interactive use.
func (s *session) start() error {
	s.loop.Start()
	errc := make(chan error, 1)
	s.loop.RunOnLoop(func(vm *goja.Runtime) {
		errc <- s.addon.Install(vm, demo.Name)
	})
	return <-errc
}

// eval evaluates src on the running loop.
func (s *session) eval(src string) (string, error) {
	type result struct {
		err error
		out string
	}
	ch := make(chan result, 1)
	s.loop.RunOnLoop(func(vm *goja.Runtime) {
		v, err := vm.RunString(src)
		if err != nil {
			ch <- result{err: describeError(err)}
			return
		}
		ch <- result{out: render(vm, v)}
	})
	r := <-ch
	return r.out, r.err
}

func (s *session) stop() {
	_ = s.queue.Close()
	s.loop.Stop()
	_ = s.addon.Close()
}

// render formats v as JSON where possible.
func render(vm *goja.Runtime, v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if _, ok := goja.AssertFunction(v); ok {
		return "[Function]"
	}
	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return v.String()
	}
	s, err := stringify(goja.Undefined(), v)
	if err != nil || goja.IsUndefined(s) {
		return v.String()
	}
	return s.String()
}

// describeError turns a thrown addon error into "code: message".
func describeError(err error) error {
	ex, ok := err.(*goja.Exception)
	if !ok {
		return err
	}
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		return err
	}
	code := obj.Get("code")
	if code == nil || goja.IsUndefined(code) {
		return err
	}
	return fmt.Errorf("%s: %s", code.String(), obj.Get("message").String())
}
