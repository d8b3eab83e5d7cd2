// Package host binds addons to the goja JavaScript runtime.
//
// Call arguments are converted into positional containers, JavaScript
// functions become function handles in the addon's table, and native
// results are converted back. A failing native method throws an Error
// whose code property is the error kind:
//
//	try { native.add(1) } catch (e) { e.code === "missingarg" }
//
// Addons can be installed as a global with Install, or loaded through
// goja_nodejs require with ModuleLoader. LoopQueue runs deferred work next
// to a goja_nodejs event loop and delivers completions on it.
package host
