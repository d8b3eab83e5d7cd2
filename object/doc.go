// Package object builds result objects from property descriptors.
//
// Descriptors nest: an Object prop carries its own props, which become a
// nested list under the prop's name.
//
//	l, err := b.New(ctx,
//		object.String("name", "disk0"),
//		object.Object("size",
//			object.Number("bytes", 1<<30),
//			object.Uint64("sectors", 2097152),
//		),
//		object.Func("onready", cb),
//	)
//
// A failed build leaves no partial nested lists behind and records the
// failure in the caller's error context.
package object
