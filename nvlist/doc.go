// Package nvlist provides the generic name-value container exchanged at the
// marshaling boundary.
//
// A List is an insertion-ordered mapping from unique string names to typed
// pairs. Adding a name that already exists replaces the old pair and moves
// the name to the end, the same way a unique-name nvlist behaves:
//
//	l := nvlist.Alloc()
//	_ = l.AddDouble("0", 3.5)
//	_ = l.AddString("1", "x")
//
//	p, err := l.Lookup("1")
//	if errors.Is(err, syscall.ENOENT) {
//	    // missing keys are an ordinary outcome, not an exceptional one
//	}
//
// # Errors
//
// Operations report failures as raw errno values so callers can map them:
//
//	EINVAL  empty name, nil list or accessor type mismatch
//	ENOMEM  capacity set by WithMaxPairs exhausted
//	ENOENT  lookup of a missing name
//	EBADF   add on a freed list
//
// # Function handles
//
// Handle pairs carry opaque callback ids. A list allocated WithReleaser
// calls the releaser once per handle when the list is freed or when a handle
// pair is replaced. Holding is the encoder's job, releasing is the list's.
//
// # Thread Safety
//
// Lists are not safe for concurrent use and are never shared across the
// scheduling/worker boundary.
package nvlist
