// Package syncscroll keeps a group of scroll containers aligned.
//
// A [Registry] tracks which container ids currently opt into synchronization.
// A [Synchronizer] turns an active set into listeners: for every ordered pair
// of distinct active containers it installs one scroll listener on the source
// that copies the source offset, both axes, onto the target.
//
// # Feedback suppression
//
// Before the synchronizer writes a target's offset it arms that target's
// programmatic flag. The first scroll event cycle of the target consumes the
// flag, and every listener of that cycle sees it as consumed and returns
// without mirroring further. A user scroll of one container therefore produces
// exactly one write to each other active container and never bounces back.
//
// The wiring is rebuilt from scratch on every Install; there is no diffing.
package syncscroll
