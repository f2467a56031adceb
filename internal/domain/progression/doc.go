// Package progression implements the sliding-window curriculum engine shared
// by the three exercise modes.
//
// The engine is pure: it seeds a fresh progression document from an ordered
// catalog, folds a batch of attempt results into a document, slides the
// active window as items graduate, and picks the next item to present. All
// functions operate on in-memory state and perform no I/O; persistence and
// transaction scoping are the caller's concern.
//
// The three exercise modes differ only in their parameters (window size and
// mastery rule), so a single engine serves all of them.
package progression
