// Package asrtest provides black-box test helpers for exercising a
// github.com/joeycumines/go-asr Core end to end: a simulated replay worker
// that honors the budget-cell consumption contract, and polling helpers for
// waiting on a predicate over the published metrics snapshot.
//
// Nothing here is imported by the asr package itself; it exists purely to
// give collaborators (and this module's own integration tests) a ready-made
// harness rather than reimplementing the replay worker's loop shape per
// test.
package asrtest
