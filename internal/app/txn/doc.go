// Package txn stages the writes of one personalization mutation and applies
// them in order.
//
// A WriteSet is built once per operation, staged with the writes the
// operation needs, and committed exactly once:
//
//	ws := txn.New()
//	if err := ws.Stage(txn.NewAction("upsert directory entry", func(ctx context.Context) error {
//	    return dir.Upsert(ctx, user)
//	})); err != nil {
//	    return err
//	}
//	// ...stage the session write the same way...
//	err := ws.Commit(ctx)
//
// Commit stops at the first failing action. There is no rollback: writes
// already applied stay applied, and the returned CommitError lists them so
// the caller can report exactly how far the sequence got.
package txn
