// Package app holds the personalization use cases: the user directory, the
// session, the mutation engine that keeps them consistent, the pure view
// derivations over the quote corpus, and the motivation request guard.
//
// Services depend on ports only. Every public operation takes a context as
// its first argument and reports failures as domain errors, possibly wrapped
// in an *ExecutionError naming the failing step.
package app
