// Package engine compiles and evaluates ad hoc snippets against constructed
// control instances.
//
// A snippet is an HCL body. Each attribute is evaluated in source order
// against the sandbox: the properties of the request's target (under
// "target"), any variables carried by the request's session, and a fixed
// function table including print(), which captures output for the call.
// The value of the "result" attribute, or of the last attribute when none
// is named result, becomes the call's return value.
//
// Sessions let a sequence of calls share state: the first call with a
// session id creates the session, later calls with the same id see every
// variable the earlier calls declared. Calls without a session id evaluate
// against a fresh environment that is discarded on return. Concurrent use
// of a single session id is a caller error; the store serializes nothing
// beyond its own map.
//
// Evaluation runs on a thread-affine worker by default, because snippets
// exist to poke at control objects that carry thread affinity.
package engine
