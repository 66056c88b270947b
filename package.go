// taskpool is a Go library implementing a fixed-size, in-process worker
// pool whose scheduler lets tasks declare data dependencies on
// not-yet-resolved results without parking a worker on them.
// This top-level package is just a stub.
// For main functionality, see:
//   - For submitting and managing work: [github.com/mvtornado/taskpool/taskpool]
//   - For the dual-queue scheduling core: [github.com/mvtornado/taskpool/scheduler]
//   - For task envelopes: [github.com/mvtornado/taskpool/envelope]
//   - For deferred (dependency) arguments: [github.com/mvtornado/taskpool/deferredarg]
//   - For result handles: [github.com/mvtornado/taskpool/resulthandle]
//   - For cooperative cancellation: [github.com/mvtornado/taskpool/stoptoken]
//   - For chaining submissions into pipelines: [github.com/mvtornado/taskpool/pipe]
//   - For Prometheus instrumentation: [github.com/mvtornado/taskpool/poolmetrics]
package taskpool
