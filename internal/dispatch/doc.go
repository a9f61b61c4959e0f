// Package dispatch orchestrates one email send attempt end to end:
// request normalization, template resolution with variable
// substitution, attachment validation, sender allow-list enforcement,
// the provider call, and the unconditional audit record.
//
// The audit guarantee is the core invariant: once the provider has been
// invoked, exactly one email record is written whether the delivery
// succeeded or failed. Validation and authorization failures reject
// before any side effect; attachment rows are only persisted after a
// successful delivery.
package dispatch
