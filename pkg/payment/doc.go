// Package payment keeps an append-only log of confirmed external charges.
// Records are written once when the payment processor reports a completed
// charge and are never mutated afterwards.
package payment
