// Package pg provides the Postgres plumbing shared by every store in this
// module: pooled connections with bounded retry, goose schema migrations
// bridged onto pgx, a health check closure, and error classifiers that turn
// SQLSTATE codes into the sentinel errors the domain packages rely on.
//
// The classifiers matter more than the helpers. The trial tracker, coupon,
// and referral stores all push their race handling into unique constraints,
// so telling a duplicate-key violation apart from any other failure is what
// makes "exactly one concurrent winner" semantics possible.
package pg
