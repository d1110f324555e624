// Package security keeps the storage-port firewall ACL in step with cluster
// membership.
//
// Each pass reads the permitted ranges from a firewall.Provider and the live
// members from a membership.Registry, then plans the minimal change:
//
//   - the private range of every member in the local region and the public
//     range of every member are expected and never removed;
//   - public ranges of remote peers that are missing are added;
//   - ranges no live member accounts for are removed;
//   - on its first running pass the local node proposes its own ranges once;
//   - while stopping the local node revokes its own ranges.
//
// Removals are applied before additions.
//
// # Scheduling
//
// Seed nodes reconcile periodically on a jittered interval (IntervalPolicy);
// other nodes reconcile once at start. Every node runs a final stopping pass
// during scheduler shutdown.
//
// # HTTP Endpoints
//
//   - GET /security : last reconciliation and schedule.
//   - POST /security/reconcile : run a pass now (?dry_run=true plans only).
package security
