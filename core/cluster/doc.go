// Package cluster holds the local node identity: application name, region,
// private and public address, seed flag and the storage port interval that
// peers must be able to reach.
//
// The identity comes from configuration and is exposed through the
// IdentitySource interface so the reconciler reads it fresh on every tick.
package cluster
