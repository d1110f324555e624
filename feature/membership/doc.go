// Package membership is the cluster membership registry.
//
// Every cluster process publishes a Member record (region, private host name,
// public host address) under its application id. The security reconciler
// reads the full list through the Registry interface on every tick.
//
// # Backends
//
//   - database: gorm table cluster_members, upserted on Register.
//   - redis: one key per instance written with a TTL; a node that stops
//     heartbeating drops out of the list when its key expires.
//   - object: one JSON object per instance under members/<app>/ in a bucket.
//
// Records are refreshed by HeartbeatTask and removed by Deregister on
// graceful shutdown.
//
// # HTTP Endpoints
//
//   - GET /membership : members of the configured application.
package membership
