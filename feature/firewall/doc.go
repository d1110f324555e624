// Package firewall provides the ACL provider contract and its implementations.
//
// A Provider manages CIDR ranges permitted on a fixed port interval
// (PortRange). The security reconciler only ever grants single hosts, so
// ranges are "<address>/32" strings built by HostRange; their identity is
// plain string equality.
//
// # Providers
//
//   - MemoryProvider: process-local store for development and tests.
//   - DatabaseProvider: gorm-backed rule table (acl_rules), rendered into the
//     actual firewall by an external agent.
//
// # HTTP Endpoints
//
//   - GET /firewall : ranges currently permitted on the configured interval.
package firewall
