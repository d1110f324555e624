// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which names it, reports
// whether it is enabled and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll()
//
// Features like 'security', 'membership' and 'firewall' are developed and
// tested in isolation and only meet in the start command.
package loader
