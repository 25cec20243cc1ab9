// Package loader mounts features onto the Fiber router.
//
// A feature owns its routes and reports whether it should be loaded:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps features in registration order. LoadAll skips disabled
// features and stops at the first one that fails to load. The compare
// feature is disabled when no service could be built for it.
package loader
