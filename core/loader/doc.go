// Package loader mounts API features on the Fiber app.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager registers features and loads the enabled ones in order. The cycle
// feature is the only one today; history routes join it when the database is
// configured.
package loader
