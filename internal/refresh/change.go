package refresh

import "github.com/basket/configwatch/internal/config"

// Change is a reported configuration change: a reference to a
// WatchedSource's source path, and the Configuration now in effect.
// Config is never nil — it is the default-configuration singleton when
// no config file applies.
type Change struct {
	SourcePath string
	Config     *config.Configuration
}
