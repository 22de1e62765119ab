package bus

// TopicConfigChanged is published once per refresh pass for every
// change the RefreshCoordinator emits.
const TopicConfigChanged = "config.changed"

// TopicWatchError is published when the WatchEngine reports a fatal
// OS-level event-channel error, surfaced to any bus subscriber before
// the watch itself is torn down.
const TopicWatchError = "watch.error"

// ConfigChangedEvent is the payload of TopicConfigChanged. RunID
// correlates every ConfigChangedEvent published from a single
// RefreshCoordinator.Refresh call.
type ConfigChangedEvent struct {
	RunID      string
	SourcePath string
	ConfigPath string // empty when the change falls back to the default configuration
}

// WatchErrorEvent is the payload of TopicWatchError.
type WatchErrorEvent struct {
	Message string
}
