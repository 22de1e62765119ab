package bus

import "testing"

func TestTopics_NotEmpty(t *testing.T) {
	if TopicConfigChanged == "" {
		t.Fatal("TopicConfigChanged is empty")
	}
	if TopicWatchError == "" {
		t.Fatal("TopicWatchError is empty")
	}
	if TopicConfigChanged == TopicWatchError {
		t.Fatal("topics must be distinct")
	}
}

func TestConfigChangedEvent_Fields(t *testing.T) {
	ev := ConfigChangedEvent{RunID: "r1", SourcePath: "/t/hello.js", ConfigPath: "/t/quick-lint-js.config"}
	if ev.RunID == "" || ev.SourcePath == "" || ev.ConfigPath == "" {
		t.Fatal("expected all fields set")
	}
}
