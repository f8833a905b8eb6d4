package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestSetLevelAppliesToDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger("root")
	root.out = log.New(&buf, "", 0)

	child := root.WithPrefix("child")

	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected Debug to be suppressed at the default level, got %q", buf.String())
	}

	root.SetLevel(LevelDebug)
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("SetLevel on root did not reach a logger derived via WithPrefix before the call: %q", buf.String())
	}
}

func TestWithPrefixTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger("root")
	root.out = log.New(&buf, "", 0)

	dirLogger := root.WithPrefix("dirbackend")
	resolveLogger := root.WithPrefix("resolve")

	dirLogger.Info("enumerated")
	resolveLogger.Info("opened")

	out := buf.String()
	if !strings.Contains(out, "dirbackend: enumerated") {
		t.Errorf("expected dirbackend's own component tag in %q", out)
	}
	if !strings.Contains(out, "resolve: opened") {
		t.Errorf("expected resolve's own component tag in %q", out)
	}
}
