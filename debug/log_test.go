package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	Log("scan", "nothing", "k", 1) // must not panic
	if Enabled() {
		t.Error("expected logging disabled")
	}
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("scan", "parameter updated", "name", "EnableArp", "value", 1)

	out := buf.String()
	for _, want := range []string{"category=scan", `msg="parameter updated"`, "name=EnableArp", "value=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "rt", "send failed")
	}

	if n := strings.Count(buf.String(), "send failed"); n != 2 {
		t.Errorf("expected 2 lines, got %d: %s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "count=10") {
		t.Errorf("expected count=10 in %s", buf.String())
	}
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "debug.log")
	if err := EnableFile(path); err != nil {
		t.Fatal(err)
	}
	Log("ports", "output connected", "port", "0-Coast")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Debug logging started") || !strings.Contains(string(data), "port=0-Coast") {
		t.Errorf("unexpected log contents: %s", data)
	}
}
