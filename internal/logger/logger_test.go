package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriterLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	log := NewWithWriter(buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "items", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output %q: %v", buf.String(), err)
	}
	if line["msg"] != "shown" {
		t.Fatalf("msg=%v", line["msg"])
	}
	if line["items"] != float64(3) {
		t.Fatalf("items=%v", line["items"])
	}
}
