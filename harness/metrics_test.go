package harness

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMetricsJSONOmitsSkippedFalsify(t *testing.T) {
	m := NewMetrics("iter_tip5", 10)
	m.ProofDuration = time.Second

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(b), "falsify_duration_ns") {
		t.Errorf("unfalsified metrics carry a falsify duration: %s", b)
	}
	if !strings.Contains(string(b), `"falsified":false`) {
		t.Errorf("falsified flag missing: %s", b)
	}

	m.Falsified = true
	m.FalsifyDuration = 3 * time.Millisecond

	b, err = json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(b), `"falsify_duration_ns":3000000`) {
		t.Errorf("falsify duration missing: %s", b)
	}
}
