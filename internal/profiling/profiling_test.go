package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAndReset(t *testing.T) {
	ResetFrame()
	stop := Track("meshing.Tick")
	time.Sleep(time.Millisecond)
	stop()
	Track("meshing.BuildChunkMesh")()
	Track("gl.Publish")()

	if Count("meshing.Tick") != 1 {
		t.Fatalf("count: got %d", Count("meshing.Tick"))
	}
	if SumWithPrefix("meshing.") < time.Millisecond {
		t.Errorf("meshing sum too small: %v", SumWithPrefix("meshing."))
	}
	top := TopN(1)
	if !strings.HasPrefix(top, "meshing.Tick:") {
		t.Errorf("TopN(1) = %q", top)
	}
	if got := strings.Count(TopN(10), ","); got != 2 {
		t.Errorf("TopN(10) should list 3 buckets: %q", TopN(10))
	}

	ResetFrame()
	if len(Snapshot()) != 0 || Count("meshing.Tick") != 0 {
		t.Errorf("ResetFrame did not clear")
	}
}
