package zenhub

import "testing"

func TestEstimateDomain(t *testing.T) {
	known := 8.0
	scale := EstimateDomain(&known)
	if len(scale) != len(StoryPointScale) {
		t.Fatalf("known value must not grow the scale, got %v", scale)
	}

	odd := 10.0
	scale = EstimateDomain(&odd)
	if len(scale) != len(StoryPointScale)+1 {
		t.Fatalf("unknown value should be spliced in, got %v", scale)
	}
	for i := 1; i < len(scale); i++ {
		if scale[i] > scale[i-1] {
			t.Fatalf("scale must stay descending, got %v", scale)
		}
	}

	if got := EstimateDomain(nil); len(got) != len(StoryPointScale) {
		t.Errorf("nil value returns the default scale, got %v", got)
	}
}

func TestPipelineNames(t *testing.T) {
	ws := &Workspace{Pipelines: []Pipeline{{Name: "New"}, {Name: "In Progress"}, {Name: "Done"}}}
	names := ws.PipelineNames()
	if len(names) != 3 || names[0] != "New" || names[2] != "Done" {
		t.Errorf("PipelineNames() = %v", names)
	}
}
