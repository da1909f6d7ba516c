package notepad

import "testing"

func TestModeRegistryLoads(t *testing.T) {
	r, err := NewModeRegistry()
	if err != nil {
		t.Fatalf("NewModeRegistry() error = %v", err)
	}

	wantOrder := []string{"free", "improve", "summarize", "tasks", "rewrite"}
	names := r.Names()
	if len(names) != len(wantOrder) {
		t.Fatalf("Names() = %v, want %v", names, wantOrder)
	}
	for i, name := range wantOrder {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestModeMergeStrategies(t *testing.T) {
	r, err := NewModeRegistry()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		merge   MergeStrategy
		heading string
	}{
		{name: "free", merge: MergeAppend, heading: "AI Output:"},
		{name: "improve", merge: MergeReplace},
		{name: "summarize", merge: MergeAppend, heading: "AI Summary:"},
		{name: "tasks", merge: MergeAppend, heading: "AI Tasks:"},
		{name: "rewrite", merge: MergeReplace},
	}

	for _, tt := range tests {
		mode, ok := r.Get(tt.name)
		if !ok {
			t.Errorf("mode %q missing", tt.name)
			continue
		}
		if mode.Merge != tt.merge {
			t.Errorf("mode %q merge = %q, want %q", tt.name, mode.Merge, tt.merge)
		}
		if mode.Heading != tt.heading {
			t.Errorf("mode %q heading = %q, want %q", tt.name, mode.Heading, tt.heading)
		}
	}

	// Free mode deliberately carries no default instruction.
	if got := r.DefaultInstruction("free"); got != "" {
		t.Errorf("DefaultInstruction(free) = %q, want empty", got)
	}
	if got := r.DefaultInstruction("improve"); got == "" {
		t.Error("DefaultInstruction(improve) should not be empty")
	}
}
