package profile

import (
	"slices"
	"testing"
)

func TestMake(t *testing.T) {
	c := Make(WithMode("cpu"), WithDir("/tmp/p"), WithQuiet(true))

	want := Config{Mode: "cpu", Dir: "/tmp/p", Quiet: true}
	if c != want {
		t.Errorf("Make() = %+v, want %+v", c, want)
	}

	if Make() != (Config{}) {
		t.Error("Make() without options should be the zero Config")
	}
}

func TestConfig_Enabled(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "empty", mode: "", want: false},
		{name: "unknown", mode: "bogus", want: false},
		{name: "cpu", mode: "cpu", want: slices.Contains(Modes(), "cpu")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(WithMode(tt.mode)).Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	stop := Make(WithMode("bogus"), WithDir(t.TempDir())).Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
	stop.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, not sorted", m)
	}
}
