package policy

import "testing"

func TestParseMissingVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    MissingVersion
		wantErr bool
	}{
		{in: "Use Latest", want: UseLatest},
		{in: "use   latest", want: UseLatest},
		{in: "Use One Version Below", want: UseOneVersionBelow},
		{in: "below", want: UseOneVersionBelow},
		{in: "SKIP", want: Skip},
		{in: "newest", want: UseLatest, wantErr: true},
		{in: "", want: UseLatest, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMissingVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMissingVersion(%q) err=%v wantErr=%t", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseMissingVersion(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestMissingVersionLabelsRoundTrip(t *testing.T) {
	for _, m := range MissingVersions() {
		got, err := ParseMissingVersion(m.String())
		if err != nil {
			t.Fatalf("ParseMissingVersion(%q) failed: %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("label %q parsed as %v, want %v", m.String(), got, m)
		}
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	if !p.AlwaysUpdateToNewest {
		t.Fatalf("AlwaysUpdateToNewest should default to true")
	}
	if p.CanDowngrade || p.AlwaysDownload || p.MoveOlderToSubfolder {
		t.Fatalf("unexpected default flags: %+v", p)
	}
	if p.MissingVersion != UseLatest {
		t.Fatalf("MissingVersion default=%v want=%v", p.MissingVersion, UseLatest)
	}
}
