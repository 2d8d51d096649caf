package semver

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{name: "Basic", input: "1.2.3", want: Version{1, 2, 3}},
		{name: "Zeros", input: "0.0.0", want: Version{0, 0, 0}},
		{name: "Whitespace", input: " 2.10.0 ", want: Version{2, 10, 0}},
		{name: "Leading v", input: "v1.2.3", wantErr: true},
		{name: "Two components", input: "1.2", wantErr: true},
		{name: "Pre-release", input: "1.2.3-rc1", wantErr: true},
		{name: "Garbage", input: "banana", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBump(t *testing.T) {
	base := Version{1, 2, 3}

	tests := []struct {
		kind Kind
		want string
	}{
		{KindMajor, "2.0.0"},
		{KindMinor, "1.3.0"},
		{KindPatch, "1.2.4"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := Bump(base, tt.kind).String(); got != tt.want {
				t.Errorf("Bump(%v, %s) = %s, want %s", base, tt.kind, got, tt.want)
			}
			// Same input, same output.
			if again := Bump(base, tt.kind).String(); again != tt.want {
				t.Errorf("Bump not deterministic: got %s then %s", tt.want, again)
			}
		})
	}
}

func TestKindFromLabels(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		want    Kind
		wantErr bool
	}{
		{name: "None defaults to patch", labels: nil, want: KindPatch},
		{name: "Single major", labels: []string{"bump:major"}, want: KindMajor},
		{name: "Single minor", labels: []string{"docs", "bump:minor"}, want: KindMinor},
		{name: "Commit message", labels: []string{"Merge PR #42 (bump:patch)"}, want: KindPatch},
		{name: "Repeated same label", labels: []string{"bump:minor", "bump:minor"}, want: KindMinor},
		{name: "Conflicting labels", labels: []string{"bump:major", "bump:patch"}, wantErr: true},
		{name: "Unrelated labels", labels: []string{"enhancement", "python"}, want: KindPatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindFromLabels(tt.labels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("KindFromLabels(%v) error = %v, wantErr %v", tt.labels, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("KindFromLabels(%v) = %s, want %s", tt.labels, got, tt.want)
			}
		})
	}
}
