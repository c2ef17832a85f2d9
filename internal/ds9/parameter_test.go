package ds9

import (
	"reflect"
	"testing"
)

func TestNormalizeParameter(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"12.5", "12.5"},
		{"-3e2", "-3e2"},
		{".5", ".5"},
		{"12d", "12deg"},
		{"1.5r", "1.5rad"},
		{"40p", "40pixel"},
		{"40i", "40pixel"},
		{`20"`, `20"`},
		{"3'", "3'"},
		{"12:30:45.5", "12:30:45.5"},
		{"-12:30:45", "-12:30:45"},
		{"12h30m45s", "12h30m45s"},
		{"12h30m45", "12h30m45"},
		{"-30d15m20s", "-30d15m20s"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ierr := normalizeParameter(tt.token, "circle")
			if ierr != nil {
				t.Fatalf("unexpected error: %v", ierr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeParameter_Invalid(t *testing.T) {
	tests := []struct {
		token   string
		message string
	}{
		{"abc", "circle invalid parameter abc, not a numeric value."},
		{"", "circle invalid parameter , not a numeric value."},
		{".", "circle invalid parameter ., not a numeric value."},
		{"5x", "circle invalid parameter unit: 5x."},
		{"5deg", "circle invalid parameter unit: 5deg."},
		{"12:30", "circle invalid parameter unit: 12:30."},
		{"1h2m", "circle invalid parameter unit: 1h2m."},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, ierr := normalizeParameter(tt.token, "circle")
			if ierr == nil {
				t.Fatal("expected error")
			}
			if ierr.Message != tt.message {
				t.Errorf("got %q, want %q", ierr.Message, tt.message)
			}
			if ierr.Kind != KindFormat {
				t.Errorf("kind: got %s, want %s", ierr.Kind, KindFormat)
			}
		})
	}
}

func TestNumericPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 2},
		{"12.", 3},
		{"-0.5x", 4},
		{"1e10", 4},
		{"1e", 1},
		{"1e+", 1},
		{"2E-3s", 4},
		{"+", 0},
		{"-.", 0},
		{"x1", 0},
		{"12:30:00", 2},
	}

	for _, tt := range tests {
		if got := numericPrefix(tt.in); got != tt.want {
			t.Errorf("numericPrefix(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLatitudeForm(t *testing.T) {
	if got := latitudeForm("+47:11:43.5"); got != "+47.11.43.5" {
		t.Errorf("got %q", got)
	}
	if got := latitudeForm("12.5"); got != "12.5" {
		t.Errorf("plain numbers should be unchanged, got %q", got)
	}
}

func TestSplitDefinition(t *testing.T) {
	tests := []struct {
		line   string
		params []string
		props  map[string]string
	}{
		{
			line:   "circle(100,100,20)",
			params: []string{"circle", "100", "100", "20"},
		},
		{
			line:   "circle 100  100 , 20",
			params: []string{"circle", "100", "100", "20"},
		},
		{
			line:   `ellipse(1,2,3",4",5) # text={M 51} color=#ff0000 source`,
			params: []string{"ellipse", "1", "2", `3"`, `4"`, "5"},
			props:  map[string]string{"text": "M 51", "color": "#ff0000", "source": ""},
		},
		{
			line:   `box(1,2,3,4) # font="times 12 bold" tag='a'`,
			params: []string{"box", "1", "2", "3", "4"},
			props:  map[string]string{"font": "times 12 bold", "tag": "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			params, props, err := splitDefinition(tt.line)
			if err != nil {
				t.Fatalf("splitDefinition failed: %v", err)
			}
			if !reflect.DeepEqual(params, tt.params) {
				t.Errorf("params: got %q, want %q", params, tt.params)
			}
			if len(tt.props) == 0 {
				if len(props) != 0 {
					t.Errorf("expected no properties, got %v", props)
				}
				return
			}
			if !reflect.DeepEqual(props, tt.props) {
				t.Errorf("props: got %v, want %v", props, tt.props)
			}
		})
	}
}
