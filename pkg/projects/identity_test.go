package projects

import "testing"

func TestParseContentURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Identity
		wantErr bool
	}{
		{
			name: "issue url",
			url:  "https://github.com/acme/widgets/issues/12",
			want: Identity{Owner: "acme", Repo: "widgets", Number: 12},
		},
		{
			name: "pull request url",
			url:  "https://github.com/acme/widgets/pull/7",
			want: Identity{Owner: "acme", Repo: "widgets", Number: 7},
		},
		{
			name: "singular issue path",
			url:  "https://github.com/acme/widgets/issue/3",
			want: Identity{Owner: "acme", Repo: "widgets", Number: 3},
		},
		{name: "repo url", url: "https://github.com/acme/widgets", wantErr: true},
		{name: "non-numeric", url: "https://github.com/acme/widgets/issues/x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContentURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseContentURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseContentURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShortURL(t *testing.T) {
	tests := []struct{ url, want string }{
		{"https://github.com/acme/widgets/issues/12", "acme/widgets#12"},
		{"https://github.com/acme/widgets/pull/7", "acme/widgets#7"},
		{"https://github.com/acme/widgets/issue/3", "acme/widgets#3"},
	}
	for _, tt := range tests {
		if got := ShortURL(tt.url); got != tt.want {
			t.Errorf("ShortURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseProjectURL(t *testing.T) {
	owner, number, err := ParseProjectURL("https://github.com/orgs/acme/projects/7")
	if err != nil {
		t.Fatalf("ParseProjectURL() error = %v", err)
	}
	if owner != "acme" || number != 7 {
		t.Errorf("ParseProjectURL() = (%q, %d), want (acme, 7)", owner, number)
	}

	if _, _, err := ParseProjectURL("https://github.com/orgs/acme/projects/7/views/2"); err != nil {
		t.Errorf("trailing view path should parse, got %v", err)
	}

	for _, bad := range []string{
		"https://github.com/acme/widgets",
		"https://github.com/orgs/acme/projects/abc",
	} {
		if _, _, err := ParseProjectURL(bad); err == nil {
			t.Errorf("ParseProjectURL(%q) expected error", bad)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !TextValue("a").Equal(TextValue("a")) {
		t.Error("equal text values")
	}
	if TextValue("a").Equal(NumberValue(1)) {
		t.Error("different kinds must not be equal")
	}
	if !(Value{}).Equal(Value{}) {
		t.Error("zero values are equal")
	}
	a := Value{Kind: ValuePullRequests, PullRequests: []string{"u1", "u2"}}
	b := Value{Kind: ValuePullRequests, PullRequests: []string{"u1", "u2"}}
	if !a.Equal(b) {
		t.Error("equal PR lists")
	}
	b.PullRequests = []string{"u2", "u1"}
	if a.Equal(b) {
		t.Error("order matters for PR lists")
	}
}
