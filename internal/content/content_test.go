package content

import (
	"strings"
	"testing"
)

func TestLoad_EmbeddedSite(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Owner.Name == "" {
		t.Error("owner name missing")
	}
	if len(s.Projects) != 5 {
		t.Errorf("projects = %d, want 5", len(s.Projects))
	}
	if len(s.HireMe.Services) != 4 {
		t.Errorf("services = %d, want 4", len(s.HireMe.Services))
	}
	if s.Resume.PDF == "" {
		t.Error("resume pdf path missing")
	}
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	const bad = `
owner: {name: ""}
projects:
  - {title: ""}
footer:
  - {title: GitHub}
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"owner.name", "projects[0]", "footer[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("projects: [unclosed")); err == nil {
		t.Fatal("expected yaml error")
	}
}
