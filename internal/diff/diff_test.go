package diff

import (
	"strings"
	"testing"
)

func TestComputeUnchanged(t *testing.T) {
	r := Compute("# Tags\n", "# Tags\n", "a", "b")
	if r.Changed {
		t.Fatal("expected no change")
	}
	if got := r.Format(false); got != "" {
		t.Errorf("Format() = %q, want empty", got)
	}
}

func TestComputeAddedGroup(t *testing.T) {
	old := "# Contents grouped by tag\n\n## go\n\n* [A](a/)\n"
	updated := old + "\n## rust\n\n* [B](b/)\n"

	r := Compute(old, updated, "aux/tags.md", "generated")
	if !r.Changed {
		t.Fatal("expected a change")
	}

	out := r.Format(false)
	for _, want := range []string{
		"--- aux/tags.md\n+++ generated\n",
		"+ ## rust\n",
		"+ * [B](b/)\n",
		"  ## go\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(r.Diff, "\n") {
		if strings.HasPrefix(line, "- ") {
			t.Errorf("unexpected deletion %q in diff:\n%s", line, r.Diff)
		}
	}
}

func TestComputeReplacedLine(t *testing.T) {
	r := Compute("* [A](a/) (2019)\n", "* [A](a/) (2020)\n", "old", "new")
	out := r.Format(false)
	if !strings.Contains(out, "- * [A](a/) (2019)\n") || !strings.Contains(out, "+ * [A](a/) (2020)\n") {
		t.Errorf("expected whole-line replacement, got:\n%s", out)
	}
}

func TestFormatCollapsesLongContext(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "line")
	}
	common := strings.Join(lines, "\n") + "\n"
	r := Compute(common+"old\n", common+"new\n", "a", "b")
	if !strings.Contains(r.Diff, "  ...\n") {
		t.Errorf("expected collapsed context, got:\n%s", r.Diff)
	}
}

func TestColourise(t *testing.T) {
	out := Colourise("- gone\n+ added\n  same\n")
	if !strings.Contains(out, "\033[31m- gone\033[0m") {
		t.Errorf("deletion not red: %q", out)
	}
	if !strings.Contains(out, "\033[32m+ added\033[0m") {
		t.Errorf("insertion not green: %q", out)
	}
	if !strings.Contains(out, "  same\n") {
		t.Errorf("context changed: %q", out)
	}
}
