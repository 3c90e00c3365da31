package preproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStripCommentsPreservesLineCount(t *testing.T) {
	src := "int x; // trailing comment\n/* block\nspanning\nlines */\nint y;\n"
	out := StripComments(src)
	if strings.Count(out, "\n") != strings.Count(src, "\n") {
		t.Fatalf("line count changed: %d vs %d", strings.Count(out, "\n"), strings.Count(src, "\n"))
	}
	if strings.Contains(out, "trailing comment") || strings.Contains(out, "spanning") {
		t.Errorf("comments were not stripped: %q", out)
	}
	if !strings.Contains(out, "int x;") || !strings.Contains(out, "int y;") {
		t.Errorf("code was stripped along with comments: %q", out)
	}
}

func TestStripCommentsLeavesStringContentsAlone(t *testing.T) {
	src := `Print("not // a comment");`
	out := StripComments(src)
	if !strings.Contains(out, "not // a comment") {
		t.Errorf("a string literal's contents must survive stripping: %q", out)
	}
}

func TestRunWritesPreFileAndCachesOnRerun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.dec")
	if err := os.WriteFile(path, []byte("int x; // hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r1, err := Run(path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r1.Cached {
		t.Errorf("first run should not be reported as cached")
	}
	if _, err := os.Stat(r1.PrePath); err != nil {
		t.Errorf(".pre file was not written: %v", err)
	}

	r2, err := Run(path)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !r2.Cached {
		t.Errorf("second run against unchanged source should be cached")
	}
	if r2.Fingerprint != r1.Fingerprint {
		t.Errorf("fingerprint changed without a source change")
	}
}
