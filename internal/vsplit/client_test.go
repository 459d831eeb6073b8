package vsplit_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"passpack/internal/testsupport"
	"passpack/internal/vsplit"
)

func TestSplitRunsInImageDirectory(t *testing.T) {
	base := t.TempDir()
	workDir := filepath.Join(base, "ticket_42")
	image := filepath.Join(workDir, "ticket_42_base.png")
	testsupport.WriteFile(t, image, []byte("png"))

	callFile := filepath.Join(base, "call")
	binary := filepath.Join(base, "visual-split")
	testsupport.WriteScript(t, binary, fmt.Sprintf(
		"printf '%%s %%s\\n' \"$(pwd)\" \"$1\" > %q\ntouch Password_A.png Password_B.png\n", callFile))

	cli := vsplit.NewCLI(vsplit.WithBinary(binary))
	shareA, shareB, err := cli.Split(context.Background(), image)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if shareA != filepath.Join(workDir, vsplit.ShareAName) {
		t.Fatalf("share A = %q", shareA)
	}
	if shareB != filepath.Join(workDir, vsplit.ShareBName) {
		t.Fatalf("share B = %q", shareB)
	}

	call, err := os.ReadFile(callFile)
	if err != nil {
		t.Fatalf("read captured call: %v", err)
	}
	fields := strings.Fields(string(call))
	if len(fields) != 2 {
		t.Fatalf("unexpected capture %q", call)
	}
	if fields[0] != workDir {
		t.Fatalf("tool ran in %q, want %q", fields[0], workDir)
	}
	if fields[1] != "ticket_42_base.png" {
		t.Fatalf("tool received %q, want the bare filename", fields[1])
	}
}

func TestSplitFailsWhenToolExitsNonZero(t *testing.T) {
	base := t.TempDir()
	image := filepath.Join(base, "base.png")
	testsupport.WriteFile(t, image, []byte("png"))

	binary := filepath.Join(base, "visual-split")
	testsupport.WriteScript(t, binary, "echo boom >&2\nexit 1\n")

	cli := vsplit.NewCLI(vsplit.WithBinary(binary))
	if _, _, err := cli.Split(context.Background(), image); err == nil {
		t.Fatal("expected tool failure")
	}
}

func TestSplitFailsWhenSharesMissing(t *testing.T) {
	base := t.TempDir()
	image := filepath.Join(base, "base.png")
	testsupport.WriteFile(t, image, []byte("png"))

	binary := filepath.Join(base, "visual-split")
	testsupport.WriteScript(t, binary, "touch Password_A.png\n")

	cli := vsplit.NewCLI(vsplit.WithBinary(binary))
	if _, _, err := cli.Split(context.Background(), image); err == nil {
		t.Fatal("expected error for missing share")
	}
}
