package docgen_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"passpack/internal/docgen"
	"passpack/internal/testsupport"
)

func TestRenderPassesPathsAndProducesDocument(t *testing.T) {
	base := t.TempDir()
	template := filepath.Join(base, "template.docx")
	image := filepath.Join(base, "Password_A.png")
	output := filepath.Join(base, "ticket_42.docx")
	testsupport.WriteFile(t, template, []byte("tpl"))
	testsupport.WriteFile(t, image, []byte("png"))

	argsFile := filepath.Join(base, "args")
	binary := filepath.Join(base, "mkdocx")
	testsupport.WriteScript(t, binary, fmt.Sprintf(
		"printf '%%s\\n' \"$@\" > %q\ntouch \"$6\"\n", argsFile))

	cli := docgen.NewCLI(docgen.WithBinary(binary))
	if err := cli.Render(context.Background(), template, image, output); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("document missing: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read captured args: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(args)), "\n")
	want := []string{"--template", template, "--image", image, "--out", output}
	if len(lines) != len(want) {
		t.Fatalf("argv = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("argv[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderFailsWhenToolExitsNonZero(t *testing.T) {
	base := t.TempDir()
	binary := filepath.Join(base, "mkdocx")
	testsupport.WriteScript(t, binary, "exit 3\n")

	cli := docgen.NewCLI(docgen.WithBinary(binary))
	err := cli.Render(context.Background(),
		filepath.Join(base, "t.docx"), filepath.Join(base, "i.png"), filepath.Join(base, "o.docx"))
	if err == nil {
		t.Fatal("expected tool failure")
	}
}

func TestRenderFailsWhenOutputMissing(t *testing.T) {
	base := t.TempDir()
	binary := filepath.Join(base, "mkdocx")
	testsupport.WriteScript(t, binary, "exit 0\n")

	cli := docgen.NewCLI(docgen.WithBinary(binary))
	err := cli.Render(context.Background(),
		filepath.Join(base, "t.docx"), filepath.Join(base, "i.png"), filepath.Join(base, "o.docx"))
	if err == nil {
		t.Fatal("expected error for missing output document")
	}
}

func TestRenderValidatesArguments(t *testing.T) {
	cli := docgen.NewCLI()
	if err := cli.Render(context.Background(), "", "i.png", "o.docx"); err == nil {
		t.Fatal("expected error for missing template")
	}
	if err := cli.Render(context.Background(), "t.docx", "", "o.docx"); err == nil {
		t.Fatal("expected error for missing image")
	}
	if err := cli.Render(context.Background(), "t.docx", "i.png", ""); err == nil {
		t.Fatal("expected error for missing output path")
	}
}
