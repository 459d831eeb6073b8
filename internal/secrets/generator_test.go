package secrets_test

import (
	"strings"
	"testing"

	"passpack/internal/secrets"
)

func TestGenerateLengths(t *testing.T) {
	for _, length := range []int{1, 2, 12, 64} {
		secret, err := secrets.Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", length, err)
		}
		if len(secret) != length {
			t.Fatalf("Generate(%d) returned %d characters", length, len(secret))
		}
	}
}

func TestGenerateDrawsFromCharset(t *testing.T) {
	secret, err := secrets.Generate(256)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, char := range secret {
		if !strings.ContainsRune(secrets.Charset, char) {
			t.Fatalf("character %q not in charset", char)
		}
	}
}

func TestGenerateRejectsInvalidLength(t *testing.T) {
	for _, length := range []int{0, -1} {
		if _, err := secrets.Generate(length); err == nil {
			t.Fatalf("Generate(%d) should fail", length)
		}
	}
}

func TestGenerateProducesFreshSecrets(t *testing.T) {
	first, err := secrets.Generate(32)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := secrets.Generate(32)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first == second {
		t.Fatal("two generated secrets were identical")
	}
}
