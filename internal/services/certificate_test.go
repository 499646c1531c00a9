package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("ttf"), 0o644); err != nil {
		t.Fatalf("Failed to write font file: %v", err)
	}
	return path
}

func TestResolveFont_PrefersConfiguredPath(t *testing.T) {
	configured := fakeFont(t)
	s := NewCertificateService(configured)

	path, err := s.resolveFont()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if path != configured {
		t.Errorf("Expected configured path %s, got %s", configured, path)
	}
}

func TestResolveFont_SystemFallback(t *testing.T) {
	fallback := fakeFont(t)
	orig := systemFontPaths
	systemFontPaths = []string{filepath.Join(t.TempDir(), "missing.ttf"), fallback}
	defer func() { systemFontPaths = orig }()

	s := NewCertificateService("./fonts/no-such-font.ttf")
	path, err := s.resolveFont()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if path != fallback {
		t.Errorf("Expected fallback path %s, got %s", fallback, path)
	}
}

func TestResolveFont_NothingInstalled(t *testing.T) {
	orig := systemFontPaths
	systemFontPaths = nil
	defer func() { systemFontPaths = orig }()

	s := NewCertificateService("./fonts/no-such-font.ttf")
	if _, err := s.resolveFont(); err == nil {
		t.Error("Expected an error when no font exists anywhere")
	}
}

func TestWrapText_BreaksOnWords(t *testing.T) {
	lines := wrapText("один два три четыре пять", 10)
	for _, line := range lines {
		if len([]rune(line)) > 10 {
			t.Errorf("Line exceeds width: %q", line)
		}
		if strings.HasPrefix(line, " ") || strings.HasSuffix(line, " ") {
			t.Errorf("Line has edge spaces: %q", line)
		}
	}
}
