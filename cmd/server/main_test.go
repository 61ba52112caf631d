package main

import (
	"crypto/tls"
	"strings"
	"testing"
	"time"

	"slidedeck/internal/config"
	"slidedeck/internal/deck"
	"slidedeck/internal/services"
	"slidedeck/internal/ui"
)

func TestTalkBuilds(t *testing.T) {
	if err := deck.Validate(Talk("Test", 30*time.Minute)); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestTalkShowsDemoSource(t *testing.T) {
	p := ui.NewPage("p", "s", services.NewMemoryStore())
	defer p.Close()
	if _, err := deck.Mount(p, Talk("Test", 0)); err != nil {
		t.Fatal(err)
	}
	html, err := p.Render()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Hello world!", "Spawn", "Run"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered talk lacks %q", want)
		}
	}
}

func TestOpenMemoryStore(t *testing.T) {
	store, backend, err := openStore(config.StorageConfig{Backend: config.BackendMemory})
	if err != nil || store == nil || backend != nil {
		t.Fatalf("openStore(memory) = %v, %v, %v", store, backend, err)
	}
}

func TestOpenFileStore(t *testing.T) {
	store, _, err := openStore(config.StorageConfig{Backend: config.BackendFile, DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("s", deck.SlideKey, "slide_2"); err != nil {
		t.Fatal(err)
	}
}

func TestGetTLSVersion(t *testing.T) {
	tests := map[string]uint16{
		"1.0": tls.VersionTLS10,
		"1.3": tls.VersionTLS13,
		"":    tls.VersionTLS12,
	}
	for in, want := range tests {
		if got := getTLSVersion(in); got != want {
			t.Errorf("getTLSVersion(%q) = %d, want %d", in, got, want)
		}
	}
}
