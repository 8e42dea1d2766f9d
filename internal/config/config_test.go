package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ParsesFullDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restringer.yaml")
	doc := "max_iterations: 42\n" +
		"clean: true\n" +
		"detector: obfuscator.io\n" +
		"safe_rules:\n  - fold-binary\n  - dead-code\n" +
		"unsafe_rules:\n  - augmented-array\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxIterations != 42 || !c.Clean || c.Detector != "obfuscator.io" {
		t.Fatalf("unexpected scalar fields: %+v", c)
	}
	if len(c.SafeRules) != 2 || c.SafeRules[0] != "fold-binary" || c.SafeRules[1] != "dead-code" {
		t.Fatalf("unexpected safe_rules: %v", c.SafeRules)
	}
	if len(c.UnsafeRules) != 1 || c.UnsafeRules[0] != "augmented-array" {
		t.Fatalf("unexpected unsafe_rules: %v", c.UnsafeRules)
	}
}

func TestLoad_EngineVersion_SatisfiedConstraintPasses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restringer.yaml")
	doc := "engine_version: \">= 0.0.1, < 1.0.0\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_EngineVersion_UnsatisfiedConstraintErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restringer.yaml")
	doc := "engine_version: \">= 99.0.0\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an engine_version the running binary can't satisfy")
	}
}

func TestLoad_EngineVersion_MalformedConstraintErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restringer.yaml")
	doc := "engine_version: \"not a constraint\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a malformed engine_version constraint")
	}
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoad_EmptyDocument_ReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxIterations != 0 || c.Clean || c.Detector != "" || c.SafeRules != nil || c.UnsafeRules != nil {
		t.Fatalf("expected zero value, got %+v", c)
	}
}
