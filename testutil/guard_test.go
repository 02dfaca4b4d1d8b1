package testutil

import "testing"

func TestInternalImportForbidden(t *testing.T) {
	cases := map[string]bool{
		"brepcore/internal/core": true,
		"internal/core":          true,
		"brepcore/pkg/brep":      false,
		"fmt":                    false,
	}
	for path, want := range cases {
		if got := InternalImportForbidden(path); got != want {
			t.Errorf("InternalImportForbidden(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	AssertNoDirectImports(t, ".", InternalImportForbidden, "testutil depends only on the standard library")
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations("does-not-exist", InternalImportForbidden); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
