package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its parent were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.GetPreference("", "missing"); err != nil || ok {
		t.Fatalf("GetPreference(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	if err := store.SetPreference("", "model", "gpt-4"); err != nil {
		t.Fatalf("SetPreference() failed: %v", err)
	}
	if err := store.SetPreference("", "model", "gpt-3.5-turbo"); err != nil {
		t.Fatalf("SetPreference() overwrite failed: %v", err)
	}

	v, ok, err := store.GetPreference("", "model")
	if err != nil {
		t.Fatalf("GetPreference() failed: %v", err)
	}
	if !ok || v != "gpt-3.5-turbo" {
		t.Errorf("GetPreference() = %q, %v; want gpt-3.5-turbo, true", v, ok)
	}
}

func TestPreferenceScopesAreIsolated(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetPreference("alice", "k", "a"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPreference("bob", "k", "b"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		scope string
		want  string
		ok    bool
	}{
		{"alice", "a", true},
		{"bob", "b", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok, err := store.GetPreference(tt.scope, "k")
		if err != nil {
			t.Fatalf("GetPreference(%q) failed: %v", tt.scope, err)
		}
		if got != tt.want || ok != tt.ok {
			t.Errorf("GetPreference(%q) = %q, %v; want %q, %v", tt.scope, got, ok, tt.want, tt.ok)
		}
	}
}

func TestListAndDeletePreferences(t *testing.T) {
	store := openTestStore(t)

	for _, kv := range [][2]string{{"b", "2"}, {"a", "1"}, {"c", "3"}} {
		if err := store.SetPreference("", kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}

	prefs, err := store.ListPreferences("")
	if err != nil {
		t.Fatalf("ListPreferences() failed: %v", err)
	}
	if len(prefs) != 3 {
		t.Fatalf("Expected 3 preferences, got %d", len(prefs))
	}
	if prefs[0].Key != "a" || prefs[2].Key != "c" {
		t.Errorf("preferences not ordered by key: %+v", prefs)
	}
	if prefs[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	if err := store.DeletePreference("", "b"); err != nil {
		t.Fatalf("DeletePreference() failed: %v", err)
	}
	if err := store.DeletePreference("", "b"); err != nil {
		t.Fatalf("DeletePreference() of missing key failed: %v", err)
	}

	prefs, err = store.ListPreferences("")
	if err != nil {
		t.Fatal(err)
	}
	if len(prefs) != 2 {
		t.Errorf("Expected 2 preferences after delete, got %d", len(prefs))
	}
}

func TestDarkMode(t *testing.T) {
	store := openTestStore(t)

	enabled, err := store.DarkMode("")
	if err != nil {
		t.Fatalf("DarkMode() failed: %v", err)
	}
	if enabled {
		t.Error("Dark mode should default to false")
	}

	if err := store.SetDarkMode("", true); err != nil {
		t.Fatalf("SetDarkMode() failed: %v", err)
	}
	if enabled, _ := store.DarkMode(""); !enabled {
		t.Error("Dark mode should be true after SetDarkMode(true)")
	}

	// Stored as a plain boolean string.
	v, _, _ := store.GetPreference("", DarkModeKey)
	if v != "true" {
		t.Errorf("stored value = %q, want \"true\"", v)
	}

	if err := store.SetPreference("", DarkModeKey, "garbage"); err != nil {
		t.Fatal(err)
	}
	if enabled, err := store.DarkMode(""); err != nil || enabled {
		t.Errorf("unparsable value: DarkMode() = %v, %v; want false, nil", enabled, err)
	}
}

func TestScopedDarkModePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Scope("alice").SetDarkMode(true); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if enabled, err := store.Scope("alice").DarkMode(); err != nil || !enabled {
		t.Errorf("alice DarkMode() = %v, %v; want true, nil", enabled, err)
	}
	if enabled, _ := store.Scope("bob").DarkMode(); enabled {
		t.Error("bob should not inherit alice's theme")
	}
}
