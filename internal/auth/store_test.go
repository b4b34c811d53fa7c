package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
	}{
		{
			name: "bearer token",
			token: &oauth2.Token{
				AccessToken: "app-token",
				TokenType:   "Bearer",
				Expiry:      time.Now().Add(time.Hour).Truncate(time.Second),
			},
		},
		{
			name: "token without expiry",
			token: &oauth2.Token{
				AccessToken: "forever",
				TokenType:   "Bearer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewFileStore(filepath.Join(t.TempDir(), "token.json"))

			if err := store.Save(tt.token); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := store.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded == nil {
				t.Fatal("Load() returned nil token")
			}
			if loaded.AccessToken != tt.token.AccessToken {
				t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, tt.token.AccessToken)
			}
			if !loaded.Expiry.Equal(tt.token.Expiry) {
				t.Errorf("Expiry = %v, want %v", loaded.Expiry, tt.token.Expiry)
			}
		})
	}
}

func TestFileStore_LoadNonExistent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	token, err := store.Load()
	if err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}
	if token != nil {
		t.Errorf("Load() = %v, want nil", token)
	}
}

func TestFileStore_SaveCreatesDirectoryAndRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
	store := NewFileStore(path)

	if err := store.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat token dir: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("dir permissions = %o, want 700", perm)
	}
}

func TestFileStore_SaveNilToken(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	if err := store.Save(nil); err == nil {
		t.Error("Save(nil) should return error")
	}
}

func TestFileStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)

	if err := store.Delete(); err != nil {
		t.Errorf("Delete() on missing file error = %v", err)
	}

	if err := store.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file still exists after Delete()")
	}
	if store.Path() != path {
		t.Errorf("Path() = %q, want %q", store.Path(), path)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if tok, err := store.Load(); tok != nil || err != nil {
		t.Fatalf("empty Load() = (%v, %v)", tok, err)
	}

	orig := &oauth2.Token{AccessToken: "a"}
	if err := store.Save(orig); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	orig.AccessToken = "mutated"

	tok, _ := store.Load()
	if tok == nil || tok.AccessToken != "a" {
		t.Errorf("Load() = %v, want stored copy", tok)
	}

	_ = store.Delete()
	if tok, _ := store.Load(); tok != nil {
		t.Error("Load() after Delete() should be nil")
	}
}
