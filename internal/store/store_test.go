package store_test

import (
	"bytes"
	"testing"

	"vaultlink/internal/domain"
	"vaultlink/internal/store"
)

func TestVaultStore_GetPutDelete(t *testing.T) {
	s := store.NewFileVaultStore(t.TempDir())

	if _, ok, err := s.Get(domain.VaultKey); err != nil || ok {
		t.Fatalf("empty store Get = %v, %v", ok, err)
	}
	blob := []byte(`{"version":1,"entries":[]}`)
	if err := s.Put(domain.VaultKey, blob); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(domain.VaultKey)
	if err != nil || !ok || !bytes.Equal(got, blob) {
		t.Fatalf("Get after Put = %q, %v, %v", got, ok, err)
	}
	if err := s.Delete(domain.VaultKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(domain.VaultKey); ok {
		t.Fatal("Get after Delete found data")
	}
	// Deleting an absent key is not an error.
	if err := s.Delete(domain.VaultKey); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestVaultStore_RejectsPathKeys(t *testing.T) {
	s := store.NewFileVaultStore(t.TempDir())
	if err := s.Put("../escape", []byte("x")); err == nil {
		t.Fatal("Put with path separator: want error")
	}
}

func TestContextStore_TakeOnce(t *testing.T) {
	s := store.NewFileContextStore(t.TempDir())

	if _, ok, err := s.Take(); err != nil || ok {
		t.Fatalf("Take from empty slot = %v, %v", ok, err)
	}

	want := domain.KeyRequestContext{
		Reference:     "r1",
		EphemeralPriv: []byte{1, 2, 3},
		TargetBlob:    "VLNK1:abc",
		CreatedUnix:   1700000000,
	}
	if err := s.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Take()
	if err != nil || !ok {
		t.Fatalf("Take = %v, %v", ok, err)
	}
	if got.Reference != want.Reference || got.TargetBlob != want.TargetBlob ||
		!bytes.Equal(got.EphemeralPriv, want.EphemeralPriv) || got.CreatedUnix != want.CreatedUnix {
		t.Fatalf("Take returned %+v", got)
	}

	// The slot is consumed: a second Take misses.
	if _, ok, _ := s.Take(); ok {
		t.Fatal("second Take returned a context")
	}
}

func TestContextStore_PutOverwritesLatest(t *testing.T) {
	s := store.NewFileContextStore(t.TempDir())
	if err := s.Put(domain.KeyRequestContext{Reference: "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(domain.KeyRequestContext{Reference: "new"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Take()
	if err != nil || !ok || got.Reference != "new" {
		t.Fatalf("Take = %+v, %v, %v", got, ok, err)
	}
}

func TestContextStore_Drop(t *testing.T) {
	s := store.NewFileContextStore(t.TempDir())
	if err := s.Drop(); err != nil {
		t.Fatalf("Drop on empty slot: %v", err)
	}
	if err := s.Put(domain.KeyRequestContext{Reference: "r"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Drop(); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if _, ok, _ := s.Take(); ok {
		t.Fatal("Take found a dropped context")
	}
}

func TestSettingsStore_DefaultsAndRoundTrip(t *testing.T) {
	s := store.NewFileSettingsStore(t.TempDir())

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if got.Mode != domain.ProtectionNone || got.ChunkSize != domain.DefaultChunkSize ||
		got.PBKDF2Iterations != domain.DefaultPBKDF2Iterations || got.AESKeyBytes != domain.DefaultAESKeyBytes {
		t.Fatalf("defaults = %+v", got)
	}

	want := domain.Settings{
		Mode:               domain.ProtectionEncrypt,
		RSATransformation:  2,
		AESTransformation:  0,
		AESKeyBytes:        16,
		PBKDF2Iterations:   100000,
		ChunkSize:          150,
		CompanionPublicKey: "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n",
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip:\n got %+v\nwant %+v", got, want)
	}
}
