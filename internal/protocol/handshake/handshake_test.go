package handshake_test

import (
	"crypto/rsa"
	"errors"
	"sync"
	"testing"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/protocol/handshake"
)

var (
	companionOnce sync.Once
	companionKey  *rsa.PrivateKey
	companionErr  error
)

func companion(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	companionOnce.Do(func() { companionKey, companionErr = crypto.GenerateKeyPair() })
	if companionErr != nil {
		t.Fatalf("GenerateKeyPair: %v", companionErr)
	}
	return companionKey
}

// sealedVault seals a vault document for the companion key and returns its
// textual envelope plus the document.
func sealedVault(t *testing.T, owner *rsa.PrivateKey) (string, domain.Vault) {
	t.Helper()
	v := domain.Vault{Version: 1, Entries: []domain.Entry{
		{ID: "e1", Name: "mail", Username: "me@example.org", Password: "hunter2"},
	}}
	raw, err := v.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	env, err := crypto.Seal(raw, envelope.AppEncryptedFile, &owner.PublicKey, domain.Settings{AESKeyBytes: 32})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	body, err := envelope.Encode(env)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return envelope.EncodeText(body), v
}

func TestHandshake_FullFlow(t *testing.T) {
	owner := companion(t)
	blob, want := sealedVault(t, owner)

	ctx, err := handshake.NewRequest(blob, "workspace main", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if ctx.Phase != handshake.AwaitingResponse {
		t.Fatalf("phase %v after NewRequest", ctx.Phase)
	}
	if !envelope.IsText(ctx.RequestText) {
		t.Fatal("request text lacks envelope prefix")
	}

	// Companion side.
	responseText, err := handshake.Respond(ctx.RequestText, owner)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	vault, plaintext, err := ctx.Accept(responseText)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if ctx.Phase != handshake.Unlocked {
		t.Fatalf("phase %v after Accept", ctx.Phase)
	}
	if len(vault.Entries) != 1 || vault.Entries[0].Password != want.Entries[0].Password {
		t.Fatalf("recovered vault mismatch: %+v", vault)
	}
	if len(plaintext) == 0 {
		t.Fatal("no plaintext returned")
	}
}

func TestHandshake_SurvivesReload(t *testing.T) {
	owner := companion(t)
	blob, want := sealedVault(t, owner)

	ctx, err := handshake.NewRequest(blob, "reload me", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	responseText, err := handshake.Respond(ctx.RequestText, owner)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	stored, err := ctx.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	restored, err := handshake.Restore(stored)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Reference != "reload me" {
		t.Fatalf("restored reference %q", restored.Reference)
	}
	vault, _, err := restored.Accept(responseText)
	if err != nil {
		t.Fatalf("Accept after restore: %v", err)
	}
	if len(vault.Entries) != len(want.Entries) {
		t.Fatal("restored context recovered the wrong vault")
	}
}

func TestHandshake_ResponseBoundToRequest(t *testing.T) {
	// A response produced for one request's ephemeral key must not unlock a
	// different request's context.
	owner := companion(t)
	blobA, _ := sealedVault(t, owner)
	blobB, _ := sealedVault(t, owner)

	ctxA, err := handshake.NewRequest(blobA, "a", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest a: %v", err)
	}
	ctxB, err := handshake.NewRequest(blobB, "b", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest b: %v", err)
	}
	respB, err := handshake.Respond(ctxB.RequestText, owner)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	var de *domain.DecryptError
	if _, _, err := ctxA.Accept(respB); !errors.As(err, &de) {
		t.Fatalf("want DecryptError feeding b's response to a, got %v", err)
	}
	if ctxA.Phase != handshake.Failed {
		t.Fatalf("phase %v after failed Accept", ctxA.Phase)
	}
	// Ephemeral key was discarded on failure; a second attempt cannot run.
	if _, _, err := ctxA.Accept(respB); err == nil {
		t.Fatal("Accept ran again after the ephemeral key was discarded")
	}
}

func TestHandshake_WrongApplicationID(t *testing.T) {
	owner := companion(t)
	blob, _ := sealedVault(t, owner)
	ctx, err := handshake.NewRequest(blob, "x", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	// Paste the request back instead of a response.
	if _, _, err := ctx.Accept(ctx.RequestText); !errors.Is(err, domain.ErrHandshakeMismatch) {
		t.Fatalf("want ErrHandshakeMismatch, got %v", err)
	}
}

func TestHandshake_UnsupportedResponseTransformation(t *testing.T) {
	owner := companion(t)
	blob, _ := sealedVault(t, owner)
	ctx, err := handshake.NewRequest(blob, "x", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	// Forge a response declaring an index nobody supports.
	raw, err := envelope.EncodeKeyResponse(envelope.KeyResponse{RSAIndex: 42, EncryptedKey: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("EncodeKeyResponse: %v", err)
	}
	_, _, err = ctx.Accept(envelope.EncodeText(raw))
	if !errors.Is(err, domain.ErrUnsupportedTransformation) {
		t.Fatalf("want ErrUnsupportedTransformation, got %v", err)
	}
}

func TestRespond_WrongOwnerKey(t *testing.T) {
	owner := companion(t)
	stranger, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	blob, _ := sealedVault(t, owner)
	ctx, err := handshake.NewRequest(blob, "x", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if _, err := handshake.Respond(ctx.RequestText, stranger); err == nil {
		t.Fatal("Respond accepted a request addressed to a different key")
	}
}

func TestHandshake_AbandonDiscardsKey(t *testing.T) {
	owner := companion(t)
	blob, _ := sealedVault(t, owner)
	ctx, err := handshake.NewRequest(blob, "x", domain.Settings{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := handshake.Respond(ctx.RequestText, owner)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	ctx.Abandon()
	if _, _, err := ctx.Accept(resp); err == nil {
		t.Fatal("Accept succeeded after Abandon")
	}
}
