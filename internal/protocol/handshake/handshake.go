package handshake

import (
	"bytes"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/util/memzero"
)

// Phase is the handshake's position in its lifecycle.
type Phase int

const (
	Idle Phase = iota
	RequestBuilding
	AwaitingResponse
	Decrypting
	Unlocked
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case RequestBuilding:
		return "request-building"
	case AwaitingResponse:
		return "awaiting-response"
	case Decrypting:
		return "decrypting"
	case Unlocked:
		return "unlocked"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Context is one in-flight unlock attempt: the single-use keypair, the
// envelope being unlocked, and the outgoing request text. It is owned
// exclusively by that attempt and must be discarded once the response is
// processed or the flow abandoned.
type Context struct {
	Phase       Phase
	Reference   string
	RequestText string

	ephemeral  *rsa.PrivateKey
	target     envelope.Envelope
	targetBlob string
	createdAt  time.Time

	// Reason holds the typed failure once Phase is Failed.
	Reason error
}

var errWrongPhase = errors.New("handshake is not awaiting a response")

// NewRequest starts an unlock attempt against the textual vault envelope.
// It generates a fresh single-use keypair and builds the key-request message:
// the reference tag, the ephemeral public key, the target's fingerprint and
// RSA transformation, the transformation we want the response wrapped with,
// and the target's RSA-wrapped AES key.
func NewRequest(targetText, reference string, settings domain.Settings) (*Context, error) {
	body, err := envelope.DecodeText(targetText)
	if err != nil {
		return nil, err
	}
	target, err := envelope.Decode(body)
	if err != nil {
		return nil, err
	}
	// The declared transformations must be ones we can finish the unlock
	// with; rejecting here beats rendering a request the response to which
	// we could never decrypt.
	if _, err := crypto.RSAByIndex(target.RSAIndex); err != nil {
		return nil, err
	}
	if _, err := crypto.AESByIndex(target.AESIndex); err != nil {
		return nil, err
	}

	c := &Context{Phase: RequestBuilding, Reference: reference, target: target, targetBlob: targetText, createdAt: time.Now()}
	c.ephemeral, err = crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("ephemeral keypair: %w", err)
	}
	pubDER, err := crypto.MarshalPublicKey(&c.ephemeral.PublicKey)
	if err != nil {
		return nil, err
	}

	raw, err := envelope.EncodeKeyRequest(envelope.KeyRequest{
		Reference:    reference,
		EphemeralPub: pubDER,
		Fingerprint:  target.Fingerprint,
		TargetRSA:    target.RSAIndex,
		ResponseRSA:  crypto.ResolveRSAOrDefault(settings.RSATransformation).Index,
		EncryptedKey: target.EncryptedKey,
	})
	if err != nil {
		return nil, err
	}
	c.RequestText = envelope.EncodeText(raw)
	c.Phase = AwaitingResponse
	return c, nil
}

// Accept consumes the pasted key-response text. On success the recovered
// vault plaintext is returned and the context moves to Unlocked; any failure
// moves it to Failed with a typed reason. The ephemeral key is discarded in
// both outcomes.
func (c *Context) Accept(responseText string) (domain.Vault, []byte, error) {
	if c.Phase != AwaitingResponse || c.ephemeral == nil {
		return domain.Vault{}, nil, errWrongPhase
	}
	c.Phase = Decrypting
	defer c.discardEphemeral()

	vault, plaintext, err := c.accept(responseText)
	if err != nil {
		c.Phase = Failed
		c.Reason = err
		return domain.Vault{}, nil, err
	}
	c.Phase = Unlocked
	return vault, plaintext, nil
}

func (c *Context) accept(responseText string) (domain.Vault, []byte, error) {
	body, err := envelope.DecodeText(responseText)
	if err != nil {
		return domain.Vault{}, nil, err
	}
	resp, err := envelope.DecodeKeyResponse(body)
	if err != nil {
		return domain.Vault{}, nil, err
	}

	aesKey, err := crypto.UnwrapKey(resp.EncryptedKey, c.ephemeral, resp.RSAIndex)
	if err != nil {
		return domain.Vault{}, nil, err
	}
	defer memzero.Zero(aesKey)

	plaintext, err := crypto.DecryptWithKey(c.target, aesKey)
	if err != nil {
		return domain.Vault{}, nil, err
	}
	vault, err := domain.ParseVault(plaintext)
	if err != nil {
		return domain.Vault{}, nil, fmt.Errorf("decrypted payload is not a vault document: %w", err)
	}
	return vault, plaintext, nil
}

// Abandon discards the ephemeral keypair without processing a response, for
// when the user navigates away from the QR display or skips the unlock.
func (c *Context) Abandon() {
	c.discardEphemeral()
	if c.Phase == AwaitingResponse || c.Phase == RequestBuilding {
		c.Phase = Idle
	}
}

func (c *Context) discardEphemeral() {
	if c.ephemeral != nil {
		der := crypto.MarshalPrivateKey(c.ephemeral)
		memzero.Zero(der)
		c.ephemeral = nil
	}
}

// Marshal packages the context for the take-once store so the handshake can
// survive a single reload while the response is pending.
func (c *Context) Marshal() (domain.KeyRequestContext, error) {
	if c.Phase != AwaitingResponse || c.ephemeral == nil {
		return domain.KeyRequestContext{}, errWrongPhase
	}
	return domain.KeyRequestContext{
		Reference:     c.Reference,
		EphemeralPriv: crypto.MarshalPrivateKey(c.ephemeral),
		TargetBlob:    c.targetBlob,
		CreatedUnix:   c.createdAt.Unix(),
	}, nil
}

// Restore rebuilds a pending context from its stored form. The stored
// keypair is as short-lived as the in-memory one: the caller got it from a
// take-once slot and must not write it back after use.
func Restore(stored domain.KeyRequestContext) (*Context, error) {
	priv, err := crypto.ParsePrivateKey(stored.EphemeralPriv)
	if err != nil {
		return nil, fmt.Errorf("stored ephemeral key: %w", err)
	}
	body, err := envelope.DecodeText(stored.TargetBlob)
	if err != nil {
		return nil, err
	}
	target, err := envelope.Decode(body)
	if err != nil {
		return nil, err
	}
	return &Context{
		Phase:      AwaitingResponse,
		Reference:  stored.Reference,
		ephemeral:  priv,
		target:     target,
		targetBlob: stored.TargetBlob,
		createdAt:  time.Unix(stored.CreatedUnix, 0),
	}, nil
}

// Respond plays the companion device's side: unwrap the AES key with the
// long-term private key, re-wrap it for the request's ephemeral public key,
// and emit the key-response text. Also exercised by tests to close the loop.
func Respond(requestText string, ownerPriv *rsa.PrivateKey) (string, error) {
	body, err := envelope.DecodeText(requestText)
	if err != nil {
		return "", err
	}
	req, err := envelope.DecodeKeyRequest(body)
	if err != nil {
		return "", err
	}

	fp := crypto.Fingerprint(&ownerPriv.PublicKey)
	if !bytes.Equal(fp[:], req.Fingerprint) {
		return "", fmt.Errorf("request targets a different key (fingerprint %x)", req.Fingerprint[:8])
	}

	aesKey, err := crypto.UnwrapKey(req.EncryptedKey, ownerPriv, req.TargetRSA)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(aesKey)

	ephPub, err := crypto.ParsePublicKey(req.EphemeralPub)
	if err != nil {
		return "", err
	}
	respT, err := crypto.RSAByIndex(req.ResponseRSA)
	if err != nil {
		return "", err
	}
	rewrapped, err := crypto.WrapKey(aesKey, ephPub, respT)
	if err != nil {
		return "", err
	}

	raw, err := envelope.EncodeKeyResponse(envelope.KeyResponse{
		RSAIndex:     respT.Index,
		EncryptedKey: rewrapped,
	})
	if err != nil {
		return "", err
	}
	return envelope.EncodeText(raw), nil
}
