// Package security provides cryptographic signing for exported calculation
// results, so downstream dashboards can verify that a result batch was
// produced by this service and was not altered in transit.
package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
)

// IntegrityService signs and verifies result payloads with an ECDSA P-256
// key generated at startup.
type IntegrityService struct {
	privateKey       *ecdsa.PrivateKey
	publicKeyEncoded string
	verificationOpts VerificationOptions
}

// VerificationOptions configures the behavior of integrity checks
type VerificationOptions struct {
	SignatureEnabled     bool          `json:"signature_enabled"`
	VerificationRequired bool          `json:"verification_required"`
	SignatureValidity    time.Duration `json:"signature_validity"`
	StrictMode           bool          `json:"strict_mode"`
}

// NewIntegrityService creates a new service for result integrity
func NewIntegrityService(opts VerificationOptions) (*IntegrityService, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	publicKeyBytes := elliptic.Marshal(elliptic.P256(), privateKey.PublicKey.X, privateKey.PublicKey.Y)
	publicKeyEncoded := base64.StdEncoding.EncodeToString(publicKeyBytes)

	service := &IntegrityService{
		privateKey:       privateKey,
		publicKeyEncoded: publicKeyEncoded,
		verificationOpts: opts,
	}

	logrus.Infof("Integrity service initialized with public key: %s", publicKeyEncoded[:16]+"...")
	return service, nil
}

// SignPayload adds a cryptographic signature to a result payload
func (s *IntegrityService) SignPayload(payload interface{}) (map[string]interface{}, error) {
	if !s.verificationOpts.SignatureEnabled {
		// If signatures are disabled, return the payload as is
		payloadMap, ok := payload.(map[string]interface{})
		if !ok {
			payloadBytes, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal payload: %w", err)
			}
			var result map[string]interface{}
			if err := json.Unmarshal(payloadBytes, &result); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
			return result, nil
		}
		return payloadMap, nil
	}

	// Hash the map-normalized form so a verifier that decoded the payload
	// from JSON reproduces the same bytes regardless of struct field order.
	canonical, err := canonicalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}
	var resultMap map[string]interface{}
	if err := json.Unmarshal(canonical, &resultMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	hash := sha256.Sum256(canonical)

	r, sv, err := ecdsa.Sign(rand.Reader, s.privateKey, hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	// Fixed-width encoding so the verifier can split r and s again.
	signature := append(leftPad(r.Bytes(), 32), leftPad(sv.Bytes(), 32)...)
	signatureEncoded := base64.StdEncoding.EncodeToString(signature)

	resultMap["_signature"] = map[string]interface{}{
		"signature":  signatureEncoded,
		"publicKey":  s.publicKeyEncoded,
		"algorithm":  "ECDSA-P256-SHA256",
		"timestamp":  time.Now().Unix(),
		"validUntil": time.Now().Add(s.verificationOpts.SignatureValidity).Unix(),
	}

	return resultMap, nil
}

// VerifyPayload verifies the cryptographic signature on a result payload
func (s *IntegrityService) VerifyPayload(signedPayload map[string]interface{}) (bool, error) {
	if !s.verificationOpts.SignatureEnabled || !s.verificationOpts.VerificationRequired {
		return true, nil
	}

	sigMetadata, ok := signedPayload["_signature"].(map[string]interface{})
	if !ok {
		if s.verificationOpts.StrictMode {
			return false, fmt.Errorf("signature metadata missing")
		}
		logrus.Warn("Signature metadata missing from payload")
		return false, nil
	}

	signatureStr, ok := sigMetadata["signature"].(string)
	if !ok {
		return false, fmt.Errorf("invalid signature format")
	}

	publicKeyStr, ok := sigMetadata["publicKey"].(string)
	if !ok {
		return false, fmt.Errorf("invalid public key format")
	}

	validUntil, err := asInt64(sigMetadata["validUntil"])
	if err != nil {
		return false, fmt.Errorf("invalid validUntil format: %w", err)
	}

	now := time.Now().Unix()
	if now > validUntil {
		return false, fmt.Errorf("signature expired at %v (current time: %v)",
			time.Unix(validUntil, 0), time.Unix(now, 0))
	}

	signatureBytes, err := base64.StdEncoding.DecodeString(signatureStr)
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyStr)
	if err != nil {
		return false, fmt.Errorf("failed to decode public key: %w", err)
	}

	x, y := elliptic.Unmarshal(elliptic.P256(), publicKeyBytes)
	if x == nil {
		return false, fmt.Errorf("failed to unmarshal public key")
	}
	publicKey := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x,
		Y:     y,
	}

	// Remove signature from payload for hash calculation
	payloadCopy := make(map[string]interface{})
	for k, v := range signedPayload {
		if k != "_signature" {
			payloadCopy[k] = v
		}
	}

	payloadBytes, err := json.Marshal(payloadCopy)
	if err != nil {
		return false, fmt.Errorf("failed to marshal payload: %w", err)
	}
	hash := sha256.Sum256(payloadBytes)

	if len(signatureBytes) != 64 {
		return false, fmt.Errorf("invalid signature length: %d", len(signatureBytes))
	}
	r := new(big.Int).SetBytes(signatureBytes[:32])
	sv := new(big.Int).SetBytes(signatureBytes[32:])

	if !ecdsa.Verify(publicKey, hash[:], r, sv) {
		return false, fmt.Errorf("signature verification failed")
	}

	return true, nil
}

// GetPublicKey returns the base64-encoded public key
func (s *IntegrityService) GetPublicKey() string {
	return s.publicKeyEncoded
}

// CreateTamperProofWrapper wraps a result payload with a content hash and
// signs the whole wrapper. The payload is embedded in its map-normalized
// form so the hash still matches after the wrapper crosses the wire as JSON.
func (s *IntegrityService) CreateTamperProofWrapper(payload interface{}, metadata map[string]interface{}) (map[string]interface{}, error) {
	canonical, err := canonicalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	var normalized interface{}
	if err := json.Unmarshal(canonical, &normalized); err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}

	sha256Hash := sha256.Sum256(canonical)

	wrapper := map[string]interface{}{
		"payload": normalized,
		"integrity": map[string]interface{}{
			"sha256":    fmt.Sprintf("%x", sha256Hash),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	if metadata != nil {
		wrapper["metadata"] = metadata
	}

	return s.SignPayload(wrapper)
}

// VerifyIntegrity performs a comprehensive integrity check on wrapped data
func (s *IntegrityService) VerifyIntegrity(wrappedData map[string]interface{}) (bool, map[string]interface{}, error) {
	validSignature, err := s.VerifyPayload(wrappedData)
	if err != nil {
		return false, nil, fmt.Errorf("signature verification failed: %w", err)
	}

	if !validSignature {
		return false, nil, fmt.Errorf("invalid signature")
	}

	payload, ok := wrappedData["payload"]
	if !ok {
		return false, nil, fmt.Errorf("payload missing from wrapped data")
	}

	integrity, ok := wrappedData["integrity"].(map[string]interface{})
	if !ok {
		return false, nil, fmt.Errorf("integrity information missing")
	}

	expectedSHA256, ok := integrity["sha256"].(string)
	if !ok {
		return false, nil, fmt.Errorf("SHA256 hash missing")
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return false, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	actualSHA256 := fmt.Sprintf("%x", sha256.Sum256(payloadBytes))
	if expectedSHA256 != actualSHA256 {
		return false, nil, fmt.Errorf("SHA256 hash mismatch")
	}

	var metadata map[string]interface{}
	if meta, ok := wrappedData["metadata"].(map[string]interface{}); ok {
		metadata = meta
	}

	return true, map[string]interface{}{
		"payload":  payload,
		"metadata": metadata,
	}, nil
}

// canonicalJSON renders v in its map-normalized JSON form: marshal, decode
// into generic values, marshal again. Keys come out sorted, so hashing this
// form gives the same bytes before and after a JSON round trip.
func canonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return padded
}

func asInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case json.Number:
		return t.Int64()
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
