package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadECDSAPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		keyPath string
		wantErr bool
	}{
		{
			name:    "load valid key",
			keyPath: "test_valid_private.pem",
			wantErr: false,
		},
		{
			name:    "load invalid key",
			keyPath: "test_invalid_private.pem",
			wantErr: true,
		},
		{
			name:    "file does not exist",
			keyPath: "non_existent_key.pem",
			wantErr: true,
		},
		{
			name:    "empty key path",
			keyPath: "",
			wantErr: true,
		},
		{
			name:    "load pkcs8 key",
			keyPath: writePKCS8Key(t),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadECDSAPrivateKey(tt.keyPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadECDSAPrivateKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != nil {
				checkECDSAPrivateKey(t, got)
			}
		})
	}
}

func checkECDSAPrivateKey(t *testing.T, key *ecdsa.PrivateKey) {
	if key == nil {
		t.Error("Expected non-nil key")
		return
	}
	if key.Curve != elliptic.P256() {
		t.Errorf("Expected P256 curve")
	}
	// Verify we can sign and verify with the key
	hash := []byte("test message")
	r, s, err := ecdsa.Sign(rand.Reader, key, hash)
	if err != nil {
		t.Errorf("Failed to sign with loaded key: %v", err)
	}
	if !ecdsa.Verify(&key.PublicKey, hash, r, s) {
		t.Errorf("Failed to verify signature with loaded key: %v", err)
	}
}

func writePKCS8Key(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("Failed to marshal key: %v", err)
	}
	keyPath := filepath.Join(t.TempDir(), "pkcs8.pem")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
	return keyPath
}
