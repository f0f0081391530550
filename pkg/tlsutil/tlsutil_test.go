package tlsutil

import (
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateSelfSignedCertRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := GenerateSelfSignedCert([]string{"localhost", "127.0.0.1"}, dir, 24*time.Hour); err != nil {
		t.Fatalf("GenerateSelfSignedCert: %v", err)
	}

	cfg, err := ServerConfig(filepath.Join(dir, ServerFile), filepath.Join(dir, ServerKeyFile))
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected one certificate, got %d", len(cfg.Certificates))
	}

	if _, err := ServerTLSConfig(filepath.Join(dir, ServerFile), filepath.Join(dir, ServerKeyFile)); err != nil {
		t.Fatalf("ServerTLSConfig: %v", err)
	}
	if _, err := ClientTLSConfig(filepath.Join(dir, CAFile), false); err != nil {
		t.Fatalf("ClientTLSConfig: %v", err)
	}
}

func TestGenerateSelfSignedCertRequiresHost(t *testing.T) {
	if err := GenerateSelfSignedCert(nil, t.TempDir(), time.Hour); err == nil {
		t.Fatal("expected error without hosts")
	}
}

func TestServerConfigMissingFiles(t *testing.T) {
	if _, err := ServerConfig("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Fatal("expected error for missing files")
	}
}
