package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aniketri/real-insights-data/pkg/auth"
	"github.com/aniketri/real-insights-data/pkg/tlsutil"
)

const (
	jwtPrivateKeyFile = "jwt-private.pem"
	jwtPublicKeyFile  = "jwt-public.pem"
)

func newCertsCmd() *cobra.Command {
	var (
		hosts    []string
		outDir   string
		validFor time.Duration
		jwtKeys  bool
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a development CA and server certificate",
		Long: `certs writes a self-signed CA and a server key pair signed by it.
Point TLS_CERT_FILE and TLS_KEY_FILE at the server files to serve HTTPS and gRPC over TLS.
With --jwt-keys it also writes an RSA pair for JWT_PUBLIC_KEY_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateSelfSignedCert(hosts, outDir, validFor); err != nil {
				return fmt.Errorf("generate certificates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "TLS_CERT_FILE=%s\nTLS_KEY_FILE=%s\n",
				filepath.Join(outDir, tlsutil.ServerFile), filepath.Join(outDir, tlsutil.ServerKeyFile))

			if !jwtKeys {
				return nil
			}
			if err := writeJWTKeys(outDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "JWT_PUBLIC_KEY_FILE=%s\n", filepath.Join(outDir, jwtPublicKeyFile))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hosts, "hosts", []string{"localhost", "127.0.0.1"}, "DNS names and IPs the server certificate covers")
	cmd.Flags().StringVar(&outDir, "out", "certs", "output directory")
	cmd.Flags().DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	cmd.Flags().BoolVar(&jwtKeys, "jwt-keys", false, "also write an RSA key pair for signing tokens")
	return cmd
}

func writeJWTKeys(dir string) error {
	privPEM, pubPEM, err := auth.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate JWT keys: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, jwtPrivateKeyFile), privPEM, 0o600); err != nil {
		return fmt.Errorf("write JWT private key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, jwtPublicKeyFile), pubPEM, 0o644); err != nil { //nolint:gosec // public key
		return fmt.Errorf("write JWT public key: %w", err)
	}
	return nil
}
