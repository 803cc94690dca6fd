package ssl

import (
	"crypto/tls"
	"fmt"
	"os"
	"strings"

	file "github.com/kyma-incubator/app-reconciler/pkg/files"
	"github.com/pkg/errors"
)

//VerifyKeyPair checks the certificate and key passed by --server-crt and --server-key.
//Both are optional, but TLS of the REST API is only enabled if both are set.
func VerifyKeyPair(crtFile, keyFile string) error {
	if crtFile == "" && keyFile == "" {
		return nil
	}
	if crtFile == "" || keyFile == "" {
		return fmt.Errorf("TLS of the REST API requires both --server-crt and --server-key")
	}
	if missing := file.Missing(crtFile, keyFile); len(missing) > 0 {
		return fmt.Errorf("TLS files of the REST API not found: %s", strings.Join(missing, ", "))
	}

	crt, err := os.ReadFile(crtFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read --server-crt '%s'", crtFile)
	}
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read --server-key '%s'", keyFile)
	}
	if _, err := tls.X509KeyPair(crt, key); err != nil {
		return errors.Wrapf(err, "--server-crt '%s' and --server-key '%s' are not a valid key pair", crtFile, keyFile)
	}
	return nil
}
