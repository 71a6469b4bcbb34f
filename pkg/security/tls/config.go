package tls

import (
	"crypto/tls"
	"fmt"

	"mercator-hq/relay/pkg/config"
)

// NewServerConfig builds the server TLS configuration. Certificates are
// served by reloader, which must have been started.
func NewServerConfig(cfg config.TLSConfig, reloader *CertificateReloader) (*tls.Config, error) {
	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificateFunc(),
	}, nil
}

// ParseVersion converts "1.2" or "1.3" to a tls version constant. The
// empty string selects TLS 1.3.
func ParseVersion(v string) (uint16, error) {
	switch v {
	case "1.3", "":
		return tls.VersionTLS13, nil
	case "1.2":
		return tls.VersionTLS12, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q (use 1.2 or 1.3)", v)
	}
}
