// Package tls provides optional TLS termination for the relay server.
//
// Certificates are loaded from PEM files by a CertificateReloader, which
// polls the files and swaps in renewed certificates without a restart:
//
//	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval)
//	if err := reloader.Start(ctx); err != nil {
//	    return err
//	}
//	tlsConfig, err := tls.NewServerConfig(cfg, reloader)
//
// Only TLS 1.2 and 1.3 are accepted.
package tls
