/*
Package security groups the relay's credential and transport security
subpackages.

# Secrets

The upstream API key is resolved through a secrets.SecretProvider on every
completion call. The production provider reads the process environment, so
a rotated key takes effect on the next request:

	sp := secrets.NewEnvProvider("")
	apiKey, err := sp.GetSecret(ctx, "OPENAI_API_KEY")

# TLS

The server can terminate TLS itself. Certificates are reloaded from disk
when they change:

	server:
	  tls:
	    enabled: true
	    cert_file: /etc/relay/tls/server.crt
	    key_file: /etc/relay/tls/server.key
	    min_version: "1.3"
*/
package security
