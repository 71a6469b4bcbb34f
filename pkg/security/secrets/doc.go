// Package secrets resolves credentials at the moment they are needed.
//
// Providers are consulted on every call and never cache values, so a
// rotated credential is picked up by the next request. EnvProvider reads
// the process environment. StaticProvider serves fixed values and is
// used wherever a credential source has to be substituted, such as tests.
package secrets
