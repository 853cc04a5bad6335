// Package secret resolves sensitive configuration values.
//
// A value of the form "secretref:<provider>:<ref>" is resolved through a
// registered provider (env, file). Other values pass through strict
// environment expansion, where a referenced-but-unset ${VAR} is an error
// rather than a silent empty string.
package secret
