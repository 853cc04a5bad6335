package secret

import (
	"context"
	"fmt"
	"strings"
)

const refPrefix = "secretref:"

// Resolver resolves secret references using registered providers.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver. With no providers given it registers the
// env and file providers.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider)}
	if len(providers) == 0 {
		providers = []Provider{EnvProvider{}, FileProvider{}}
	}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// ParseRef parses a full secret reference of the form
// secretref:<provider>:<ref>.
func ParseRef(value string) (provider, ref string, ok bool) {
	if !strings.HasPrefix(value, refPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, refPrefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Resolve expands environment variables in value and, when the result is a
// secret reference, resolves it through the matching provider. Plain values
// come back unchanged.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	providerName, ref, ok := ParseRef(expanded)
	if !ok {
		return expanded, nil
	}

	provider, registered := r.providers[providerName]
	if !registered {
		return "", fmt.Errorf("secret: provider %q is not registered", providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", fmt.Errorf("secret: provider %q returned an empty value", providerName)
	}
	return resolved, nil
}
