// Package auth verifies webhook deliveries against per-project secrets.
package auth

import (
	"context"
	"fmt"

	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/types"
)

// SecretResolver returns the currently valid plaintext secrets for a
// project and system. An empty result is valid. Implemented by
// *store.Tokens; decryption at rest is the resolver's concern.
type SecretResolver interface {
	ResolveSecrets(ctx context.Context, projectID types.ProjectID, system types.System) ([]string, error)
}

// Authenticator verifies payload signatures.
// Secrets are resolved on every call and never retained.
type Authenticator struct {
	secrets SecretResolver
}

// NewAuthenticator creates an authenticator over a secret resolver.
func NewAuthenticator(secrets SecretResolver) *Authenticator {
	return &Authenticator{secrets: secrets}
}

// Authenticate checks signature against body using every secret currently
// valid for (projectID, system). Returns ErrNoValidSecret when none matches
// and ErrSecretLookup when secrets could not be resolved.
func (a *Authenticator) Authenticate(ctx context.Context, projectID types.ProjectID, system types.System, body []byte, signature string) error {
	secrets, err := a.secrets.ResolveSecrets(ctx, projectID, system)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSecretLookup, err)
	}

	if len(secrets) == 0 {
		logging.Ctx(ctx).Warn().
			Str("project_id", string(projectID)).
			Str("system", string(system)).
			Msg("No webhook secret provisioned - skipping signature validation")
		return nil
	}

	if err := Verify(body, signature, secrets); err != nil {
		logging.Ctx(ctx).Warn().
			Str("project_id", string(projectID)).
			Int("candidates", len(secrets)).
			Msg("Invalid webhook signature")
		return err
	}
	return nil
}
