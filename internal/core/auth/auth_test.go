package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/sdlc-connector/internal/types"
)

type staticSecrets struct {
	secrets []string
	err     error
	calls   int
}

func (s *staticSecrets) ResolveSecrets(ctx context.Context, projectID types.ProjectID, system types.System) ([]string, error) {
	s.calls++
	return s.secrets, s.err
}

func TestSignature(t *testing.T) {
	// Reference vector from GitHub's webhook validation docs.
	got := Signature("It's a Secret to Everybody", []byte("Hello, World!"))
	expected := "sha256=757107ea0eb2509fc211221cce984b8a37570b6d7586c22c46f4379c8b043e17"
	if got != expected {
		t.Errorf("Signature() = %s, expected %s", got, expected)
	}
	if len(got) != len(SignaturePrefix)+64 {
		t.Errorf("Signature() length = %d", len(got))
	}
}

func TestVerify(t *testing.T) {
	body := []byte(`{"action":"opened"}`)
	sigS2 := Signature("s2", body)

	tests := []struct {
		name      string
		signature string
		secrets   []string
		wantErr   error
	}{
		{name: "second secret matches", signature: sigS2, secrets: []string{"s1", "s2"}},
		{name: "only non-matching secret", signature: sigS2, secrets: []string{"s1"}, wantErr: ErrNoValidSecret},
		{name: "empty secret set accepts", signature: "garbage", secrets: nil},
		{name: "empty secret set accepts empty signature", signature: "", secrets: []string{}},
		{name: "uppercase hex accepted", signature: "sha256=" + strings.ToUpper(strings.TrimPrefix(sigS2, "sha256=")), secrets: []string{"s2"}},
		{name: "uppercase tag accepted", signature: strings.ToUpper(sigS2), secrets: []string{"s2"}},
		{name: "missing tag rejected", signature: strings.TrimPrefix(sigS2, "sha256="), secrets: []string{"s2"}, wantErr: ErrNoValidSecret},
		{name: "sha1 tag rejected", signature: "sha1=" + strings.TrimPrefix(sigS2, "sha256="), secrets: []string{"s2"}, wantErr: ErrNoValidSecret},
		{name: "empty signature rejected", signature: "", secrets: []string{"s2"}, wantErr: ErrNoValidSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(body, tt.signature, tt.secrets)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_BodyTampering(t *testing.T) {
	sig := Signature("secret", []byte(`{"a":1}`))
	if err := Verify([]byte(`{"a":2}`), sig, []string{"secret"}); !errors.Is(err, ErrNoValidSecret) {
		t.Errorf("Verify() on tampered body error = %v", err)
	}
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	project := types.NewProjectID()
	body := []byte(`{}`)

	t.Run("resolves secrets per call", func(t *testing.T) {
		store := &staticSecrets{secrets: []string{"s1"}}
		a := NewAuthenticator(store)
		sig := Signature("s1", body)

		for i := 0; i < 2; i++ {
			if err := a.Authenticate(ctx, project, types.SystemGitHub, body, sig); err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
		}
		if store.calls != 2 {
			t.Errorf("resolver called %d times, expected 2", store.calls)
		}

		// Rotation: the old secret disappears from the store.
		store.secrets = []string{"s2"}
		if err := a.Authenticate(ctx, project, types.SystemGitHub, body, sig); !errors.Is(err, ErrNoValidSecret) {
			t.Errorf("Authenticate() after rotation error = %v", err)
		}
	})

	t.Run("permissive when nothing provisioned", func(t *testing.T) {
		a := NewAuthenticator(&staticSecrets{})
		if err := a.Authenticate(ctx, project, types.SystemGitHub, body, ""); err != nil {
			t.Errorf("Authenticate() error = %v", err)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		a := NewAuthenticator(&staticSecrets{err: errors.New("db down")})
		err := a.Authenticate(ctx, project, types.SystemGitHub, body, "")
		if !errors.Is(err, ErrSecretLookup) {
			t.Errorf("Authenticate() error = %v, want ErrSecretLookup", err)
		}
	})
}

// Property-based test: a signature made with any candidate validates
func TestVerify_PropertyAnyCandidateValidates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("signature from candidate i validates against the set", prop.ForAll(
		func(secrets []string, idx int, body string) bool {
			if len(secrets) == 0 {
				return Verify([]byte(body), "anything", secrets) == nil
			}
			i := idx % len(secrets)
			sig := Signature(secrets[i], []byte(body))
			return Verify([]byte(body), sig, secrets) == nil
		},
		gen.SliceOfN(3, gen.AlphaString()),
		gen.IntRange(0, 100),
		gen.AnyString(),
	))

	properties.Property("signature from a foreign secret never validates", prop.ForAll(
		func(body string) bool {
			sig := Signature("foreign", []byte(body))
			return errors.Is(Verify([]byte(body), sig, []string{"s1", "s2", "s3"}), ErrNoValidSecret)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
