package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// DefaultTokenUsername is sent with HTTPS tokens when the URL names no user.
// GitHub accepts it for both personal and installation tokens.
const DefaultTokenUsername = "x-access-token"

// TokenResolver resolves HTTPS credentials from an oauth2 token source.
type TokenResolver struct {
	Source oauth2.TokenSource
	// Username overrides the URL's user. Defaults to DefaultTokenUsername
	// when neither is set.
	Username string
}

func (r *TokenResolver) Resolve(url, usernameHint string) (Credential, error) {
	if r.Source == nil {
		return Credential{}, errors.New("no token source configured")
	}

	tok, err := r.Source.Token()
	if err != nil {
		return Credential{}, fmt.Errorf("obtaining token for %s: %w", url, err)
	}

	username := r.Username
	if username == "" {
		username = usernameHint
	}
	if username == "" {
		username = DefaultTokenUsername
	}

	return Credential{Username: username, Token: tok.AccessToken}, nil
}
