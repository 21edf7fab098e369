package rocket

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type wireAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type wireAuthData struct {
	AuthToken string       `json:"authToken"`
	UserID    string       `json:"userId"`
	Me        *wireProfile `json:"me"`
}

type wireProfile struct {
	ID       *string `json:"_id"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

type wireAuthResponse struct {
	Status string        `json:"status"`
	Data   *wireAuthData `json:"data"`
}

// Login performs the credential exchange against the upstream /login endpoint
// and caches the returned session, overwriting any prior one. The full
// authentication payload is returned to the caller. Login never retries; any
// failure surfaces as a KindAuthentication error carrying the upstream detail.
func (c *Client) Login(ctx context.Context) (AuthInfo, error) {
	if c.log != nil {
		c.log.Debug().Str("url", c.creds.URL).Msg("authenticating with upstream")
	}

	payload, err := json.Marshal(wireAuthRequest{
		Username: c.creds.User,
		Password: c.creds.Password,
	})
	if err != nil {
		return AuthInfo{}, newError(KindAuthentication, err, "encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(endpointLogin), bytes.NewReader(payload))
	if err != nil {
		return AuthInfo{}, newError(KindAuthentication, err, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return AuthInfo{}, newError(KindAuthentication, err, "login request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return AuthInfo{}, newError(KindAuthentication, nil, "upstream rejected login (%s): %s",
			resp.Status, strings.TrimSpace(string(detail)))
	}

	var wire wireAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return AuthInfo{}, newError(KindAuthentication, err, "decode login response: %v", err)
	}

	if wire.Data == nil || wire.Data.AuthToken == "" || wire.Data.UserID == "" {
		return AuthInfo{}, newError(KindAuthentication, nil, "login response missing session data (status %q)", wire.Status)
	}

	c.setSession(wire.Data.AuthToken, wire.Data.UserID)

	info := AuthInfo{
		Token:  wire.Data.AuthToken,
		UserID: wire.Data.UserID,
	}
	if wire.Data.Me != nil {
		info.Profile = Profile{
			ID:       deref(wire.Data.Me.ID),
			Username: deref(wire.Data.Me.Username),
			Name:     deref(wire.Data.Me.Name),
			Email:    deref(wire.Data.Me.Email),
		}
	}

	if c.log != nil {
		c.log.Debug().Str("user_id", info.UserID).Msg("authenticated with upstream")
	}
	return info, nil
}
