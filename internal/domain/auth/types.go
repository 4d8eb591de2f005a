// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"encoding/json"
	"time"
	"unicode"
)

// Role represents an application's authorization role.
// Every identity minted by the login flow carries RoleUser.
type Role string

// RoleUser is the fixed role assigned at login.
const RoleUser Role = "user"

// Identity is the authenticated principal produced by a successful
// code-for-token exchange. It lives only in the server-side session record
// and is never serialized into the client-visible cookie.
type Identity struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	Username              string    `json:"username"`
	Role                  Role      `json:"role"`
	SessionID             string    `json:"sessionID"`
	Context               string    `json:"context"`
	AccessTokenExpiration time.Time `json:"accessTokenExpiration"`
}

// Expired reports whether the access token is past its expiration at the
// given instant. A zero expiration counts as expired. The boundary instant
// itself is still valid; only strictly-after fails.
func (i Identity) Expired(now time.Time) bool {
	if i.AccessTokenExpiration.IsZero() {
		return true
	}
	return now.After(i.AccessTokenExpiration)
}

// Profile is the merged attribute record built fresh on every login from the
// persona and userinfo sources. Capability flags are collected into a typed
// map during the merge rather than inferred from key names downstream.
type Profile struct {
	Authorized   bool
	Roles        []string
	Permissions  []string
	Name         string
	Email        string
	Capabilities map[string]bool
}

// Projection is the client-visible subset of session data. It never contains
// the access token, refresh token, or client secret.
type Projection struct {
	SessionID             string
	LoggedInAs            string
	Email                 string
	Roles                 []string
	Name                  string
	Authorized            bool
	Permissions           []string
	AccessTokenExpiration time.Time
	Capabilities          map[string]bool
}

// NewProjection builds the client-visible projection for an identity and its
// enrichment profile. Roles and permissions are never nil in the output.
func NewProjection(identity Identity, profile Profile) Projection {
	roles := profile.Roles
	if roles == nil {
		roles = []string{}
	}
	permissions := profile.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return Projection{
		SessionID:             identity.SessionID,
		LoggedInAs:            identity.Username,
		Email:                 profile.Email,
		Roles:                 roles,
		Name:                  profile.Name,
		Authorized:            profile.Authorized,
		Permissions:           permissions,
		AccessTokenExpiration: identity.AccessTokenExpiration,
		Capabilities:          profile.Capabilities,
	}
}

// projectionJSON is the wire shape of a Projection. Capability flags are
// inlined as top-level keys so client script can read them directly.
type projectionJSON struct {
	SessionID             string    `json:"sessionID"`
	LoggedInAs            string    `json:"loggedInAs"`
	Email                 string    `json:"email"`
	Roles                 []string  `json:"roles"`
	Name                  string    `json:"name"`
	Authorized            bool      `json:"authorized"`
	Permissions           []string  `json:"permissions"`
	AccessTokenExpiration time.Time `json:"accessTokenExpiration"`
}

// MarshalJSON inlines capability flags alongside the fixed fields.
func (p Projection) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(projectionJSON{
		SessionID:             p.SessionID,
		LoggedInAs:            p.LoggedInAs,
		Email:                 p.Email,
		Roles:                 p.Roles,
		Name:                  p.Name,
		Authorized:            p.Authorized,
		Permissions:           p.Permissions,
		AccessTokenExpiration: p.AccessTokenExpiration,
	})
	if err != nil {
		return nil, err
	}
	if len(p.Capabilities) == 0 {
		return base, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for name, value := range p.Capabilities {
		merged[name] = value
	}
	return json.Marshal(merged)
}

// UnmarshalJSON restores the fixed fields and collects capability flags back
// into the typed map.
func (p *Projection) UnmarshalJSON(data []byte) error {
	var base projectionJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var capabilities map[string]bool
	for name, value := range raw {
		if !IsCapabilityFlag(name) {
			continue
		}
		var flag bool
		if err := json.Unmarshal(value, &flag); err != nil {
			continue // non-boolean is<X> keys are not capability flags
		}
		if capabilities == nil {
			capabilities = make(map[string]bool)
		}
		capabilities[name] = flag
	}

	*p = Projection{
		SessionID:             base.SessionID,
		LoggedInAs:            base.LoggedInAs,
		Email:                 base.Email,
		Roles:                 base.Roles,
		Name:                  base.Name,
		Authorized:            base.Authorized,
		Permissions:           base.Permissions,
		AccessTokenExpiration: base.AccessTokenExpiration,
		Capabilities:          capabilities,
	}
	return nil
}

// IsCapabilityFlag reports whether a key follows the is<Capitalized>
// capability naming convention (isRegional, isFieldManager, ...).
func IsCapabilityFlag(name string) bool {
	if len(name) < 3 || name[0] != 'i' || name[1] != 's' {
		return false
	}
	return unicode.IsUpper(rune(name[2]))
}

// SessionRecord is the server-side session: the full identity under "user"
// and the client-visible projection under "userInfo". Created at login,
// mutated by token refresh, destroyed at logout or store expiry.
type SessionRecord struct {
	User     *Identity   `json:"user,omitempty"`
	UserInfo *Projection `json:"userInfo,omitempty"`
}
