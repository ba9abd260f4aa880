// Package identity defines the credential-supplier contract the launch
// assembler consumes: an opaque identity carrying a username and
// optional access token and UUID. The core never validates these values.
package identity

import "github.com/google/uuid"

// Kind distinguishes an offline identity (no server-issued token) from an
// online one.
type Kind int

const (
	Offline Kind = iota
	Online
)

func (k Kind) String() string {
	if k == Online {
		return "online"
	}
	return "offline"
}

// Identity is handed to the launch assembler by an external credential
// supplier. AccessToken and UUID are optional; the assembler substitutes
// "0" for either when empty.
type Identity struct {
	Kind        Kind
	Username    string
	AccessToken string
	UUID        string
}

// NewOffline returns an offline identity for username with a freshly
// minted UUID and no access token. Offline play has no server-issued
// token to carry, but the assembler still passes a UUID as --uuid; each
// call mints a new one.
func NewOffline(username string) Identity {
	return Identity{
		Kind:     Offline,
		Username: username,
		UUID:     uuid.NewString(),
	}
}

// NewOnline returns an online identity carrying a server-issued access
// token and account UUID.
func NewOnline(username, accessToken, uuid string) Identity {
	return Identity{
		Kind:        Online,
		Username:    username,
		AccessToken: accessToken,
		UUID:        uuid,
	}
}
