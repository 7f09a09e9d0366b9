package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const cdnBase = "https://cdn.discordapp.com"

// User is the account identity of the logged-in user, captured once from
// the handshake reply and never mutated afterward. The peer serializes the
// snowflake id as a decimal string.
type User struct {
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	ID            int64  `json:"id,string"`
	Avatar        string `json:"avatar,omitempty"`
}

// Tag returns the classic name#discriminator form. Accounts migrated off
// discriminators (discriminator "0") are tagged by username alone.
func (u *User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// AvatarURL returns the CDN URL of the user's custom avatar, or the empty
// string when none is set. Animated avatars (hash prefix "a_") resolve to
// .gif, everything else to .png.
func (u *User) AvatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	ext := "png"
	if strings.HasPrefix(u.Avatar, "a_") {
		ext = "gif"
	}
	return fmt.Sprintf("%s/avatars/%d/%s.%s", cdnBase, u.ID, u.Avatar, ext)
}

// DefaultAvatarURL returns the CDN URL of the default avatar the peer
// assigns to this account. There are five defaults, selected by
// discriminator modulo 5.
func (u *User) DefaultAvatarURL() string {
	d, err := strconv.Atoi(u.Discriminator)
	if err != nil {
		d = 0
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBase, d%5)
}

// EffectiveAvatarURL returns the custom avatar URL when one is set and the
// default avatar URL otherwise.
func (u *User) EffectiveAvatarURL() string {
	if url := u.AvatarURL(); url != "" {
		return url
	}
	return u.DefaultAvatarURL()
}

// String implements fmt.Stringer.
func (u *User) String() string {
	return fmt.Sprintf("%s (%d)", u.Tag(), u.ID)
}
