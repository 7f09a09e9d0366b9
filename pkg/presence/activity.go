// Package presence models the rich-presence activity payload and its
// conditional JSON shaping. The peer is strict about shape: empty sections
// must be absent, not empty objects, and some fields only make sense in the
// presence of others. Activity's marshaller encodes those rules once so
// callers can fill in plain fields and stay valid.
package presence

import (
	"encoding/json"
	"time"
)

// Activity is one rich-presence state: what the user is doing, since when,
// with whom. The zero value marshals to an empty activity object, which
// clears any displayed presence.
type Activity struct {
	// State is the user's current party status, e.g. "In Queue".
	State string

	// Details says what the player is doing, e.g. "Competitive - Dust II".
	Details string

	// Timestamps bound the activity for the elapsed/remaining display.
	Timestamps Timestamps

	// Assets select the artwork shown beside the activity.
	Assets Assets

	// Party describes the group the player is in.
	Party Party

	// Secrets carry the opaque tokens peers need to join or spectate.
	Secrets Secrets

	// Instance marks the activity as a concrete game session.
	Instance bool
}

// Timestamps are the activity's time bounds. Start unset suppresses the
// whole section; End is emitted only when it falls after Start.
type Timestamps struct {
	Start time.Time
	End   time.Time
}

// Assets name uploaded artwork keys and their hover texts. The section is
// emitted only when LargeImage is set.
type Assets struct {
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
}

// Party identifies the player's group. The section is emitted only when ID
// is set; the size pair only when Size is positive, with Max raised to at
// least Size.
type Party struct {
	ID   string
	Size int
	Max  int
}

// Secrets carry join/spectate/match tokens. The section is emitted only
// when at least one is set.
type Secrets struct {
	Join     string
	Spectate string
	Match    string
}

type timestampsJSON struct {
	Start int64  `json:"start"`
	End   *int64 `json:"end,omitempty"`
}

type assetsJSON struct {
	LargeImage string `json:"large_image"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type partyJSON struct {
	ID   string `json:"id"`
	Size []int  `json:"size,omitempty"`
}

type secretsJSON struct {
	Join     string `json:"join,omitempty"`
	Spectate string `json:"spectate,omitempty"`
	Match    string `json:"match,omitempty"`
}

type activityJSON struct {
	State      string          `json:"state,omitempty"`
	Details    string          `json:"details,omitempty"`
	Timestamps *timestampsJSON `json:"timestamps,omitempty"`
	Assets     *assetsJSON     `json:"assets,omitempty"`
	Party      *partyJSON      `json:"party,omitempty"`
	Secrets    *secretsJSON    `json:"secrets,omitempty"`
	Instance   bool            `json:"instance"`
}

// MarshalJSON applies the conditional shaping rules. Timestamps are encoded
// as epoch seconds.
func (a Activity) MarshalJSON() ([]byte, error) {
	out := activityJSON{
		State:    a.State,
		Details:  a.Details,
		Instance: a.Instance,
	}

	if !a.Timestamps.Start.IsZero() {
		ts := &timestampsJSON{Start: a.Timestamps.Start.Unix()}
		if a.Timestamps.End.After(a.Timestamps.Start) {
			end := a.Timestamps.End.Unix()
			ts.End = &end
		}
		out.Timestamps = ts
	}

	if a.Assets.LargeImage != "" {
		out.Assets = &assetsJSON{
			LargeImage: a.Assets.LargeImage,
			LargeText:  a.Assets.LargeText,
			SmallImage: a.Assets.SmallImage,
			SmallText:  a.Assets.SmallText,
		}
	}

	if a.Party.ID != "" {
		p := &partyJSON{ID: a.Party.ID}
		if a.Party.Size > 0 {
			p.Size = []int{a.Party.Size, max(a.Party.Max, a.Party.Size)}
		}
		out.Party = p
	}

	if a.Secrets.Join != "" || a.Secrets.Spectate != "" || a.Secrets.Match != "" {
		out.Secrets = &secretsJSON{
			Join:     a.Secrets.Join,
			Spectate: a.Secrets.Spectate,
			Match:    a.Secrets.Match,
		}
	}

	return json.Marshal(out)
}
