package presence

import "time"

// Builder assembles an Activity through a call chain. It exists for callers
// porting from the classic builder-style APIs; filling the Activity struct
// directly is equivalent.
//
//	a := presence.NewBuilder().
//	    State("In Queue").
//	    Details("Competitive").
//	    StartTimestamp(time.Now()).
//	    LargeImage("map_dust2", "Dust II").
//	    Party("party-1", 1, 5).
//	    Build()
type Builder struct {
	a Activity
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// State sets the party status line.
func (b *Builder) State(state string) *Builder {
	b.a.State = state
	return b
}

// Details sets the what-the-player-is-doing line.
func (b *Builder) Details(details string) *Builder {
	b.a.Details = details
	return b
}

// StartTimestamp sets the activity start, enabling the elapsed display.
func (b *Builder) StartTimestamp(t time.Time) *Builder {
	b.a.Timestamps.Start = t
	return b
}

// EndTimestamp sets the activity end, switching the display to remaining
// time. It is emitted only when after the start.
func (b *Builder) EndTimestamp(t time.Time) *Builder {
	b.a.Timestamps.End = t
	return b
}

// LargeImage sets the large artwork key and its hover text.
func (b *Builder) LargeImage(key, text string) *Builder {
	b.a.Assets.LargeImage = key
	b.a.Assets.LargeText = text
	return b
}

// SmallImage sets the small artwork key and its hover text. It is shown
// only alongside a large image.
func (b *Builder) SmallImage(key, text string) *Builder {
	b.a.Assets.SmallImage = key
	b.a.Assets.SmallText = text
	return b
}

// Party sets the group identity and its current/maximum sizes.
func (b *Builder) Party(id string, size, maxSize int) *Builder {
	b.a.Party = Party{ID: id, Size: size, Max: maxSize}
	return b
}

// JoinSecret sets the token peers use to join the party.
func (b *Builder) JoinSecret(secret string) *Builder {
	b.a.Secrets.Join = secret
	return b
}

// SpectateSecret sets the token peers use to spectate.
func (b *Builder) SpectateSecret(secret string) *Builder {
	b.a.Secrets.Spectate = secret
	return b
}

// MatchSecret sets the match context token.
func (b *Builder) MatchSecret(secret string) *Builder {
	b.a.Secrets.Match = secret
	return b
}

// Instance marks the activity as a concrete game session.
func (b *Builder) Instance(instance bool) *Builder {
	b.a.Instance = instance
	return b
}

// Build returns the assembled activity. The builder may keep being used;
// later changes do not affect activities already built.
func (b *Builder) Build() *Activity {
	a := b.a
	return &a
}
