package models

// ActionKind identifies a point-bearing user action.
type ActionKind string

const (
	ActionPost                ActionKind = "post"
	ActionComment             ActionKind = "comment"
	ActionLikeGiven           ActionKind = "like_given"
	ActionLikeReceived        ActionKind = "like_received"
	ActionHeartReaction       ActionKind = "heart_reaction"
	ActionChatMessage         ActionKind = "chat_message"
	ActionMeditationCompleted ActionKind = "meditation_completed"
)

// pointValues maps each action kind to the points it awards. The reverse of an
// action applies the negated value, so the two directions are exact inverses.
var pointValues = map[ActionKind]int{
	ActionPost:                3,
	ActionComment:             2,
	ActionLikeGiven:           1,
	ActionLikeReceived:        3,
	ActionHeartReaction:       1,
	ActionChatMessage:         3,
	ActionMeditationCompleted: 10,
}

// statsFields maps action kinds to the profile stats counter they move.
// Kinds without an entry affect points only.
var statsFields = map[ActionKind]string{
	ActionPost:         "posts_count",
	ActionComment:      "comments_count",
	ActionLikeGiven:    "likes_given_count",
	ActionLikeReceived: "likes_received_count",
}

// Points returns the point value awarded by this action kind.
func (k ActionKind) Points() int {
	return pointValues[k]
}

// StatsField returns the profile stats counter moved by this action kind,
// or "" when the kind has no associated counter.
func (k ActionKind) StatsField() string {
	return statsFields[k]
}

// Valid reports whether the kind is a known action.
func (k ActionKind) Valid() bool {
	_, ok := pointValues[k]
	return ok
}
