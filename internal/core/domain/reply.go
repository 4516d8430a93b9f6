package domain

// ReplyTarget selects where an outbound message should be delivered.
type ReplyTarget string

const (
	// ReplyToOrigin sends the message back to the chat the triggering
	// command came from.
	ReplyToOrigin ReplyTarget = "origin"
	// ReplyToPrivate sends the message to the user's private channel,
	// used for slatepacks and scheduler notifications.
	ReplyToPrivate ReplyTarget = "private"
)

// Reply is one outbound chat message produced by a protocol round. The chat
// transport delivering it is outside this system.
type Reply struct {
	Target ReplyTarget `json:"target"`
	Text   string      `json:"text"`
}

// OriginReply builds a Reply aimed at the originating chat.
func OriginReply(text string) Reply {
	return Reply{Target: ReplyToOrigin, Text: text}
}

// PrivateReply builds a Reply aimed at the user's private channel.
func PrivateReply(text string) Reply {
	return Reply{Target: ReplyToPrivate, Text: text}
}
