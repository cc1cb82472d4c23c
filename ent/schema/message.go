package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Message holds the schema definition for a direct message.
type Message struct {
	ent.Schema
}

// Fields of the Message.
func (Message) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),

		field.String("sender_id").
			Immutable(),

		field.String("recipient_id").
			Immutable(),

		field.Text("content").
			NotEmpty(),

		field.Time("sent_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Message.
func (Message) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("sender", User.Type).
			Ref("sent_messages").
			Field("sender_id").
			Unique().
			Required().
			Immutable(),

		edge.From("recipient", User.Type).
			Ref("received_messages").
			Field("recipient_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Message.
func (Message) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("sender_id", "recipient_id", "sent_at"),
	}
}
