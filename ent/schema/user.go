package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// User holds the schema definition for the User entity.
type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUIDv7 assigned on registration"),

		field.String("email").
			NotEmpty().
			Unique().
			Comment("Lower-cased login email"),

		field.String("password_hash").
			NotEmpty().
			Sensitive().
			Comment("bcrypt hash"),

		field.String("first_name").
			Default("").
			MaxLen(100),

		field.String("last_name").
			Default("").
			MaxLen(100),

		field.String("job").
			Default("").
			MaxLen(100).
			Comment("Job title shown in the assignee picker"),

		field.String("refresh_token").
			Optional().
			Nillable().
			Sensitive().
			Comment("Current refresh token"),

		field.Time("last_login_at").
			Optional().
			Nillable(),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),

		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the User.
func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("created_tasks", Task.Type),
		edge.To("assigned_tasks", Task.Type),
		edge.To("sent_messages", Message.Type),
		edge.To("received_messages", Message.Type),
	}
}

// Indexes of the User.
func (User) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("email").
			Unique(),
	}
}
