package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),

		field.String("name").
			NotEmpty().
			Comment("Task title"),

		field.Text("description").
			Default(""),

		field.String("assigned_to").
			Comment("Single assignee"),

		field.String("created_by").
			Immutable(),

		field.String("deadline").
			Comment("ISO-8601 instant, kept as text so unparseable values survive reads"),

		field.Int8("status").
			Default(0).
			Range(0, 2).
			Comment("0 to do, 1 in progress, 2 completed; cached from sub-tasks unless status_manual"),

		field.Bool("status_manual").
			Default(false).
			Comment("Status was set by hand and is not derived from sub-tasks"),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),

		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Task.
func (Task) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("assignee", User.Type).
			Ref("assigned_tasks").
			Field("assigned_to").
			Unique().
			Required(),

		edge.From("creator", User.Type).
			Ref("created_tasks").
			Field("created_by").
			Unique().
			Required().
			Immutable(),

		edge.To("sub_tasks", SubTask.Type),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("assigned_to"),
		index.Fields("created_by"),
		index.Fields("status"),
	}
}
