package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SubTask is a checklist item of a Task. Its id is generated by the client
// and only unique within its task.
type SubTask struct {
	ent.Schema
}

// Fields of the SubTask.
func (SubTask) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),

		field.String("task_id"),

		field.String("name").
			NotEmpty(),

		field.Bool("done").
			Default(false),

		field.Int("position").
			NonNegative().
			Comment("Order within the task"),
	}
}

// Edges of the SubTask.
func (SubTask) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("task", Task.Type).
			Ref("sub_tasks").
			Field("task_id").
			Unique().
			Required(),
	}
}

func (SubTask) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("task_id", "id").
			Unique(),
	}
}
