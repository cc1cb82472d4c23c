package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions mirror the entities in ent/schema. Column order is the
// order repositories select in.
var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "first_name", Type: field.TypeString, Size: 100, Default: ""},
		{Name: "last_name", Type: field.TypeString, Size: 100, Default: ""},
		{Name: "job", Type: field.TypeString, Size: 100, Default: ""},
		{Name: "refresh_token", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "last_login_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "assigned_to", Type: field.TypeString},
		{Name: "created_by", Type: field.TypeString},
		{Name: "deadline", Type: field.TypeString},
		{Name: "status", Type: field.TypeInt8, Default: 0},
		{Name: "status_manual", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = &schema.Table{
		Name:       "tasks",
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_users_assigned_tasks",
				Columns:    []*schema.Column{TasksColumns[3]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "tasks_users_created_tasks",
				Columns:    []*schema.Column{TasksColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "task_assigned_to", Columns: []*schema.Column{TasksColumns[3]}},
			{Name: "task_created_by", Columns: []*schema.Column{TasksColumns[4]}},
			{Name: "task_status", Columns: []*schema.Column{TasksColumns[6]}},
		},
	}

	// SubTasksColumns holds the columns for the "sub_tasks" table.
	SubTasksColumns = []*schema.Column{
		{Name: "task_id", Type: field.TypeString},
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "done", Type: field.TypeBool, Default: false},
		{Name: "position", Type: field.TypeInt},
	}
	// SubTasksTable holds the schema information for the "sub_tasks" table.
	// Sub-task ids come from clients and are only unique per task.
	SubTasksTable = &schema.Table{
		Name:       "sub_tasks",
		Columns:    SubTasksColumns,
		PrimaryKey: []*schema.Column{SubTasksColumns[0], SubTasksColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "sub_tasks_tasks_sub_tasks",
				Columns:    []*schema.Column{SubTasksColumns[0]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// MessagesColumns holds the columns for the "messages" table.
	MessagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sender_id", Type: field.TypeString},
		{Name: "recipient_id", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "sent_at", Type: field.TypeTime},
	}
	// MessagesTable holds the schema information for the "messages" table.
	MessagesTable = &schema.Table{
		Name:       "messages",
		Columns:    MessagesColumns,
		PrimaryKey: []*schema.Column{MessagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "messages_users_sent_messages",
				Columns:    []*schema.Column{MessagesColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "messages_users_received_messages",
				Columns:    []*schema.Column{MessagesColumns[2]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "message_sender_id_recipient_id_sent_at", Columns: []*schema.Column{MessagesColumns[1], MessagesColumns[2], MessagesColumns[4]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		TasksTable,
		SubTasksTable,
		MessagesTable,
	}
)

func init() {
	TasksTable.ForeignKeys[0].RefTable = UsersTable
	TasksTable.ForeignKeys[1].RefTable = UsersTable
	SubTasksTable.ForeignKeys[0].RefTable = TasksTable
	MessagesTable.ForeignKeys[0].RefTable = UsersTable
	MessagesTable.ForeignKeys[1].RefTable = UsersTable
}

// ColumnNames lists a table's columns in declaration order.
func ColumnNames(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
