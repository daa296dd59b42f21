package sqlite

// Schema DDL for all tables. Foreign keys have no ON DELETE action: the
// lifecycle engine purges children before parents, and a stray parent
// delete must fail instead of orphaning rows.
const (
	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    project_id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    trash_status TEXT NOT NULL DEFAULT 'active',
    trash_origin TEXT NOT NULL DEFAULT '',
    deleted_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createLists = `CREATE TABLE IF NOT EXISTS lists (
    list_id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    trash_status TEXT NOT NULL DEFAULT 'active',
    trash_origin TEXT NOT NULL DEFAULT '',
    deleted_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(project_id)
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL,
    assignee_id TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    due_date TEXT,
    creator_id TEXT NOT NULL DEFAULT '',
    trash_status TEXT NOT NULL DEFAULT 'active',
    trash_origin TEXT NOT NULL DEFAULT '',
    deleted_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (list_id) REFERENCES lists(list_id),
    FOREIGN KEY (project_id) REFERENCES projects(project_id)
);`

	createProjectMembers = `CREATE TABLE IF NOT EXISTS project_members (
    project_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (project_id, user_id),
    FOREIGN KEY (project_id) REFERENCES projects(project_id)
);`
)

// Index DDL for the owner, parent and trash query paths.
const (
	idxProjectsOwner      = `CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id, trash_status);`
	idxListsProject       = `CREATE INDEX IF NOT EXISTS idx_lists_project ON lists(project_id, trash_status);`
	idxListsActiveName    = `CREATE UNIQUE INDEX IF NOT EXISTS idx_lists_active_name ON lists(project_id, name) WHERE deleted_at IS NULL;`
	idxTasksList          = `CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id, trash_status);`
	idxTasksProject       = `CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, trash_status);`
	idxProjectMembersUser = `CREATE INDEX IF NOT EXISTS idx_project_members_user ON project_members(user_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createProjects,
	createLists,
	createTasks,
	createProjectMembers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxProjectsOwner,
	idxListsProject,
	idxListsActiveName,
	idxTasksList,
	idxTasksProject,
	idxProjectMembersUser,
}

// exportTables lists the tables written by Export, parents first.
var exportTables = []string{
	"projects",
	"lists",
	"tasks",
	"project_members",
}
