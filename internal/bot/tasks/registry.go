package tasks

// RegisterAllTasks initializes and returns a map of all available scheduled
// tasks keyed by the name used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)

	return tasks
}
