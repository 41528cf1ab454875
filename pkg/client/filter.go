package client

import "strings"

// FilterProjects keeps projects whose name or description contains query,
// ignoring case. An empty query keeps everything.
func FilterProjects(projects []Project, query string) []Project {
	q := strings.ToLower(query)
	if q == "" {
		return projects
	}

	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// TaskBoard groups tasks into status columns, keeping their order.
type TaskBoard struct {
	Todo       []Task
	InProgress []Task
	Completed  []Task
}

func GroupTasksByStatus(tasks []Task) TaskBoard {
	var board TaskBoard
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusInProgress:
			board.InProgress = append(board.InProgress, t)
		case TaskStatusCompleted:
			board.Completed = append(board.Completed, t)
		default:
			board.Todo = append(board.Todo, t)
		}
	}
	return board
}
