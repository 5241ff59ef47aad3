package storage

import (
	"context"
	"strings"

	"taskbook-api/domain"
)

const (
	listTasksQuery   = `SELECT id, task FROM tasks ORDER BY task`
	getTaskQuery     = `SELECT id, task FROM tasks WHERE id = :id`
	searchTasksQuery = `SELECT id, task FROM tasks WHERE UPPER(task) LIKE :query ORDER BY task`
	insertTaskQuery  = `INSERT INTO tasks (task) VALUES (:task) RETURNING id`
	updateTaskQuery  = `UPDATE tasks SET task = :task WHERE id = :id`
	deleteTaskQuery  = `DELETE FROM tasks WHERE id = :id`
	countTasksQuery  = `SELECT COUNT(*) FROM tasks`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an upper-cased LIKE pattern matching name anywhere.
func containsPattern(name string) string {
	return "%" + likeEscaper.Replace(strings.ToUpper(name)) + "%"
}

func (s *Storage) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := s.Select(ctx, &tasks, listTasksQuery, nil); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns nil when the task does not exist.
func (s *Storage) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	ok, err := s.Get(ctx, &t, getTaskQuery, Params{"id": id})
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) SearchTasks(ctx context.Context, name string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := s.Select(ctx, &tasks, searchTasksQuery, Params{"query": containsPattern(name)}); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Storage) InsertTask(ctx context.Context, name string) (int64, error) {
	return s.Insert(ctx, insertTaskQuery, Params{"task": name})
}

func (s *Storage) UpdateTask(ctx context.Context, t domain.Task) error {
	_, err := s.Exec(ctx, updateTaskQuery, Params{"id": t.ID, "task": t.Task})
	return err
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.Exec(ctx, deleteTaskQuery, Params{"id": id})
	return err
}

func (s *Storage) CountTasks(ctx context.Context) (int64, error) {
	var n int64
	_, err := s.Get(ctx, &n, countTasksQuery, nil)
	return n, err
}
