package domain

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// TaskStorage defines the statements the task service runs against the store.
type TaskStorage interface {
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	SearchTasks(ctx context.Context, name string) ([]Task, error)
	InsertTask(ctx context.Context, name string) (int64, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// TaskService implements the task operations. Every method returns an
// envelope for handled outcomes and an error only when the store fails.
type TaskService struct {
	st    TaskStorage
	guard Guard[Task]
}

func NewTaskService(st TaskStorage) TaskService {
	return TaskService{st: st, guard: NewGuard[Task](st.GetTask, msgTaskNotFound)}
}

// List returns every task ordered by name. An empty list is a success.
func (s TaskService) List(ctx context.Context) (Envelope, error) {
	tasks, err := s.st.ListTasks(ctx)
	if err != nil {
		return Envelope{}, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return Success(tasks), nil
}

func (s TaskService) Get(ctx context.Context, id int64) (Envelope, error) {
	task, err := s.guard.CheckAndGet(ctx, id)
	if err != nil {
		return failOrErr(err)
	}
	return Success(task), nil
}

// Search matches name case-insensitively as a substring. Unlike List, no
// match is reported as an error.
func (s TaskService) Search(ctx context.Context, name string) (Envelope, error) {
	tasks, err := s.st.SearchTasks(ctx, name)
	if err != nil {
		return Envelope{}, err
	}
	if len(tasks) == 0 {
		return Fail(noMatchesError(msgTaskNoMatches)), nil
	}
	return Success(tasks), nil
}

func (s TaskService) Create(ctx context.Context, in TaskInput) (Envelope, error) {
	if blank(in.Task) {
		return Fail(validationError(msgTaskNameRequired)), nil
	}
	id, err := s.st.InsertTask(ctx, in.Task)
	if err != nil {
		return Envelope{}, err
	}
	log.WithField("task", id).Debug("task created")
	return Success(Task{ID: id, Task: in.Task}), nil
}

// Update checks the task exists before validating the new name.
func (s TaskService) Update(ctx context.Context, id int64, in TaskInput) (Envelope, error) {
	if _, err := s.guard.CheckAndGet(ctx, id); err != nil {
		return failOrErr(err)
	}
	if blank(in.Task) {
		return Fail(validationError(msgTaskNameRequired)), nil
	}
	task := Task{ID: id, Task: in.Task}
	if err := s.st.UpdateTask(ctx, task); err != nil {
		return Envelope{}, err
	}
	log.WithField("task", id).Debug("task updated")
	return Success(task), nil
}

func (s TaskService) Delete(ctx context.Context, id int64) (Envelope, error) {
	if _, err := s.guard.CheckAndGet(ctx, id); err != nil {
		return failOrErr(err)
	}
	if err := s.st.DeleteTask(ctx, id); err != nil {
		return Envelope{}, err
	}
	log.WithField("task", id).Debug("task deleted")
	return Success(msgTaskDeleted), nil
}
