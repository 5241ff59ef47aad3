package domain

import (
	"context"
	"sort"
	"strings"
)

type fakeStore struct {
	tasks  map[int64]Task
	notes  map[int64]Note
	nextID int64
	err    error

	inserts int
	updates int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[int64]Task{}, notes: map[int64]Note{}}
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Task < out[j].Task })
	return out, nil
}

func (f *fakeStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) SearchTasks(ctx context.Context, name string) ([]Task, error) {
	all, err := f.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range all {
		if strings.Contains(strings.ToUpper(t.Task), strings.ToUpper(name)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertTask(ctx context.Context, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.inserts++
	f.tasks[f.nextID] = Task{ID: f.nextID, Task: name}
	return f.nextID, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, t Task) error {
	if f.err != nil {
		return f.err
	}
	f.updates++
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletes++
	delete(f.tasks, id)
	return nil
}

func (f *fakeStore) ListNotes(ctx context.Context) ([]Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Note
	for _, n := range f.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetNote(ctx context.Context, id int64) (*Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (f *fakeStore) SearchNotes(ctx context.Context, name string) ([]Note, error) {
	all, err := f.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	var out []Note
	for _, n := range all {
		if strings.Contains(strings.ToUpper(n.Name), strings.ToUpper(name)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertNote(ctx context.Context, n Note) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.inserts++
	n.ID = f.nextID
	f.notes[n.ID] = n
	return n.ID, nil
}

func (f *fakeStore) UpdateNote(ctx context.Context, n Note) error {
	if f.err != nil {
		return f.err
	}
	f.updates++
	f.notes[n.ID] = n
	return nil
}

func (f *fakeStore) DeleteNote(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletes++
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) CountTasks(ctx context.Context) (int64, error) {
	return int64(len(f.tasks)), f.err
}

func (f *fakeStore) CountNotes(ctx context.Context) (int64, error) {
	return int64(len(f.notes)), f.err
}

type fakeCache struct {
	entries map[string][]byte
	getErr  error
	delErr  error
	dels    map[string]int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, dels: map[string]int{}}
}

func (c *fakeCache) GenerateKey(name string) string { return "test:" + name }

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels[key]++
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.entries, key)
	return nil
}
