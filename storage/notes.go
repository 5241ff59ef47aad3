package storage

import (
	"context"

	"taskbook-api/domain"
)

const (
	listNotesQuery   = `SELECT id, name, description FROM notes ORDER BY name`
	getNoteQuery     = `SELECT id, name, description FROM notes WHERE id = :id`
	searchNotesQuery = `SELECT id, name, description FROM notes WHERE UPPER(name) LIKE :query ORDER BY name`
	insertNoteQuery  = `INSERT INTO notes (name, description) VALUES (:name, :description) RETURNING id`
	updateNoteQuery  = `UPDATE notes SET name = :name, description = :description WHERE id = :id`
	deleteNoteQuery  = `DELETE FROM notes WHERE id = :id`
	countNotesQuery  = `SELECT COUNT(*) FROM notes`
)

func (s *Storage) ListNotes(ctx context.Context) ([]domain.Note, error) {
	notes := []domain.Note{}
	if err := s.Select(ctx, &notes, listNotesQuery, nil); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote returns nil when the note does not exist.
func (s *Storage) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	var n domain.Note
	ok, err := s.Get(ctx, &n, getNoteQuery, Params{"id": id})
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}

func (s *Storage) SearchNotes(ctx context.Context, name string) ([]domain.Note, error) {
	notes := []domain.Note{}
	if err := s.Select(ctx, &notes, searchNotesQuery, Params{"query": containsPattern(name)}); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Storage) InsertNote(ctx context.Context, n domain.Note) (int64, error) {
	return s.Insert(ctx, insertNoteQuery, Params{"name": n.Name, "description": n.Description})
}

func (s *Storage) UpdateNote(ctx context.Context, n domain.Note) error {
	_, err := s.Exec(ctx, updateNoteQuery, Params{"id": n.ID, "name": n.Name, "description": n.Description})
	return err
}

func (s *Storage) DeleteNote(ctx context.Context, id int64) error {
	_, err := s.Exec(ctx, deleteNoteQuery, Params{"id": id})
	return err
}

func (s *Storage) CountNotes(ctx context.Context) (int64, error) {
	var n int64
	_, err := s.Get(ctx, &n, countNotesQuery, nil)
	return n, err
}
