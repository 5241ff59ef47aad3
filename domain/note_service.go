package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// noteCacheKey is the template the per-note cache key is derived from.
const noteCacheKey = "note:%d"

// ErrCacheMiss is returned by NoteCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// NoteStorage defines the statements the note service runs against the store.
type NoteStorage interface {
	ListNotes(ctx context.Context) ([]Note, error)
	GetNote(ctx context.Context, id int64) (*Note, error)
	SearchNotes(ctx context.Context, name string) ([]Note, error)
	InsertNote(ctx context.Context, n Note) (int64, error)
	UpdateNote(ctx context.Context, n Note) error
	DeleteNote(ctx context.Context, id int64) error
}

// NoteCache is the external key-value cache holding single notes.
type NoteCache interface {
	GenerateKey(name string) string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// NoteService implements the note operations. Reads of a single note go
// through the cache; updates and deletes invalidate the cached entry.
type NoteService struct {
	st    NoteStorage
	cache NoteCache
	guard Guard[Note]
}

// NewNoteService creates a note service. cache may be nil.
func NewNoteService(st NoteStorage, cache NoteCache) NoteService {
	return NoteService{st: st, cache: cache, guard: NewGuard[Note](st.GetNote, msgNoteNotFound)}
}

func (s NoteService) List(ctx context.Context) (Envelope, error) {
	notes, err := s.st.ListNotes(ctx)
	if err != nil {
		return Envelope{}, err
	}
	if notes == nil {
		notes = []Note{}
	}
	return Success(notes), nil
}

func (s NoteService) Get(ctx context.Context, id int64) (Envelope, error) {
	key := s.key(id)
	if note, ok := s.loadCached(ctx, key); ok {
		return Success(note), nil
	}
	note, err := s.guard.CheckAndGet(ctx, id)
	if err != nil {
		return failOrErr(err)
	}
	s.storeCached(ctx, key, note)
	return Success(note), nil
}

func (s NoteService) Search(ctx context.Context, name string) (Envelope, error) {
	notes, err := s.st.SearchNotes(ctx, name)
	if err != nil {
		return Envelope{}, err
	}
	if len(notes) == 0 {
		return Fail(noMatchesError(msgNoteNoMatches)), nil
	}
	return Success(notes), nil
}

func (s NoteService) Create(ctx context.Context, in NoteInput) (Envelope, error) {
	if in.Name == nil || blank(*in.Name) {
		return Fail(validationError(msgNoteNameRequired)), nil
	}
	note := Note{Name: *in.Name, Description: in.Description}
	id, err := s.st.InsertNote(ctx, note)
	if err != nil {
		return Envelope{}, err
	}
	note.ID = id
	return Success(note), nil
}

// Update changes the fields present in the input and keeps the others.
func (s NoteService) Update(ctx context.Context, id int64, in NoteInput) (Envelope, error) {
	note, err := s.guard.CheckAndGet(ctx, id)
	if err != nil {
		return failOrErr(err)
	}
	if in.Name == nil && in.Description == nil {
		return Fail(validationError(msgNoteNothingToUpdate)), nil
	}
	if in.Name != nil {
		if blank(*in.Name) {
			return Fail(validationError(msgNoteNameRequired)), nil
		}
		note.Name = *in.Name
	}
	if in.Description != nil {
		note.Description = in.Description
	}
	if err := s.st.UpdateNote(ctx, note); err != nil {
		return Envelope{}, err
	}
	s.invalidate(ctx, id)
	return Success(note), nil
}

func (s NoteService) Delete(ctx context.Context, id int64) (Envelope, error) {
	if _, err := s.guard.CheckAndGet(ctx, id); err != nil {
		return failOrErr(err)
	}
	if err := s.st.DeleteNote(ctx, id); err != nil {
		return Envelope{}, err
	}
	s.invalidate(ctx, id)
	return Success(msgNoteDeleted), nil
}

func (s NoteService) key(id int64) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.GenerateKey(fmt.Sprintf(noteCacheKey, id))
}

func (s NoteService) loadCached(ctx context.Context, key string) (Note, bool) {
	if s.cache == nil {
		return Note{}, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.WithError(err).WithField("key", key).Warn("note cache read failed")
		}
		return Note{}, false
	}
	var note Note
	if err := sonic.Unmarshal(data, &note); err != nil {
		log.WithError(err).WithField("key", key).Warn("dropping undecodable note cache entry")
		if derr := s.cache.Del(ctx, key); derr != nil {
			log.WithError(derr).WithField("key", key).Warn("note cache invalidation failed")
		}
		return Note{}, false
	}
	return note, true
}

func (s NoteService) storeCached(ctx context.Context, key string, note Note) {
	if s.cache == nil {
		return
	}
	data, err := sonic.Marshal(note)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		log.WithError(err).WithField("key", key).Warn("note cache write failed")
	}
}

// invalidate removes the cached note. Failures are logged and never change
// the outcome of the operation that triggered it.
func (s NoteService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	key := s.key(id)
	if err := s.cache.Del(ctx, key); err != nil {
		log.WithError(err).WithFields(log.Fields{"note": id, "key": key}).Warn("note cache invalidation failed")
	}
}
