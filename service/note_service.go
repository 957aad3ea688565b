// file: service/note_service.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-notes-api/model"
	"go-notes-api/repository"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrInvalidNoteID = errors.New("invalid note id format")
)

const noteCacheTTL = 10 * time.Minute

// cachedNote is the redis representation of a note. model.Note hides
// OwnerID from API responses with a "-" tag, so the cache needs its own
// field to round-trip notes without losing the owner.
type cachedNote struct {
	model.Note
	OwnerID string `json:"owner_id"`
}

func toCache(notes []*model.Note) []cachedNote {
	cached := make([]cachedNote, len(notes))
	for i, note := range notes {
		cached[i] = cachedNote{Note: *note, OwnerID: note.OwnerID}
	}
	return cached
}

func fromCache(cached []cachedNote) []*model.Note {
	notes := make([]*model.Note, len(cached))
	for i := range cached {
		note := cached[i].Note
		note.OwnerID = cached[i].OwnerID
		notes[i] = &note
	}
	return notes
}

// NoteService handles note CRUD with a cache-aside strategy on the
// per-owner listing.
type NoteService struct {
	repo        repository.INoteRepository
	redisClient *redis.Client
}

func NewNoteService(repo repository.INoteRepository, redisClient *redis.Client) *NoteService {
	return &NoteService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// CreateNote saves a note for the owner and invalidates the owner's
// cached listing.
func (s *NoteService) CreateNote(ownerID string, req model.NoteRequest) (*model.Note, error) {
	note := &model.Note{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	}

	if err := s.repo.CreateNote(note); err != nil {
		return nil, err
	}

	s.redisClient.Del(context.Background(), noteCacheKey(ownerID))
	return note, nil
}

// ListNotesForOwner returns the owner's notes, serving from Redis when
// a fresh copy is cached.
func (s *NoteService) ListNotesForOwner(ownerID string) ([]*model.Note, error) {
	cacheKey := noteCacheKey(ownerID)
	ctx := context.Background()

	payload, err := s.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		var cached []cachedNote
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return fromCache(cached), nil
		}
	}

	notes, err := s.repo.GetNotesByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(toCache(notes)); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, noteCacheTTL)
	}

	return notes, nil
}

// DeleteNote removes the owner's note. Deleting a note that does not
// exist, or that belongs to someone else, reports ErrNoteNotFound
// without revealing which.
func (s *NoteService) DeleteNote(ownerID, noteID string) error {
	if _, err := uuid.Parse(noteID); err != nil {
		return ErrInvalidNoteID
	}

	deleted, err := s.repo.DeleteNoteByIDAndOwnerID(noteID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoteNotFound
	}

	s.redisClient.Del(context.Background(), noteCacheKey(ownerID))
	return nil
}

func noteCacheKey(ownerID string) string {
	return fmt.Sprintf("notes:%s", ownerID)
}
