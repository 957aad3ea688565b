package repository

import (
	"database/sql"
	"go-notes-api/model"
)

// INoteRepository defines the contract for note database operations.
// Every read and delete is scoped to the owner so one user can never
// touch another user's notes.
type INoteRepository interface {
	CreateNote(note *model.Note) error
	GetNotesByOwnerID(ownerID string) ([]*model.Note, error)
	DeleteNoteByIDAndOwnerID(id, ownerID string) (bool, error)
}

// NoteRepository implements INoteRepository.
type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) CreateNote(note *model.Note) error {
	query := `INSERT INTO notes (id, owner_id, title, content, color) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.DB.QueryRow(query, note.ID, note.OwnerID, note.Title, note.Content, note.Color).Scan(&note.CreatedAt)
}

func (r *NoteRepository) GetNotesByOwnerID(ownerID string) ([]*model.Note, error) {
	query := `SELECT id, owner_id, title, content, color, created_at FROM notes WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*model.Note{}
	for rows.Next() {
		note := &model.Note{}
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.Color, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// DeleteNoteByIDAndOwnerID deletes the note and reports whether a row
// existed for this owner.
func (r *NoteRepository) DeleteNoteByIDAndOwnerID(id, ownerID string) (bool, error) {
	query := `DELETE FROM notes WHERE id = $1 AND owner_id = $2`
	result, err := r.DB.Exec(query, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
