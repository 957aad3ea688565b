// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// LoginRequest defines the payload for user authentication. The password
// policy is not re-checked here; any stored credential may log in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being exchanged.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// NoteRequest defines the payload for creating a note.
type NoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Color   int64  `json:"color"`
}
