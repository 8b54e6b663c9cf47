package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// User is a registered account. Usernames and emails are globally unique;
// the password is only ever stored as a SHA-256 hex digest.
type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:64;not null"`
	Nome         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	Perfil       string `gorm:"size:20;not null;default:user"`
	// IPAutorizado, when non-empty, restricts login to that exact client
	// address.
	IPAutorizado string `gorm:"size:45"`
	CreatedAt    time.Time
}

// PublicUser is the subset of a user record safe to return to callers.
type PublicUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Perfil       string `json:"perfil"`
	IPAutorizado string `json:"ip_autorizado"`
	CreatedAt    string `json:"created_at"`
}

// SetPassword stores the SHA-256 hex digest of the plaintext password.
func (u *User) SetPassword(password string) {
	sum := sha256.Sum256([]byte(password))
	u.PasswordHash = hex.EncodeToString(sum[:])
}

// CheckPassword reports whether the plaintext password matches the stored
// digest.
func (u *User) CheckPassword(password string) bool {
	sum := sha256.Sum256([]byte(password))
	candidate := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(candidate)) == 1
}

// ToPublic returns the user's public representation. The password digest is
// never included.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Nome:         u.Nome,
		Email:        u.Email,
		Perfil:       u.Perfil,
		IPAutorizado: u.IPAutorizado,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}
