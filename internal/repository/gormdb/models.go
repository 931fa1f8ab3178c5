package gormdb

import (
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

// userModel owns contents and votes; deleting it cascades to both.
type userModel struct {
	ID           int64          `gorm:"primaryKey"`
	Username     string         `gorm:"not null;uniqueIndex:users_username_key"`
	Email        *string        `gorm:"uniqueIndex:users_email_key"`
	PasswordHash string         `gorm:"not null"`
	Contents     []contentModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Votes        []voteModel    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type contentModel struct {
	ID        int64       `gorm:"primaryKey"`
	OwnerID   int64       `gorm:"not null;index"`
	URL       string      `gorm:"column:url;not null"`
	Title     string      `gorm:"not null"`
	Votes     []voteModel `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (contentModel) TableName() string { return "contents" }

// voteModel is keyed by (user_id, content_id).
type voteModel struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	ContentID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	UpVote    bool  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (voteModel) TableName() string { return "votes" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        deref(m.Email),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m *contentModel) toDomain() domain.Content {
	return domain.Content{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		URL:       m.URL,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *voteModel) toDomain() *domain.Vote {
	return &domain.Vote{
		UserID:    m.UserID,
		ContentID: m.ContentID,
		UpVote:    m.UpVote,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// emailPtr maps an empty email to NULL; the unique index ignores NULLs.
func emailPtr(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
