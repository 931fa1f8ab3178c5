package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/msomdec/linkvote/internal/domain"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	m := &userModel{Username: user.Username, Email: emailPtr(user.Email), PasswordHash: user.PasswordHash}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if pgErr, ok := isViolation(err, uniqueViolation); ok {
			if pgErr.ConstraintName == usersEmailKey {
				return domain.Constraint("email %q already exists", user.Email)
			}
			return domain.Constraint("username %q already exists", user.Username)
		}
		return domain.ProviderError("insert user", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "query user by id", "id = ?", id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "query user by username", "username = ?", username)
}

func (r *userRepo) getOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where(where, arg).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError(op, err)
	}
	return m.toDomain(), nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&userModel{}, id)
	if result.Error != nil {
		return domain.ProviderError("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type contentRepo struct {
	db *gorm.DB
}

func (r *contentRepo) CreateForOwner(ctx context.Context, ownerID int64, content *domain.Content) error {
	m := &contentModel{OwnerID: ownerID, URL: content.URL, Title: content.Title}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &userModel{}, ownerID); err != nil {
			return fmt.Errorf("owner %d: %w", ownerID, err)
		}
		if err := tx.Create(m).Error; err != nil {
			if _, ok := isViolation(err, foreignKeyViolation); ok {
				return domain.ErrNotFound
			}
			return domain.ProviderError("insert content", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*content = m.toDomain()
	return nil
}

func (r *contentRepo) GetByID(ctx context.Context, id int64) (*domain.Content, error) {
	var m contentModel
	if err := r.db.WithContext(ctx).Take(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError("get content", err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *contentRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Content, error) {
	var models []contentModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, domain.ProviderError("list contents", err)
	}

	var contents []domain.Content
	for i := range models {
		contents = append(contents, models[i].toDomain())
	}
	return contents, nil
}

func (r *contentRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&contentModel{}, id)
	if result.Error != nil {
		return domain.ProviderError("delete content", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type voteRepo struct {
	db *gorm.DB
}

func (r *voteRepo) Cast(ctx context.Context, vote *domain.Vote) error {
	m := &voteModel{UserID: vote.UserID, ContentID: vote.ContentID, UpVote: vote.UpVote}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &userModel{}, vote.UserID); err != nil {
			return fmt.Errorf("user %d: %w", vote.UserID, err)
		}
		if err := mustExist(tx, &contentModel{}, vote.ContentID); err != nil {
			return fmt.Errorf("content %d: %w", vote.ContentID, err)
		}
		// The struct is passed whole so gorm inserts up_vote even when false.
		if err := tx.Create(m).Error; err != nil {
			if pgErr, ok := isViolation(err, uniqueViolation); ok && pgErr.ConstraintName == votesPkey {
				return domain.ErrDuplicateVote
			}
			if _, ok := isViolation(err, foreignKeyViolation); ok {
				return domain.ErrNotFound
			}
			return domain.ProviderError("insert vote", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	vote.CreatedAt = m.CreatedAt
	vote.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *voteRepo) Get(ctx context.Context, userID, contentID int64) (*domain.Vote, error) {
	var m voteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError("get vote", err)
	}
	return m.toDomain(), nil
}

func (r *voteRepo) Tally(ctx context.Context, contentID int64) (domain.Tally, error) {
	t := domain.Tally{ContentID: contentID}
	db := r.db.WithContext(ctx)

	var c contentModel
	if err := db.Select("id").Take(&c, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return t, domain.ErrNotFound
		}
		return t, domain.ProviderError("lookup content", err)
	}

	var row struct {
		Up   int
		Down int
	}
	err := db.Model(&voteModel{}).
		Select("COUNT(*) FILTER (WHERE up_vote) AS up, COUNT(*) FILTER (WHERE NOT up_vote) AS down").
		Where("content_id = ?", contentID).
		Scan(&row).Error
	if err != nil {
		return t, domain.ProviderError("tally votes", err)
	}
	t.Up, t.Down = row.Up, row.Down
	return t, nil
}
