package repository

import (
	"context"
	"strings"
	"time"

	"artfolio/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Username       string    `gorm:"column:username;size:50;not null"`
	UsernameKey    string    `gorm:"column:username_key;size:50;not null;uniqueIndex"`
	Email          string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	Role           string    `gorm:"column:role;size:20;not null;index"`
	Bio            string    `gorm:"column:bio;type:text"`
	ProfileImage   string    `gorm:"column:profile_image"`
	CommissionOpen bool      `gorm:"column:commission_open;not null;default:false"`
	Banned         bool      `gorm:"column:banned;not null;default:false;index"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.UserRole(m.Role),
		Bio:            m.Bio,
		ProfileImage:   m.ProfileImage,
		CommissionOpen: m.CommissionOpen,
		Banned:         m.Banned,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// usernameKey is the case-folded form used for uniqueness and lookup.
func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:             u.ID,
		Username:       strings.TrimSpace(u.Username),
		UsernameKey:    usernameKey(u.Username),
		Email:          strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		Bio:            u.Bio,
		ProfileImage:   u.ProfileImage,
		CommissionOpen: u.CommissionOpen,
		Banned:         u.Banned,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainUser(m), nil
}

// GetByLogin finds a user case-insensitively. A login containing "@" is an
// email address; anything else is a username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	column := "username_key"
	if strings.Contains(login, "@") {
		column = "email"
	}
	var m userModel
	err := r.db.WithContext(ctx).Where(column+" = ?", login).First(&m).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainUser(m)
	}
	return out, nil
}

type ProfileUpdate struct {
	Bio            *string
	ProfileImage   *string
	CommissionOpen *bool
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*domain.User, error) {
	updates := map[string]any{}
	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}
	if upd.ProfileImage != nil {
		updates["profile_image"] = *upd.ProfileImage
	}
	if upd.CommissionOpen != nil {
		updates["commission_open"] = *upd.CommissionOpen
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetBanned writes the ban state directly; calling it twice with the same
// value is harmless.
func (r *UserRepository) SetBanned(ctx context.Context, id int64, banned bool) (*domain.User, error) {
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"banned": banned, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type UserFilter struct {
	Role   domain.UserRole
	Banned *bool
	Query  string
}

func (r *UserRepository) List(ctx context.Context, f UserFilter, limit, offset int) ([]domain.User, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&userModel{})
		if f.Role != "" {
			q = q.Where("role = ?", string(f.Role))
		}
		if f.Banned != nil {
			q = q.Where("banned = ?", *f.Banned)
		}
		if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
			like := containsPattern(s)
			q = q.Where("username_key LIKE ? ESCAPE '\\' OR email LIKE ? ESCAPE '\\'", like, like)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userModel
	if err := scoped().Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[domain.UserRole]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[domain.UserRole]int64{
		domain.RoleVisitor: 0,
		domain.RoleArtist:  0,
		domain.RoleAdmin:   0,
	}
	for _, row := range rows {
		out[domain.UserRole(row.Role)] = row.Count
	}
	return out, nil
}

func (r *UserRepository) CountBanned(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("banned = ?", true).Count(&n).Error
	return n, err
}
