package user

import "time"

type User struct {
	ID              int64      `gorm:"primaryKey"`
	Username        string     `gorm:"column:username;uniqueIndex;not null"`
	Email           string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	FirstName       string     `gorm:"column:first_name"`
	LastName        string     `gorm:"column:last_name"`
	Role            string     `gorm:"column:role;default:user"`
	IsActive        bool       `gorm:"column:is_active;default:true"`
	TwoFactorSecret *string    `gorm:"column:two_factor_secret"`
	BackupCodes     *string    `gorm:"column:backup_codes"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
