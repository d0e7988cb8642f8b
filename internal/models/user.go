package models

import "time"

// User is a registered account. Only the bcrypt hash of the password is stored.
type User struct {
	UserID       string    `gorm:"primaryKey;type:char(36)" json:"user_id"`
	Username     string    `gorm:"size:100;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TranslationEvaluation keeps a running average of a user's scored translations.
type TranslationEvaluation struct {
	UserID            string    `gorm:"primaryKey;type:char(36)" json:"user_id"`
	AverageScore      float64   `gorm:"not null;default:0" json:"average_score"`
	TotalTranslations int64     `gorm:"not null;default:0" json:"total_translations"`
	UpdatedAt         time.Time `json:"updated_at"`
	User              *User     `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for TranslationEvaluation
func (TranslationEvaluation) TableName() string {
	return "evaluations"
}
