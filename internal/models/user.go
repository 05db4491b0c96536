package models

// User represents a registered account
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"uniqueIndex:idx_users_username;size:255;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"password"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
