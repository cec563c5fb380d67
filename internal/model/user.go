package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	Username     *string   `json:"username" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:hashed_password;not null"`
	Bio          *string   `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName 页面展示用名称，没有用户名时取邮箱前缀
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	for i, ch := range u.Email {
		if ch == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
}
