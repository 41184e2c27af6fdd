package model

import (
	"strings"
	"time"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/28 21:57
 * @file: model_user.go
 * @description: user model
 */

type User struct {
	BaseModel
	UserId      string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"userId"`
	Username    string     `gorm:"column:username;type:varchar(128);uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Password    string     `gorm:"column:password;type:varchar(255)" json:"-"`
	FirstName   string     `gorm:"column:first_name;type:varchar(128)" json:"firstName"`
	LastName    string     `gorm:"column:last_name;type:varchar(128)" json:"lastName"`
	Role        string     `gorm:"column:role;type:varchar(32);default:MEMBER" json:"role"`
	Bio         string     `gorm:"column:bio;type:text" json:"bio"`
	Avatar      string     `gorm:"column:avatar;type:text" json:"avatar"`
	Phone       string     `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Department  string     `gorm:"column:department;type:varchar(128)" json:"department"`
	IsActive    bool       `gorm:"column:is_active;default:true" json:"isActive"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

func (u *User) TableName() string {
	return "t_user"
}

// FullName 姓名，缺省时回退到用户名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Identity 身份目录返回的用户概要
type Identity struct {
	UserId    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName 用于邮件与通知的显示名
func (i *Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Username
	}
	return name
}

func (u *User) Identity() *Identity {
	return &Identity{
		UserId:    u.UserId,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type Register struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResp struct {
	UserInfo *Identity  `json:"userInfo"`
	Token    *TokenResp `json:"token"`
}

type TokenResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// UpdateProfileReq 更新个人资料，nil 字段不修改
type UpdateProfileReq struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Bio        *string `json:"bio"`
	Avatar     *string `json:"avatar"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
