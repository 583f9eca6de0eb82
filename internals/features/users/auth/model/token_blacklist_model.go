package model

import (
	"time"
)

// TokenBlacklist stores revoked access tokens by SHA-256 hex digest until
// they would have expired anyway.
type TokenBlacklist struct {
	Token     string    `gorm:"column:token;primaryKey;size:64" json:"token"`
	ExpiredAt time.Time `gorm:"column:expired_at;not null" json:"expired_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
