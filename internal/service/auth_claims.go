package service

import "github.com/golang-jwt/jwt/v5"

// CustomerClaims 买家侧 JWT 载荷。本服务只做校验，签发由身份系统负责。
type CustomerClaims struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AdminClaims 管理端 JWT 载荷
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
