package model

type User struct {
	Id       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (User) TableName() string {
	return "arcade_user"
}
