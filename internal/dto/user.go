package dto

import "github.com/yukikurage/taskboard-api/internal/models"

// UserDTO is the public view of a user; the password hash never leaves the service.
type UserDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
}

// AuthResponseDTO is returned by register and login
type AuthResponseDTO struct {
	UserDTO
	Token string `json:"token"`
}

// MessageDTO is the body of acknowledgements
type MessageDTO struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Country: user.Country,
	}
}

func ToAuthResponseDTO(user models.User, token string) AuthResponseDTO {
	return AuthResponseDTO{
		UserDTO: ToUserDTO(user),
		Token:   token,
	}
}
