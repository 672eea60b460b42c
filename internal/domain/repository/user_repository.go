package repository

import "github.com/despachanota/despachanota-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios.
// Los adaptadores devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
