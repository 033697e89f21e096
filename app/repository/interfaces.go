package repository

import "github.com/TimKoenig/FolioDesk/app/models"

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	EmailExists(email string) (bool, error)
}
