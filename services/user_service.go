package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"libris/models"
	"libris/repositories"
)

// UserService is the membership store: registration, authentication,
// profile edits and the deletion guards.
type UserService interface {
	Register(input *RegisterInput) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUser(targetID, actorID uint, actorIsAdmin bool) (*models.User, error)
	UpdateUser(targetID, actorID uint, actorIsAdmin bool, input *UpdateUserInput) (*models.User, error)
	DeleteUser(targetID, actorID uint, actorIsAdmin bool) error
	ListUsers(query string, actorIsAdmin bool) ([]models.User, error)
}

// --- Structs for Input ---

type RegisterInput struct {
	Username  string `json:"username" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email,max=120"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=64"`
	LastName  string `json:"last_name" binding:"max=64"`
}

type UpdateUserInput struct {
	// Pointers distinguish "not provided" from an explicit empty value.
	Email     *string `json:"email" binding:"omitempty,email,max=120"`
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	Address   *string `json:"address" binding:"omitempty,max=256"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	IsAdmin   *bool   `json:"is_admin"`
}

type userService struct {
	repo repositories.UserRepository
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register creates a user with a bcrypt-hashed password. The very first
// registered user becomes the bootstrap admin; there is no other
// admin-provisioning path.
func (s *userService) Register(input *RegisterInput) (*models.User, error) {
	if _, err := s.repo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Count()
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsAdmin:      count == 0, // bootstrap admin
	}

	if err := s.repo.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the username/password pair. It does not reveal
// whether the username exists.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a profile, visible to admins and to the user themselves.
func (s *userService) GetUser(targetID, actorID uint, actorIsAdmin bool) (*models.User, error) {
	if !actorIsAdmin && targetID != actorID {
		return nil, ErrForbidden
	}

	user, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser edits profile fields, optionally rotating the password. Only
// admins may touch the admin flag, and email uniqueness excludes the target's
// own current value.
func (s *userService) UpdateUser(targetID, actorID uint, actorIsAdmin bool, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(targetID, actorID, actorIsAdmin)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if other, err := s.repo.FindByEmail(*input.Email); err == nil && other.ID != user.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.IsAdmin != nil && actorIsAdmin {
		user.IsAdmin = *input.IsAdmin
	}

	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Admin only, never the actor's own account,
// and never an account that still has an open loan.
func (s *userService) DeleteUser(targetID, actorID uint, actorIsAdmin bool) error {
	if !actorIsAdmin {
		return ErrForbidden
	}
	if targetID == actorID {
		return ErrSelfDelete
	}

	user, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	open, err := s.repo.CountOpenLoans(targetID)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrUserHasOpenLoans
	}

	return s.repo.Delete(user)
}

// ListUsers lists or searches members. Admin only.
func (s *userService) ListUsers(query string, actorIsAdmin bool) ([]models.User, error) {
	if !actorIsAdmin {
		return nil, ErrForbidden
	}
	return s.repo.FindAll(query)
}
