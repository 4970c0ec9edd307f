package service

import (
	"context"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, actorID, userID int64, name, location, profilePic string) (*domain.User, error) {
	if actorID != userID {
		return nil, domain.Forbidden("You can only update your own profile")
	}
	if name == "" && location == "" && profilePic == "" {
		return nil, domain.Invalid("No update data provided")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if location != "" {
		user.Location = location
	}
	if profilePic != "" {
		user.ProfilePic = profilePic
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
