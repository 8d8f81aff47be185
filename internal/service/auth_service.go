package service

import (
	"errors"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/config"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	role := model.UserRole(req.Role)
	if role == "" {
		role = model.Student
	}
	if role != model.Student && role != model.Teacher {
		return nil, util.NewValidationError("unknown role %q", req.Role)
	}

	_, err := s.UserRepo.FindByEmail(req.Email)
	if err == nil {
		return nil, util.NewValidationError("email %s is already registered", req.Email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewStoreError("find user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, util.NewStoreError("create user", err)
	}
	return user, nil
}

func (s *AuthService) Login(req LoginRequest) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, &util.UnauthorizedError{Code: "INVALID_TOKEN", Message: "invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &util.UnauthorizedError{Code: "INVALID_TOKEN", Message: "invalid credentials"}
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	// 登录时间更新失败不影响登录本身
	_ = s.UserRepo.UpdateLastLogin(user.ID)

	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("user", "")
	}
	if err != nil {
		return nil, util.NewStoreError("find user", err)
	}
	return user, nil
}
