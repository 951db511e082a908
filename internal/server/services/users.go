// Package services contains the account server's business logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/typetutor/internal/common"
	"github.com/dmitrijs2005/typetutor/internal/cryptox"
	"github.com/dmitrijs2005/typetutor/internal/dbx"
	"github.com/dmitrijs2005/typetutor/internal/logging"
	"github.com/dmitrijs2005/typetutor/internal/server/auth"
	"github.com/dmitrijs2005/typetutor/internal/server/avatars"
	"github.com/dmitrijs2005/typetutor/internal/server/config"
	"github.com/dmitrijs2005/typetutor/internal/server/leaderboard"
	"github.com/dmitrijs2005/typetutor/internal/server/models"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	minNameLen     = 2
	maxNameLen     = 32
	minPasswordLen = 8
	maxLeaderboard = 100
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ProfileUpdate is a partial profile change; nil fields are left as they are.
type ProfileUpdate struct {
	Name      *string
	AvatarKey *string
	Result    *models.Score
}

type UserService struct {
	repomanager                 repomanager.RepositoryManager
	board                       leaderboard.Board
	presigner                   avatars.Presigner
	mailer                      Mailer
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(m repomanager.RepositoryManager, board leaderboard.Board, presigner avatars.Presigner,
	mailer Mailer, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repomanager:                 m,
		board:                       board,
		presigner:                   presigner,
		mailer:                      mailer,
		log:                         log.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register validates the input, creates the account and returns it with a
// fresh access token. Validation problems come back as ValidationErrors.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	name = normalizeName(name)

	var verrs ValidationErrors
	if !emailRe.MatchString(email) {
		verrs.add("email", "Enter a valid email address")
	}
	if msg := validateName(name); msg != "" {
		verrs.add("name", msg)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		verrs.add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if err := verrs.errOrNil(); err != nil {
		return nil, "", err
	}

	hash, salt := cryptox.HashPassword([]byte(password))
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", ValidationErrors{{Field: "email", Message: "Email already in use"}}
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	if err := s.mailer.Send(ctx, u.Email, "Welcome to TypeTutor",
		fmt.Sprintf("Hi %s, your account is ready. Happy typing!", u.DisplayName)); err != nil {
		s.log.Warn(ctx, "welcome mail failed", "user", u.ID, "error", err)
	}

	token, err := s.generateAccessToken(u.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info(ctx, "user registered", "user", u.ID)
	return u, token, nil
}

// Login returns ErrInvalidCredentials without saying which half was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if !cryptox.VerifyPassword([]byte(password), u.PasswordHash, u.PasswordSalt) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, userID)
}

// UpdateProfile applies patch in one transaction. A practice result is stored
// as a score row and the user's stats are recomputed from all their scores.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (*models.User, error) {
	if err := validatePatch(userID, &patch); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		u, err := usersRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			u.DisplayName = *patch.Name
		}
		if patch.AvatarKey != nil {
			u.AvatarKey = *patch.AvatarKey
		}
		if patch.Result != nil {
			scoresRepo := s.repomanager.Scores(tx)
			score := *patch.Result
			score.ID = uuid.NewString()
			score.UserID = userID
			if err := scoresRepo.Add(ctx, &score); err != nil {
				return err
			}
			stats, err := scoresRepo.Aggregate(ctx, userID)
			if err != nil {
				return err
			}
			u.Stats = stats
		}

		if err := usersRepo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncLeaderboard(ctx, updated, patch)
	return updated, nil
}

// syncLeaderboard is best effort: the profile is already committed.
func (s *UserService) syncLeaderboard(ctx context.Context, u *models.User, patch ProfileUpdate) {
	var err error
	switch {
	case patch.Result != nil:
		err = s.board.Submit(ctx, u.ID, u.DisplayName, u.Stats.BestWPM)
	case patch.Name != nil:
		err = s.board.Rename(ctx, u.ID, u.DisplayName)
	}
	if err != nil {
		s.log.Warn(ctx, "leaderboard update failed", "user", u.ID, "error", err)
	}
}

func (s *UserService) AvatarUploadURL(ctx context.Context, userID string) (key, url string, err error) {
	return s.presigner.PresignUpload(ctx, userID)
}

// Leaderboard clamps limit to [1, 100].
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}
	return s.board.Top(ctx, limit)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeName trims and composes name to NFC so that rune counts match what
// the user sees.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func validateName(name string) string {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return fmt.Sprintf("Name must be %d to %d characters", minNameLen, maxNameLen)
	}
	return ""
}

func validatePatch(userID string, patch *ProfileUpdate) error {
	var verrs ValidationErrors
	if patch.Name != nil {
		name := normalizeName(*patch.Name)
		patch.Name = &name
		if msg := validateName(name); msg != "" {
			verrs.add("name", msg)
		}
	}
	if patch.AvatarKey != nil && !strings.HasPrefix(*patch.AvatarKey, "avatars/"+userID+"/") {
		verrs.add("avatarKey", "Unknown avatar upload")
	}
	if r := patch.Result; r != nil {
		if r.WPM < 0 || r.Accuracy < 0 || r.Accuracy > 100 || r.DurationMs <= 0 {
			verrs.add("result", "Practice result is out of range")
		}
	}
	return verrs.errOrNil()
}
