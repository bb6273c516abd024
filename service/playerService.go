package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/fairwayhq/teesheet/entity"
	"github.com/fairwayhq/teesheet/util"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost       = 10
	resetTokenExpiry = time.Hour

	// Minimum Levenshtein similarity for a fuzzy name match on the
	// player list.
	nameSimilarityThreshold = 0.7
)

type PlayerStore interface {
	FindAll(ctx context.Context) ([]*entity.Player, error)
	FindOneByID(ctx context.Context, id bson.ObjectID) (*entity.Player, error)
	FindOneByEmail(ctx context.Context, email string) (*entity.Player, error)
	FindOneByResetToken(ctx context.Context, token string) (*entity.Player, error)
	CreateOne(ctx context.Context, player *entity.Player) (*entity.Player, error)
	UpdateOne(ctx context.Context, player entity.Player) (*entity.Player, error)
	ClearResetToken(ctx context.Context, id bson.ObjectID) error
	DeleteOneByID(ctx context.Context, id bson.ObjectID) error
}

// TokenSource yields opaque, cryptographically random tokens. Used both
// for password resets and as placeholder credentials on accounts created
// without login access.
type TokenSource interface {
	GenerateToken() (string, error)
}

type Mailer interface {
	SendPasswordReset(to, token string) error
}

type PlayerService struct {
	playerStore PlayerStore
	tokens      TokenSource
	mailer      Mailer
}

func NewPlayerService(playerStore PlayerStore, tokens TokenSource, mailer Mailer) *PlayerService {
	return &PlayerService{
		playerStore: playerStore,
		tokens:      tokens,
		mailer:      mailer,
	}
}

// CreateUnregistered creates an account on behalf of someone without
// login access. A random opaque token doubles as placeholder email and
// credential; login stays blocked until the account is claimed. Only the
// non-sensitive fields are returned.
func (s *PlayerService) CreateUnregistered(ctx context.Context, actor *entity.Player, name string) (entity.PlayerSummary, error) {
	token, err := s.tokens.GenerateToken()
	if err != nil {
		return entity.PlayerSummary{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcryptCost)
	if err != nil {
		return entity.PlayerSummary{}, err
	}

	player := &entity.Player{
		Name:          util.NormalizeName(name),
		Email:         token,
		Password:      string(hash),
		Registered:    false,
		Organizations: actor.Organizations,
		AddedBy:       actor.ID,
	}

	created, err := s.playerStore.CreateOne(ctx, player)
	if err != nil {
		return entity.PlayerSummary{}, err
	}

	return created.Summary(), nil
}

// List returns name/id summaries of all players, optionally filtered by
// a fuzzy name query.
func (s *PlayerService) List(ctx context.Context, query string) ([]entity.PlayerSummary, error) {
	players, err := s.playerStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.PlayerSummary, 0, len(players))
	for _, player := range players {
		if query != "" && !nameMatches(player.Name, query) {
			continue
		}
		summaries = append(summaries, player.Summary())
	}

	return summaries, nil
}

func nameMatches(name, query string) bool {
	name = strings.ToLower(name)
	query = strings.ToLower(query)

	if strings.Contains(name, query) {
		return true
	}

	similarity, err := edlib.StringsSimilarity(name, query, edlib.Levenshtein)
	return err == nil && similarity >= nameSimilarityThreshold
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Signup registers a new account with a verified password.
func (s *PlayerService) Signup(ctx context.Context, input SignupInput) (*entity.Player, error) {
	if err := validatePassword(input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, entity.ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	player := &entity.Player{
		Name:       util.NormalizeName(input.Name),
		Email:      email,
		Password:   string(hash),
		Registered: true,
	}

	return s.playerStore.CreateOne(ctx, player)
}

// Authenticate verifies an email/password pair. Accounts created on
// someone's behalf hold an opaque placeholder credential and are refused
// outright.
func (s *PlayerService) Authenticate(ctx context.Context, email, password string) (*entity.Player, error) {
	player, err := s.playerStore.FindOneByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, entity.ErrBadCredentials
	}

	if !player.Registered {
		return nil, entity.ErrNotRegistered
	}

	if bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(password)) != nil {
		return nil, entity.ErrBadCredentials
	}

	return player, nil
}

func (s *PlayerService) FindOneByID(ctx context.Context, id bson.ObjectID) (*entity.Player, error) {
	return s.playerStore.FindOneByID(ctx, id)
}

// StartPasswordReset stores a fresh reset token and mails it. Unknown
// emails are dropped silently so the endpoint can't be used to probe for
// accounts.
func (s *PlayerService) StartPasswordReset(ctx context.Context, email string) error {
	player, err := s.playerStore.FindOneByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		log.Debug().Str("email", email).Msg("password reset for unknown email")
		return nil
	}

	token, err := s.tokens.GenerateToken()
	if err != nil {
		return err
	}

	player.ResetToken = token
	player.ResetExpires = time.Now().Add(resetTokenExpiry)

	if _, err := s.playerStore.UpdateOne(ctx, *player); err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(player.Email, token)
}

// ResetPassword exchanges a valid reset token for a new credential and
// invalidates the token.
func (s *PlayerService) ResetPassword(ctx context.Context, token, password, passwordConfirm string) error {
	if err := validatePassword(password, passwordConfirm); err != nil {
		return err
	}

	player, err := s.playerStore.FindOneByResetToken(ctx, token)
	if err != nil {
		return entity.ErrResetTokenExpired
	}

	if time.Now().After(player.ResetExpires) {
		return entity.ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	player.Password = string(hash)
	player.Registered = true

	if _, err := s.playerStore.UpdateOne(ctx, *player); err != nil {
		return err
	}

	return s.playerStore.ClearResetToken(ctx, player.ID)
}

func (s *PlayerService) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.playerStore.DeleteOneByID(ctx, id)
}

func validatePassword(password, confirm string) error {
	if len(password) < 7 || len(password) > 30 {
		return entity.ErrPasswordBadLength
	}
	if password != confirm {
		return entity.ErrPasswordMismatch
	}
	return nil
}
