package service

import (
	"context"
	"testing"
	"time"

	"github.com/fairwayhq/teesheet/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type fakePlayerStore struct {
	players []*entity.Player
}

func (f *fakePlayerStore) FindAll(_ context.Context) ([]*entity.Player, error) {
	return f.players, nil
}

func (f *fakePlayerStore) FindOneByID(_ context.Context, id bson.ObjectID) (*entity.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, entity.ErrPlayerNotFound
}

func (f *fakePlayerStore) FindOneByEmail(_ context.Context, email string) (*entity.Player, error) {
	for _, p := range f.players {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, entity.ErrPlayerNotFound
}

func (f *fakePlayerStore) FindOneByResetToken(_ context.Context, token string) (*entity.Player, error) {
	for _, p := range f.players {
		if p.ResetToken != "" && p.ResetToken == token {
			return p, nil
		}
	}
	return nil, entity.ErrPlayerNotFound
}

func (f *fakePlayerStore) CreateOne(_ context.Context, player *entity.Player) (*entity.Player, error) {
	for _, p := range f.players {
		if p.Email == player.Email {
			return nil, entity.ErrEmailTaken
		}
	}
	if player.ID.IsZero() {
		player.ID = bson.NewObjectID()
	}
	f.players = append(f.players, player)
	return player, nil
}

func (f *fakePlayerStore) UpdateOne(_ context.Context, player entity.Player) (*entity.Player, error) {
	for i, p := range f.players {
		if p.ID == player.ID {
			updated := player
			f.players[i] = &updated
			return &updated, nil
		}
	}
	return nil, entity.ErrPlayerNotFound
}

func (f *fakePlayerStore) ClearResetToken(_ context.Context, id bson.ObjectID) error {
	for _, p := range f.players {
		if p.ID == id {
			p.ResetToken = ""
			p.ResetExpires = time.Time{}
		}
	}
	return nil
}

func (f *fakePlayerStore) DeleteOneByID(_ context.Context, id bson.ObjectID) error {
	for i, p := range f.players {
		if p.ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return nil
}

type staticTokens struct {
	token string
}

func (s staticTokens) GenerateToken() (string, error) {
	return s.token, nil
}

type recordingMailer struct {
	to    string
	token string
	calls int
}

func (m *recordingMailer) SendPasswordReset(to, token string) error {
	m.to = to
	m.token = token
	m.calls++
	return nil
}

func newTestPlayerService(store *fakePlayerStore, token string) (*PlayerService, *recordingMailer) {
	m := &recordingMailer{}
	return NewPlayerService(store, staticTokens{token: token}, m), m
}

func TestCreateUnregistered(t *testing.T) {
	store := &fakePlayerStore{}
	svc, _ := newTestPlayerService(store, "opaque-token")

	actor := &entity.Player{
		ID:            bson.NewObjectID(),
		Organizations: []bson.ObjectID{bson.NewObjectID()},
	}

	summary, err := svc.CreateUnregistered(context.Background(), actor, "jane doe")
	require.NoError(t, err)

	// Only non-sensitive fields come back.
	assert.Equal(t, "Jane Doe", summary.Name)
	assert.False(t, summary.ID.IsZero())

	require.Len(t, store.players, 1)
	created := store.players[0]
	assert.False(t, created.Registered)
	assert.Equal(t, "opaque-token", created.Email)
	assert.NotEqual(t, "opaque-token", created.Password)
	assert.Equal(t, actor.ID, created.AddedBy)
	assert.Equal(t, actor.Organizations, created.Organizations)
}

func TestListFiltersByFuzzyName(t *testing.T) {
	store := &fakePlayerStore{players: []*entity.Player{
		{ID: bson.NewObjectID(), Name: "Jane Doe"},
		{ID: bson.NewObjectID(), Name: "John Roe"},
		{ID: bson.NewObjectID(), Name: "Mary Major"},
	}}
	svc, _ := newTestPlayerService(store, "")

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.List(context.Background(), "jane doe")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Jane Doe", filtered[0].Name)

	// Close misspelling still matches.
	typo, err := svc.List(context.Background(), "jane do")
	require.NoError(t, err)
	require.Len(t, typo, 1)
	assert.Equal(t, "Jane Doe", typo[0].Name)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestPlayerService(&fakePlayerStore{}, "")

	_, err := svc.Signup(context.Background(), SignupInput{
		Name: "Jane Doe", Email: "jane@example.com",
		Password: "short", PasswordConfirm: "short",
	})
	assert.ErrorIs(t, err, entity.ErrPasswordBadLength)

	_, err = svc.Signup(context.Background(), SignupInput{
		Name: "Jane Doe", Email: "jane@example.com",
		Password: "secret-enough", PasswordConfirm: "different",
	})
	assert.ErrorIs(t, err, entity.ErrPasswordMismatch)
}

func TestSignupAndAuthenticate(t *testing.T) {
	store := &fakePlayerStore{}
	svc, _ := newTestPlayerService(store, "")

	player, err := svc.Signup(context.Background(), SignupInput{
		Name: "jane doe", Email: "Jane@Example.com ",
		Password: "secret-enough", PasswordConfirm: "secret-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", player.Name)
	assert.Equal(t, "jane@example.com", player.Email)
	assert.True(t, player.Registered)
	assert.NotEqual(t, "secret-enough", player.Password)

	got, err := svc.Authenticate(context.Background(), "jane@example.com", "secret-enough")
	require.NoError(t, err)
	assert.Equal(t, player.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, entity.ErrBadCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret-enough")
	assert.ErrorIs(t, err, entity.ErrBadCredentials)
}

func TestAuthenticateRefusesUnregistered(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakePlayerStore{players: []*entity.Player{{
		ID:         bson.NewObjectID(),
		Name:       "Jane Doe",
		Email:      "placeholder",
		Password:   string(hash),
		Registered: false,
	}}}
	svc, _ := newTestPlayerService(store, "")

	_, err = svc.Authenticate(context.Background(), "placeholder", "placeholder")
	assert.ErrorIs(t, err, entity.ErrNotRegistered)
}

func TestPasswordResetFlow(t *testing.T) {
	store := &fakePlayerStore{players: []*entity.Player{{
		ID:         bson.NewObjectID(),
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Password:   "old-hash",
		Registered: true,
	}}}
	svc, m := newTestPlayerService(store, "reset-token")

	require.NoError(t, svc.StartPasswordReset(context.Background(), "jane@example.com"))
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, "jane@example.com", m.to)
	assert.Equal(t, "reset-token", m.token)

	require.NoError(t, svc.ResetPassword(context.Background(), "reset-token", "brand-new-pass", "brand-new-pass"))

	player := store.players[0]
	assert.Empty(t, player.ResetToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(player.Password), []byte("brand-new-pass")))

	// Token is single-use.
	err := svc.ResetPassword(context.Background(), "reset-token", "another-pass", "another-pass")
	assert.ErrorIs(t, err, entity.ErrResetTokenExpired)
}

func TestStartPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, m := newTestPlayerService(&fakePlayerStore{}, "reset-token")

	require.NoError(t, svc.StartPasswordReset(context.Background(), "nobody@example.com"))
	assert.Equal(t, 0, m.calls)
}
