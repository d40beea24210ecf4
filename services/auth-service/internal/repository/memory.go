package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/model"
)

type userMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[bson.ObjectID]model.User
	byEmail map[string]bson.ObjectID
}

// NewUserMemoryRepository returns a UserRepository that forgets everything on restart.
func NewUserMemoryRepository() UserRepository {
	return &userMemoryRepository{
		byID:    map[bson.ObjectID]model.User{},
		byEmail: map[string]bson.ObjectID{},
	}
}

func (r *userMemoryRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, ErrDuplicateUser
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID

	return user, nil
}

func (r *userMemoryRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[objectID]
	if !ok {
		return nil, ErrNotFound
	}

	return &user, nil
}

func (r *userMemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}

	user := r.byID[id]
	return &user, nil
}

type sessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[bson.ObjectID]model.Session
}

// NewSessionMemoryRepository returns a SessionRepository that forgets everything on restart.
func NewSessionMemoryRepository() SessionRepository {
	return &sessionMemoryRepository{sessions: map[bson.ObjectID]model.Session{}}
}

func (r *sessionMemoryRepository) CreateSession(_ context.Context, session *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session.ID = bson.NewObjectID()
	session.CreatedAt = now
	session.UpdatedAt = now

	r.sessions[session.ID] = *session

	return session, nil
}

func (r *sessionMemoryRepository) GetSession(_ context.Context, id string) (*model.Session, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[objectID]
	if !ok {
		return nil, ErrNotFound
	}

	return &session, nil
}

func (r *sessionMemoryRepository) UpdateTokens(
	_ context.Context,
	id string,
	params UpdateTokensParams,
) (*model.Session, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[objectID]
	if !ok {
		return nil, ErrNotFound
	}

	session.AccessToken = params.AccessToken
	session.RefreshToken = params.RefreshToken
	session.AccessTokenExpiresAt = params.AccessTokenExpiresAt
	session.RefreshTokenExpiresAt = params.RefreshTokenExpiresAt
	session.UpdatedAt = time.Now()
	r.sessions[objectID] = session

	return &session, nil
}
