package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/magazine-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState is a server-side snapshot used to skip the user lookup on each request.
type UserAuthState struct {
	UserID    uint   `json:"user_id"`
	Status    string `json:"status"`
	IsAdmin   bool   `json:"is_admin"`
	UpdatedAt int64  `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserAuthState builds an auth snapshot from the user record.
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:    user.ID,
		Status:    user.Status,
		IsAdmin:   user.IsAdmin,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetUserAuthState reads the auth snapshot. The bool reports a cache hit.
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState stores the auth snapshot.
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState drops the auth snapshot, forcing a fresh lookup on the next request.
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
