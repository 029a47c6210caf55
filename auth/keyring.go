// Package auth persists the portal access token in the system keyring.
//
// Token acquisition happens outside this program; the user pastes a token once with `edifice login`.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/zalando/go-keyring"
)

// ErrNoToken is returned when no token is stored for the account.
var ErrNoToken = errors.New("no token stored, run `edifice login`")

const service = constant.Edifice + "-cli"

func user(login string) string {
	login = strings.TrimSpace(login)
	if login == "" {
		return "default"
	}
	return login
}

// SetToken stores the token of login in the system keyring.
func SetToken(login, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(service, user(login), token)
}

// GetToken returns the token stored for login.
func GetToken(login string) (string, error) {
	token, err := keyring.Get(service, user(login))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token stored for login.
func DeleteToken(login string) error {
	err := keyring.Delete(service, user(login))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Keyring is a token source reading the keyring on every request, so a new login applies immediately.
type Keyring struct {
	Login string
}

// Token implements api.TokenSource.
func (k Keyring) Token(context.Context) (string, error) {
	return GetToken(k.Login)
}
