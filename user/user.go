// Package user reads the session user and the userbook profiles.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// ErrNotFound is returned when the userbook has no profile for an id.
var ErrNotFound = errors.New("profile not found")

// Structure is a school the user belongs to.
type Structure struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the authenticated user.
type Session struct {
	ID          string      `json:"id"`
	Login       string      `json:"login"`
	DisplayName string      `json:"displayName"`
	Types       []string    `json:"types"`
	Structures  []Structure `json:"structures"`
	Classes     []string    `json:"classes,omitempty"`
	Children    []string    `json:"children,omitempty"`
}

// IsTeacher reports whether the session user is a teacher.
func (s Session) IsTeacher() bool {
	return lo.ContainsBy(s.Types, func(t string) bool {
		return strings.EqualFold(t, "Teacher")
	})
}

// Profile is a userbook entry.
type Profile struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Types       []string `json:"types"`
	Email       string   `json:"email,omitempty"`
	Mobile      string   `json:"mobile,omitempty"`
	Schools     []string `json:"schools,omitempty"`
	Birthdate   api.Time `json:"birthdate"`
	Mood        string   `json:"mood,omitempty"`
	Motto       string   `json:"motto,omitempty"`
}

type sessionReply struct {
	UserID         string   `json:"userId"`
	Login          string   `json:"login"`
	Username       string   `json:"username"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Type           any      `json:"type"`
	Structures     []string `json:"structures"`
	StructureNames []string `json:"structureNames"`
	Classes        []string `json:"classNames"`
	ChildrenIDs    []string `json:"childrenIds"`
}

type school struct {
	Name string `json:"name"`
}

type personReply struct {
	Status string `json:"status"`
	Result []struct {
		ID          string   `json:"id"`
		DisplayName string   `json:"displayName"`
		Type        any      `json:"type"`
		Email       string   `json:"email"`
		Mobile      string   `json:"mobile"`
		Birthdate   api.Time `json:"birthdate"`
		Mood        string   `json:"mood"`
		Motto       string   `json:"motto"`
		Schools     []school `json:"schools"`
	} `json:"result"`
}

// FetchSession reads the session user.
func FetchSession(ctx context.Context, c api.Getter) (Session, error) {
	var reply sessionReply
	if err := c.Get(ctx, "/auth/oauth2/userinfo", nil, &reply); err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}

	display := reply.Username
	if display == "" {
		display = strings.TrimSpace(reply.FirstName + " " + reply.LastName)
	}

	structures := lo.Map(reply.Structures, func(id string, i int) Structure {
		s := Structure{ID: id}
		if i < len(reply.StructureNames) {
			s.Name = reply.StructureNames[i]
		}
		return s
	})

	return Session{
		ID:          reply.UserID,
		Login:       reply.Login,
		DisplayName: display,
		Types:       types(reply.Type),
		Structures:  structures,
		Classes:     reply.Classes,
		Children:    reply.ChildrenIDs,
	}, nil
}

// FetchProfile reads the userbook profile of id.
func FetchProfile(ctx context.Context, c api.Getter, id string) (Profile, error) {
	var reply personReply
	if err := c.Get(ctx, "/userbook/api/person", url.Values{"id": {id}}, &reply); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", id, err)
	}

	if len(reply.Result) == 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r := reply.Result[0]
	return Profile{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Types:       types(r.Type),
		Email:       r.Email,
		Mobile:      r.Mobile,
		Schools: lo.Map(r.Schools, func(s school, _ int) string {
			return s.Name
		}),
		Birthdate: r.Birthdate,
		Mood:      r.Mood,
		Motto:     r.Motto,
	}, nil
}

// types accepts both a single profile type and a list of them.
func types(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	default:
		return cast.ToStringSlice(t)
	}
}

// Cache keeps the session user and the profiles already looked up.
type Cache struct {
	client   api.Getter
	session  *loading.Async[Session]
	mu       sync.Mutex
	profiles map[string]*loading.Async[Profile]
}

// NewCache returns an empty cache reading through client.
func NewCache(client api.Getter) *Cache {
	return &Cache{
		client:   client,
		session:  loading.NewAsync[Session](),
		profiles: make(map[string]*loading.Async[Profile]),
	}
}

// Session returns the session user, fetching it when missing or invalidated.
func (c *Cache) Session(ctx context.Context) (Session, error) {
	return load(ctx, c.session, func(ctx context.Context) (Session, error) {
		return FetchSession(ctx, c.client)
	})
}

// Profile returns the profile of id, fetching it when missing or invalidated.
func (c *Cache) Profile(ctx context.Context, id string) (Profile, error) {
	c.mu.Lock()
	state, ok := c.profiles[id]
	if !ok {
		state = loading.NewAsync[Profile]()
		c.profiles[id] = state
	}
	c.mu.Unlock()

	return load(ctx, state, func(ctx context.Context) (Profile, error) {
		return FetchProfile(ctx, c.client, id)
	})
}

// SessionState exposes the session state for rendering.
func (c *Cache) SessionState() loading.AsyncSnapshot[Session] {
	return c.session.Snapshot()
}

// Invalidate flags every cached resource as outdated.
func (c *Cache) Invalidate() {
	c.session.Invalidate()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, state := range c.profiles {
		state.Invalidate()
	}
}

func load[T any](ctx context.Context, state *loading.Async[T], fetch func(context.Context) (T, error)) (T, error) {
	if !state.Stale() {
		if data, ok := state.Snapshot().Data.Get(); ok {
			return data, nil
		}
	}

	data, err := state.Load(ctx, fetch)
	if err != nil {
		return data.OrEmpty(), err
	}

	value, ok := data.Get()
	if !ok {
		return value, errors.New("a request for this resource is already pending")
	}
	return value, nil
}
