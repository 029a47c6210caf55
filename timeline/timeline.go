// Package timeline reads the notification feed.
package timeline

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
)

// Notification is a timeline entry.
type Notification struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	EventType string   `json:"eventType"`
	Message   string   `json:"message"`
	Sender    string   `json:"sender,omitempty"`
	Author    string   `json:"author,omitempty"`
	URI       string   `json:"uri,omitempty"`
	Date      api.Time `json:"date"`
}

// ID returns the identifier used to merge timeline pages.
func ID(n Notification) string { return n.ID }

type notificationReply struct {
	ID        string   `json:"_id"`
	Type      string   `json:"type"`
	EventType string   `json:"event-type"`
	Message   string   `json:"message"`
	Sender    string   `json:"sender"`
	Date      api.Time `json:"date"`
	Params    struct {
		Username    string `json:"username"`
		URI         string `json:"uri"`
		ResourceURI string `json:"resourceUri"`
	} `json:"params"`
}

type pageReply struct {
	Status  string              `json:"status"`
	Number  int                 `json:"number"`
	Results []notificationReply `json:"results"`
}

// Notifications reads one page of the feed restricted to types. No type means every type.
func Notifications(ctx context.Context, c api.Getter, page int, types []string) ([]Notification, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}
	for _, t := range types {
		query.Add("type", t)
	}

	var reply pageReply
	if err := c.Get(ctx, "/timeline/lastNotifications", query, &reply); err != nil {
		return nil, fmt.Errorf("timeline page %d: %w", page, err)
	}

	return lo.Map(reply.Results, func(r notificationReply, _ int) Notification {
		uri := r.Params.ResourceURI
		if uri == "" {
			uri = r.Params.URI
		}
		return Notification{
			ID:        r.ID,
			Type:      r.Type,
			EventType: r.EventType,
			Message:   api.Text(r.Message),
			Sender:    r.Sender,
			Author:    r.Params.Username,
			URI:       uri,
			Date:      r.Date,
		}
	}), nil
}

// Types lists the notification types enabled on the portal.
func Types(ctx context.Context, c api.Getter) ([]string, error) {
	var types []string
	if err := c.Get(ctx, "/timeline/types", nil, &types); err != nil {
		return nil, fmt.Errorf("timeline types: %w", err)
	}
	return types, nil
}

// Fetcher pages through the feed.
func Fetcher(c api.Getter, types []string) loading.Fetcher[Notification] {
	return func(ctx context.Context, page int) ([]Notification, error) {
		return Notifications(ctx, c, page, types)
	}
}
