// Package mail reads the conversation folders.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Folders known by the conversation service. Any user folder id is accepted too.
const (
	Inbox  = "inbox"
	Outbox = "outbox"
	Draft  = "draft"
	Trash  = "trash"
)

// Message is a conversation summary as shown in a folder.
type Message struct {
	ID            string   `json:"id"`
	Subject       string   `json:"subject"`
	From          string   `json:"from"`
	To            []string `json:"to"`
	Date          api.Time `json:"date"`
	Unread        bool     `json:"unread"`
	HasAttachment bool     `json:"hasAttachment"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Detail is a full message.
type Detail struct {
	Message
	Cc          []string     `json:"cc"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
}

// ID returns the identifier used to merge folder pages.
func ID(m Message) string { return m.ID }

type messageReply struct {
	ID            string            `json:"id"`
	Subject       string            `json:"subject"`
	From          string            `json:"from"`
	To            []string          `json:"to"`
	Cc            []string          `json:"cc"`
	Date          api.Time          `json:"date"`
	Unread        bool              `json:"unread"`
	HasAttachment bool              `json:"hasAttachment"`
	DisplayNames  [][]any           `json:"displayNames"`
	Body          string            `json:"body"`
	Attachments   []attachmentReply `json:"attachments"`
}

type attachmentReply struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// names maps user and group ids to their display names.
func (r messageReply) names() map[string]string {
	names := make(map[string]string, len(r.DisplayNames))
	for _, entry := range r.DisplayNames {
		if len(entry) < 2 {
			continue
		}
		names[cast.ToString(entry[0])] = cast.ToString(entry[1])
	}
	return names
}

func (r messageReply) message() Message {
	names := r.names()
	resolve := func(id string) string {
		if name, ok := names[id]; ok && name != "" {
			return name
		}
		return id
	}

	return Message{
		ID:            r.ID,
		Subject:       strings.TrimSpace(r.Subject),
		From:          resolve(r.From),
		To:            lo.Map(r.To, func(id string, _ int) string { return resolve(id) }),
		Date:          r.Date,
		Unread:        r.Unread,
		HasAttachment: r.HasAttachment || len(r.Attachments) > 0,
	}
}

// Messages reads one page of folder.
func Messages(ctx context.Context, c api.Getter, folder string, page, pageSize int) ([]Message, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}

	var reply []messageReply
	if err := c.Get(ctx, "/conversation/api/folders/"+url.PathEscape(folder)+"/messages", query, &reply); err != nil {
		return nil, fmt.Errorf("folder %s page %d: %w", folder, page, err)
	}

	return lo.Map(reply, func(r messageReply, _ int) Message {
		return r.message()
	}), nil
}

// Get reads a full message.
func Get(ctx context.Context, c api.Getter, id string) (Detail, error) {
	var reply messageReply
	if err := c.Get(ctx, "/conversation/api/messages/"+url.PathEscape(id), nil, &reply); err != nil {
		return Detail{}, fmt.Errorf("message %s: %w", id, err)
	}

	names := reply.names()
	return Detail{
		Message: reply.message(),
		Cc: lo.Map(reply.Cc, func(id string, _ int) string {
			return lo.ValueOr(names, id, id)
		}),
		Body: api.Text(reply.Body),
		Attachments: lo.Map(reply.Attachments, func(a attachmentReply, _ int) Attachment {
			return Attachment{ID: a.ID, Name: a.Filename, ContentType: a.ContentType, Size: a.Size}
		}),
	}, nil
}

// Fetcher pages through folder.
func Fetcher(c api.Getter, folder string, pageSize int) loading.Fetcher[Message] {
	return func(ctx context.Context, page int) ([]Message, error) {
		return Messages(ctx, c, folder, page, pageSize)
	}
}
