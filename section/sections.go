package section

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/blog"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/diary"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/mail"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/presences"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/timeline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
	"github.com/spf13/viper"
)

// ErrNotTeacher is returned by the presences section for accounts without a timetable.
var ErrNotTeacher = errors.New("call sheets are only available to teachers")

var order = map[string]int{
	"timeline":  0,
	"mail":      1,
	"diary":     2,
	"blog":      3,
	"presences": 4,
	"workspace": 5,
}

var (
	Timeline = &Section[timeline.Notification]{
		name:        "timeline",
		title:       "Timeline",
		description: "Latest notifications",
		icon:        icon.Timeline,
		fetcher: func(env *Env) loading.Fetcher[timeline.Notification] {
			return timeline.Fetcher(env.Client, viper.GetStringSlice(key.TimelineTypes))
		},
		id: timeline.ID,
		render: func(n timeline.Notification) Item {
			return Item{
				Title:       n.Message,
				Description: join(strings.ToLower(n.Type), when(n.Date)),
			}
		},
	}

	Mail = &Section[mail.Message]{
		name:        "mail",
		title:       "Mail",
		description: "Conversation folder",
		icon:        icon.Mail,
		fetcher: func(env *Env) loading.Fetcher[mail.Message] {
			return mail.Fetcher(env.Client, viper.GetString(key.MailFolder), viper.GetInt(key.APIPageSize))
		},
		id:       mail.ID,
		pageSize: func() int { return viper.GetInt(key.APIPageSize) },
		render: func(m mail.Message) Item {
			subject := m.Subject
			if subject == "" {
				subject = "(no subject)"
			}

			var mark string
			switch {
			case m.Unread:
				mark = icon.Get(icon.Unread)
			case m.HasAttachment:
				mark = icon.Get(icon.Attachment)
			}

			return Item{
				Title:       subject,
				Description: join(m.From, when(m.Date)),
				Mark:        mark,
			}
		},
	}

	Diary = &Section[diary.Task]{
		name:        "diary",
		title:       "Homework",
		description: "Tasks of every diary",
		icon:        icon.Diary,
		fetcher: func(env *Env) loading.Fetcher[diary.Task] {
			return diary.Fetcher(env.Client)
		},
		id:     diary.ID,
		single: true,
		render: func(t diary.Task) Item {
			title := t.Title
			if title == "" {
				title = firstLine(t.Content)
			}
			return Item{
				Title:       title,
				Description: join(t.DiaryTitle, day(t.Date)),
			}
		},
	}

	Blog = &Section[blog.Post]{
		name:        "blog",
		title:       "Blog",
		description: "Published posts",
		icon:        icon.Blog,
		fetcher: func(env *Env) loading.Fetcher[blog.Post] {
			return blog.Fetcher(env.Client, viper.GetString(key.BlogID))
		},
		id: blog.ID,
		render: func(p blog.Post) Item {
			return Item{
				Title:       p.Title,
				Description: join(p.Author, when(p.Published)),
			}
		},
	}

	Presences = &Section[presences.Course]{
		name:        "presences",
		title:       "Call sheets",
		description: "Courses of the coming days",
		icon:        icon.Presences,
		fetcher:     coursesFetcher,
		id:          presences.ID,
		single:      true,
		render: func(c presences.Course) Item {
			slot := fmt.Sprintf("%s %s-%s", c.Start.Format("Mon 02 Jan"), c.Start.Format("15:04"), c.End.Format("15:04"))
			item := Item{
				Title:       join(c.Subject, strings.Join(c.Classes, ", ")),
				Description: join(slot, strings.Join(c.Rooms, ", ")),
			}
			if c.RegisterID == 0 {
				item.Mark = icon.Get(icon.Question)
			}
			return item
		},
	}

	Workspace = &Section[workspace.Document]{
		name:        "workspace",
		title:       "Workspace",
		description: "Documents",
		icon:        icon.Workspace,
		fetcher: func(env *Env) loading.Fetcher[workspace.Document] {
			return env.Workspace.Fetcher("")
		},
		id:     workspace.ID,
		single: true,
		render: func(d workspace.Document) Item {
			mark := icon.Get(icon.File)
			if d.Folder {
				mark = icon.Get(icon.Folder)
			}
			return Item{
				Title:       d.Name,
				Description: join(d.HumanSize(), d.Owner, when(d.Modified)),
				Mark:        mark,
			}
		},
	}
)

func init() {
	register(Timeline, Mail, Diary, Blog, Presences, Workspace)
}

func coursesFetcher(env *Env) loading.Fetcher[presences.Course] {
	return loading.Unpaged(func(ctx context.Context) ([]presences.Course, error) {
		session, err := env.Users.Session(ctx)
		if err != nil {
			return nil, err
		}
		if !session.IsTeacher() {
			return nil, ErrNotTeacher
		}

		structure := viper.GetString(key.PresencesStructure)
		if structure == "" && len(session.Structures) > 0 {
			structure = session.Structures[0].ID
		}

		now := env.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return presences.Courses(ctx, env.Client, session.ID, structure, today, viper.GetInt(key.PresencesDays))
	})
}

func when(t api.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t.Time)
}

func day(t api.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Mon 02 Jan")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// join drops empty parts and separates the rest with a dot.
func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
