// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/blog"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/diary"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/internal/ui"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/mail"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/open"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/presences"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/timeline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
	"github.com/samber/lo"
)

// detailMsg is the full text of a row, loaded on demand.
type detailMsg struct {
	seq  int
	body string
	err  error
}

func (b *statefulBubble) describe(row section.Row) tea.Cmd {
	ctx, client, seq := b.ctx, b.env.Client, b.detailSeq
	return func() tea.Msg {
		body, err := describe(ctx, client, row)
		return detailMsg{seq: seq, body: body, err: err}
	}
}

// describe renders the full text of row, fetching what the list does not carry.
func describe(ctx context.Context, c api.Getter, row section.Row) (string, error) {
	switch v := row.Value.(type) {
	case mail.Message:
		detail, err := mail.Get(ctx, c, v.ID)
		if err != nil {
			return "", err
		}
		return describeMail(detail), nil
	case presences.Course:
		register, err := presences.RegisterOf(ctx, c, v)
		if err != nil {
			return "", err
		}
		return describeRegister(register), nil
	case diary.Task:
		return lines(
			style.Faint(section.Diary.Render(v).Description),
			"",
			v.Content,
		), nil
	case blog.Post:
		return lines(
			style.Faint(section.Blog.Render(v).Description),
			"",
			v.Content,
		), nil
	case timeline.Notification:
		return lines(
			style.Faint(section.Timeline.Render(v).Description),
			"",
			v.Message,
			"",
			style.Faint(v.URI),
		), nil
	case workspace.Document:
		return lines(
			"Owner:    "+v.Owner,
			"Size:     "+v.HumanSize(),
			"Type:     "+lo.Ternary(v.Folder, "folder", v.ContentType),
			"Modified: "+v.Modified.Format("2006-01-02 15:04"),
		), nil
	default:
		return lines(row.Item.Title, "", row.Item.Description), nil
	}
}

// link returns the portal page showing row.
func link(row section.Row) string {
	switch v := row.Value.(type) {
	case timeline.Notification:
		return v.URI
	case mail.Message:
		return "/conversation/conversation#/read-mail/" + v.ID
	case blog.Post:
		return "/blog#/view/" + v.BlogID + "/" + v.ID
	case diary.Task:
		return "/homeworks#/view-homeworks/" + v.DiaryID
	case workspace.Document:
		if v.Folder {
			return "/workspace/workspace#/folder/" + v.ID
		}
		return "/workspace/document/" + v.ID
	case presences.Course:
		if v.RegisterID == 0 {
			return ""
		}
		return fmt.Sprintf("/presences#/registers/%d", v.RegisterID)
	default:
		return ""
	}
}

func (b *statefulBubble) openLink(row section.Row) tea.Cmd {
	target, err := open.Resolve(b.env.Client.BaseURL(), link(row))
	if err != nil {
		return ui.Notify(err.Error(), ui.Warn)
	}

	return func() tea.Msg {
		if err := open.Start(target); err != nil {
			return ui.ToastMsg{Text: err.Error(), Level: ui.Error}
		}
		return ui.ToastMsg{Text: "Opened " + target, Level: ui.Info}
	}
}

func describeMail(d mail.Detail) string {
	header := []string{
		style.Faint("From: ") + d.From,
		style.Faint("To:   ") + strings.Join(d.To, ", "),
	}
	if len(d.Cc) > 0 {
		header = append(header, style.Faint("Cc:   ")+strings.Join(d.Cc, ", "))
	}
	header = append(header, style.Faint("Date: ")+d.Date.Format("Mon 02 Jan 2006 15:04"), "", d.Body)

	if len(d.Attachments) > 0 {
		header = append(header, "")
		for _, a := range d.Attachments {
			header = append(header, fmt.Sprintf("%s %s %s", icon.Get(icon.Attachment), a.Name, style.Faint(humanize.Bytes(uint64(a.Size)))))
		}
	}

	return lines(header...)
}

func describeRegister(r presences.Register) string {
	out := []string{
		fmt.Sprintf("%s %s", style.Faint("Register"), r.State),
		fmt.Sprintf("%s %d / %d", style.Faint("Absent"), len(r.Absentees()), len(r.Students)),
		"",
	}

	for _, s := range r.Students {
		mark := " "
		if s.Absent {
			mark = style.Fg(style.ErrorColor)(icon.Get(icon.Absent))
		}
		out = append(out, fmt.Sprintf("%s %s %s", mark, s.Name, style.Faint(s.Group)))
	}

	return lines(out...)
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}
