package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
)

// quotaMsg is sent once the storage quota read has ended.
type quotaMsg struct{}

func showsQuota(e section.Entry) bool {
	_, ok := e.(*section.Section[workspace.Document])
	return ok
}

// loadQuota reads the storage quota shown under the workspace list.
func (b *statefulBubble) loadQuota(e section.Entry) tea.Cmd {
	if !showsQuota(e) || b.env.Workspace == nil {
		return nil
	}

	ctx, env := b.ctx, b.env
	return func() tea.Msg {
		session, err := env.Users.Session(ctx)
		if err == nil {
			_, err = env.Workspace.Quota(ctx, session.ID, false)
		}
		if err != nil {
			log.Warnf("workspace: quota: %v", err)
		}
		return quotaMsg{}
	}
}

// quotaText describes the storage quota, empty until it has been read.
func (b *statefulBubble) quotaText(scr screen) string {
	if !showsQuota(scr.entry()) || b.env.Workspace == nil {
		return ""
	}

	quota, ok := b.env.Workspace.QuotaState().Data.Get()
	if !ok {
		return ""
	}
	return "storage " + quota.String()
}
