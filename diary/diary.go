// Package diary reads homework diaries and flattens their days into tasks.
package diary

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Diary is a homework diary shared with a class.
type Diary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Owner     string   `json:"owner"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Modified  api.Time `json:"modified"`
}

// Task is one homework entry of a diary day.
type Task struct {
	ID         string   `json:"id"`
	DiaryID    string   `json:"diaryId"`
	DiaryTitle string   `json:"diaryTitle"`
	Date       api.Time `json:"date"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
}

// ID returns the identifier used to merge task pages.
func ID(t Task) string { return t.ID }

type owner struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type diaryReply struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Owner     owner    `json:"owner"`
	Thumbnail string   `json:"thumbnail"`
	Modified  api.Time `json:"modified"`
}

type detailReply struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Data  struct {
		Days []struct {
			Date    api.Time `json:"date"`
			Entries []struct {
				Title string `json:"title"`
				Value string `json:"value"`
			} `json:"entries"`
		} `json:"days"`
	} `json:"data"`
}

// Diaries lists the diaries visible to the user.
func Diaries(ctx context.Context, c api.Getter) ([]Diary, error) {
	var reply []diaryReply
	if err := c.Get(ctx, "/homeworks/list", nil, &reply); err != nil {
		return nil, fmt.Errorf("diaries: %w", err)
	}

	return lo.Map(reply, func(d diaryReply, _ int) Diary {
		return Diary{
			ID:        d.ID,
			Title:     d.Title,
			Owner:     d.Owner.DisplayName,
			Thumbnail: d.Thumbnail,
			Modified:  d.Modified,
		}
	}), nil
}

// Tasks lists the tasks of a diary, latest day first.
func Tasks(ctx context.Context, c api.Getter, diaryID string) ([]Task, error) {
	var reply detailReply
	if err := c.Get(ctx, "/homeworks/get/"+diaryID, nil, &reply); err != nil {
		return nil, fmt.Errorf("diary %s: %w", diaryID, err)
	}

	var tasks []Task
	for _, day := range reply.Data.Days {
		for i, entry := range day.Entries {
			tasks = append(tasks, Task{
				ID:         reply.ID + "/" + strconv.FormatInt(day.Date.UnixMilli(), 10) + "/" + strconv.Itoa(i),
				DiaryID:    reply.ID,
				DiaryTitle: reply.Title,
				Date:       day.Date,
				Title:      entry.Title,
				Content:    api.Text(entry.Value),
			})
		}
	}

	sortTasks(tasks)
	return tasks, nil
}

// AllTasks gathers the tasks of every diary, reading the diaries concurrently.
func AllTasks(ctx context.Context, c api.Getter) ([]Task, error) {
	diaries, err := Diaries(ctx, c)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		tasks []Task
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, d := range diaries {
		d := d
		g.Go(func() error {
			found, err := Tasks(ctx, c, d.ID)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			tasks = append(tasks, found...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortTasks(tasks)
	return tasks, nil
}

// Fetcher lists every task on page zero. The diary endpoints are not paged.
func Fetcher(c api.Getter) loading.Fetcher[Task] {
	return loading.Unpaged(func(ctx context.Context) ([]Task, error) {
		return AllTasks(ctx, c)
	})
}

func sortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].Date.Equal(tasks[j].Date.Time) {
			return tasks[i].Date.After(tasks[j].Date.Time)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
