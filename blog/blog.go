// Package blog reads blogs and their published posts.
package blog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
)

// ErrNoBlog is returned when the user has access to no blog.
var ErrNoBlog = errors.New("no blog available")

// Blog is a blog the user can read.
type Blog struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Modified api.Time `json:"modified"`
}

// Post is a published blog post.
type Post struct {
	ID        string   `json:"id"`
	BlogID    string   `json:"blogId"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Published api.Time `json:"published"`
	Modified  api.Time `json:"modified"`
}

// ID returns the identifier used to merge post pages.
func ID(p Post) string { return p.ID }

type author struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type blogReply struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Author   author   `json:"author"`
	Modified api.Time `json:"modified"`
}

type postReply struct {
	ID               string   `json:"_id"`
	Title            string   `json:"title"`
	Author           author   `json:"author"`
	Content          string   `json:"content"`
	FirstPublishDate api.Time `json:"firstPublishDate"`
	Modified         api.Time `json:"modified"`
}

// Blogs lists every blog visible to the user.
func Blogs(ctx context.Context, c api.Getter) ([]Blog, error) {
	var reply []blogReply
	if err := c.Get(ctx, "/blog/list/all", nil, &reply); err != nil {
		return nil, fmt.Errorf("blogs: %w", err)
	}

	return lo.Map(reply, func(b blogReply, _ int) Blog {
		return Blog{ID: b.ID, Title: b.Title, Author: b.Author.Username, Modified: b.Modified}
	}), nil
}

// Posts reads one page of the published posts of blogID.
func Posts(ctx context.Context, c api.Getter, blogID string, page int) ([]Post, error) {
	query := url.Values{
		"page":   {strconv.Itoa(page)},
		"states": {"PUBLISHED"},
	}

	var reply []postReply
	if err := c.Get(ctx, "/blog/post/list/all/"+blogID, query, &reply); err != nil {
		return nil, fmt.Errorf("blog %s page %d: %w", blogID, page, err)
	}

	return lo.Map(reply, func(p postReply, _ int) Post {
		published := p.FirstPublishDate
		if published.IsZero() {
			published = p.Modified
		}
		return Post{
			ID:        p.ID,
			BlogID:    blogID,
			Title:     p.Title,
			Author:    p.Author.Username,
			Content:   api.Text(p.Content),
			Published: published,
			Modified:  p.Modified,
		}
	}), nil
}

// Fetcher pages through the posts of blogID. An empty blogID selects the most recently modified blog
// on the first request.
func Fetcher(c api.Getter, blogID string) loading.Fetcher[Post] {
	return func(ctx context.Context, page int) ([]Post, error) {
		if blogID == "" {
			blogs, err := Blogs(ctx, c)
			if err != nil {
				return nil, err
			}
			if len(blogs) == 0 {
				return nil, ErrNoBlog
			}
			blogID = lo.MaxBy(blogs, func(a, b Blog) bool {
				return a.Modified.After(b.Modified.Time)
			}).ID
		}

		return Posts(ctx, c, blogID, page)
	}
}
