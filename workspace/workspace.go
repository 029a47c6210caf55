// Package workspace reads the file workspace: documents, the shared folder tree and the storage quota.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var errQuotaPending = errors.New("quota request already pending")

// Filters accepted by the documents and folders endpoints.
const (
	Owner   = "owner"
	Shared  = "shared"
	Protect = "protected"
	Trash   = "trash"
)

// Document is a file or a folder of the workspace.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Folder      bool     `json:"folder"`
	ParentID    string   `json:"parentId,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Size        int64    `json:"size"`
	Owner       string   `json:"owner"`
	Modified    api.Time `json:"modified"`
}

// HumanSize returns the size for display.
func (d Document) HumanSize() string {
	if d.Folder {
		return "-"
	}
	return humanize.Bytes(uint64(max(d.Size, 0)))
}

// ID returns the identifier used to merge document pages.
func ID(d Document) string { return d.ID }

// Quota is the storage usage of a user.
type Quota struct {
	Used  int64 `json:"storage"`
	Total int64 `json:"quota"`
}

// Ratio returns the used share of the quota, between 0 and 1.
func (q Quota) Ratio() float64 {
	if q.Total <= 0 {
		return 0
	}
	return min(float64(q.Used)/float64(q.Total), 1)
}

func (q Quota) String() string {
	return fmt.Sprintf("%s / %s", humanize.Bytes(uint64(max(q.Used, 0))), humanize.Bytes(uint64(max(q.Total, 0))))
}

type documentReply struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	EType    string   `json:"eType"`
	EParent  string   `json:"eParent"`
	Owner    string   `json:"ownerName"`
	Modified api.Time `json:"modified"`
	Metadata struct {
		Size        int64  `json:"size"`
		ContentType string `json:"content-type"`
	} `json:"metadata"`
}

func (r documentReply) document() Document {
	return Document{
		ID:          r.ID,
		Name:        r.Name,
		Folder:      r.EType == "folder",
		ParentID:    r.EParent,
		ContentType: r.Metadata.ContentType,
		Size:        r.Metadata.Size,
		Owner:       r.Owner,
		Modified:    r.Modified,
	}
}

// Documents lists the entries of parentID, folders first. An empty parentID lists the root.
func Documents(ctx context.Context, c api.Getter, filter, parentID string) ([]Document, error) {
	query := url.Values{"filter": {filter}}
	if parentID != "" {
		query.Set("parentId", parentID)
	}

	var reply []documentReply
	if err := c.Get(ctx, "/workspace/documents", query, &reply); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}

	documents := lo.Map(reply, func(r documentReply, _ int) Document { return r.document() })
	sort.SliceStable(documents, func(i, j int) bool {
		if documents[i].Folder != documents[j].Folder {
			return documents[i].Folder
		}
		return strings.ToLower(documents[i].Name) < strings.ToLower(documents[j].Name)
	})
	return documents, nil
}

// Folders lists every folder visible with filter.
func Folders(ctx context.Context, c api.Getter, filter string) ([]Folder, error) {
	var reply []documentReply
	if err := c.Get(ctx, "/workspace/folders/list", url.Values{"filter": {filter}}, &reply); err != nil {
		return nil, fmt.Errorf("folders: %w", err)
	}

	return lo.Map(reply, func(r documentReply, _ int) Folder {
		return Folder{ID: r.ID, Name: r.Name, ParentID: r.EParent}
	}), nil
}

// FetchQuota reads the storage quota of userID.
func FetchQuota(ctx context.Context, c api.Getter, userID string) (Quota, error) {
	var quota Quota
	if err := c.Get(ctx, "/workspace/quota/user/"+url.PathEscape(userID), nil, &quota); err != nil {
		return Quota{}, fmt.Errorf("quota: %w", err)
	}
	return quota, nil
}

// Overview is the folder tree and quota, read together.
type Overview struct {
	Tree  *Tree
	Quota Quota
}

// Service reads the workspace through the shared folder-tree and quota caches.
type Service struct {
	client  api.Getter
	filter  string
	folders *cacher[string, []Folder]
	quotas  *cacher[string, Quota]
	quota   *loading.Async[Quota]
}

// NewService returns a service caching under dir for ttl.
func NewService(client api.Getter, filter, dir string, ttl time.Duration) *Service {
	return &Service{
		client:  client,
		filter:  filter,
		folders: newCacher[string, []Folder](dir, "folders.json", ttl),
		quotas:  newCacher[string, Quota](dir, "quota.json", ttl),
		quota:   loading.NewAsync[Quota](),
	}
}

// Tree returns the folder tree, from the cache unless refresh is set.
func (s *Service) Tree(ctx context.Context, refresh bool) (*Tree, error) {
	if !refresh {
		if folders, ok := s.folders.Get(s.filter).Get(); ok {
			return NewTree(folders), nil
		}
	}

	folders, err := Folders(ctx, s.client, s.filter)
	if err != nil {
		return nil, err
	}

	if err := s.folders.Set(s.filter, folders); err != nil {
		log.Warnf("workspace: cache folders: %v", err)
	}
	return NewTree(folders), nil
}

// Quota returns the quota of userID, from the cache unless refresh is set.
func (s *Service) Quota(ctx context.Context, userID string, refresh bool) (Quota, error) {
	if refresh {
		s.quota.Invalidate()
	} else if cached, ok := s.quotas.Get(userID).Get(); ok {
		if s.quota.Stale() && s.quota.Request() {
			s.quota.Receive(cached)
		}
		return cached, nil
	}

	data, err := s.quota.Load(ctx, func(ctx context.Context) (Quota, error) {
		return FetchQuota(ctx, s.client, userID)
	})
	if err != nil {
		return data.OrEmpty(), err
	}

	quota, ok := data.Get()
	if !ok {
		return Quota{}, errQuotaPending
	}
	if err := s.quotas.Set(userID, quota); err != nil {
		log.Warnf("workspace: cache quota: %v", err)
	}
	return quota, nil
}

// QuotaState exposes the quota state for rendering.
func (s *Service) QuotaState() loading.AsyncSnapshot[Quota] {
	return s.quota.Snapshot()
}

// Overview reads the folder tree and the quota of userID concurrently.
func (s *Service) Overview(ctx context.Context, userID string, refresh bool) (Overview, error) {
	var overview Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, err := s.Tree(ctx, refresh)
		overview.Tree = tree
		return err
	})
	g.Go(func() error {
		quota, err := s.Quota(ctx, userID, refresh)
		overview.Quota = quota
		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return overview, nil
}

// Fetcher lists the entries of parentID on page zero. The documents endpoint is not paged.
func (s *Service) Fetcher(parentID string) loading.Fetcher[Document] {
	return loading.Unpaged(func(ctx context.Context) ([]Document, error) {
		return Documents(ctx, s.client, s.filter, parentID)
	})
}
