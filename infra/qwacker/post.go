package qwacker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
)

const (
	defaultPageLimit = 5
	userFetchLimit   = 4
)

// postService implements app.PostService using the qwacker API.
type postService struct {
	client *Client
	users  app.UserService
}

// NewPostService creates a PostService backed by qwacker. users resolves
// creator display data for post details.
func NewPostService(client *Client, users app.UserService) *postService {
	return &postService{client: client, users: users}
}

func (s *postService) PostDetail(ctx context.Context, token, id string) (domain.PostDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.PostDetail{}, fmt.Errorf("invalid post id")
	}
	escaped := url.PathEscape(id)

	var (
		post    domain.Post
		replies []domain.Reply
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.client.Get(gctx, "/posts/"+escaped, token)
		if err != nil {
			return fmt.Errorf("fetching post: %w", err)
		}
		post, err = parsePost(data)
		return err
	})
	g.Go(func() error {
		data, err := s.client.Get(gctx, "/posts/"+escaped+"/replies", token)
		if err != nil {
			return fmt.Errorf("fetching replies: %w", err)
		}
		replies, err = parseReplies(data)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PostDetail{}, err
	}

	creators := make([]string, 0, len(replies)+1)
	creators = append(creators, post.Creator)
	for _, r := range replies {
		creators = append(creators, r.Creator)
	}
	users, err := s.resolveUsers(ctx, token, creators)
	if err != nil {
		return domain.PostDetail{}, err
	}

	post.Mumble = post.Mumble.WithCreator(users[post.Creator])
	for i := range replies {
		replies[i].Mumble = replies[i].Mumble.WithCreator(users[replies[i].Creator])
	}
	return domain.PostDetail{Post: post, Replies: replies}, nil
}

// resolveUsers fetches each distinct creator once, a few at a time. A
// creator that no longer exists resolves to the zero MumbleUser.
func (s *postService) resolveUsers(ctx context.Context, token string, ids []string) (map[string]domain.MumbleUser, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found := make([]domain.MumbleUser, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userFetchLimit)
	for i, id := range unique {
		g.Go(func() error {
			u, err := s.users.UserByID(gctx, token, id)
			if errors.Is(err, domain.ErrNotFound) {
				// Deleted accounts still leave their mumbles behind.
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving creators: %w", err)
	}

	out := make(map[string]domain.MumbleUser, len(unique))
	for i, id := range unique {
		out[id] = found[i]
	}
	return out, nil
}

func (s *postService) Posts(ctx context.Context, token string, q app.PostsQuery) (app.PostsPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(max(q.Offset, 0)))
	params.Set("newerThan", q.NewerThan)
	params.Set("olderThan", q.OlderThan)
	if q.Creator != "" {
		params.Set("creator", q.Creator)
	}

	data, err := s.client.Get(ctx, "/posts?"+params.Encode(), token)
	if err != nil {
		return app.PostsPage{}, fmt.Errorf("fetching posts: %w", err)
	}

	var page qwackerPage
	if err := json.Unmarshal(data, &page); err != nil {
		return app.PostsPage{}, fmt.Errorf("parsing posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(page.Data))
	for _, m := range page.Data {
		p, err := m.toPost()
		if err != nil {
			return app.PostsPage{}, err
		}
		posts = append(posts, p)
	}
	return app.PostsPage{Count: page.Count, Posts: posts}, nil
}

func (s *postService) CreatePost(ctx context.Context, text string, image *app.Upload, token string) (domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Post{}, domain.ErrEmptyPost
	}

	body, contentType, err := mumbleForm(text, image)
	if err != nil {
		return domain.Post{}, fmt.Errorf("building post form: %w", err)
	}

	data, err := s.client.Post(ctx, "/posts", token, body, contentType)
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}
	return parsePost(data)
}
