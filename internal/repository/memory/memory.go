// Package memory is an in-process implementation of the repository
// interfaces, for tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"forumfront/internal/model"
	"forumfront/internal/repository"
)

// Store holds every table. Timestamps come from a clock that advances one
// second per insert so ordering is deterministic.
type Store struct {
	mu sync.Mutex

	profiles       map[uuid.UUID]model.Profile
	categories     []model.Category
	posts          []model.Post
	postCategories map[uuid.UUID][]uuid.UUID
	comments       []model.Comment
	reactions      map[model.SubjectKind][]model.Reaction

	clock time.Time

	// FailReads makes every read return this error when set.
	FailReads error
	// FailWrites makes every write return this error when set.
	FailWrites error

	calls map[string]int
}

func New() *Store {
	return &Store{
		profiles:       make(map[uuid.UUID]model.Profile),
		postCategories: make(map[uuid.UUID][]uuid.UUID),
		reactions:      make(map[model.SubjectKind][]model.Reaction),
		clock:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		calls:          make(map[string]int),
	}
}

// Calls returns how many times the named operation ran, e.g. "posts.List".
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) record(op string) {
	s.calls[op]++
}

// AddProfile seeds a profile.
func (s *Store) AddProfile(username string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.profiles[id] = model.Profile{ID: id, Username: username, CreatedAt: s.tick()}
	return id
}

// AddCategory seeds a category.
func (s *Store) AddCategory(name, color string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.categories = append(s.categories, model.Category{ID: id, Name: name, Color: color})
	sort.Slice(s.categories, func(i, j int) bool { return s.categories[i].Name < s.categories[j].Name })
	return id
}

// LinkCategory adds a post_categories row.
func (s *Store) LinkCategory(postID, categoryID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postCategories[postID] = append(s.postCategories[postID], categoryID)
}

// AddPost seeds a post without validation.
func (s *Store) AddPost(authorID uuid.UUID, title, content string, categoryID *uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPost(authorID, title, content, categoryID)
}

func (s *Store) insertPost(authorID uuid.UUID, title, content string, categoryID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.posts = append(s.posts, model.Post{
		ID:         id,
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		CategoryID: categoryID,
		CreatedAt:  s.tick(),
	})
	return id
}

// AddReaction seeds a reaction row.
func (s *Store) AddReaction(kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.reactions[kind] = append(s.reactions[kind], model.Reaction{ID: id, SubjectID: subjectID, UserID: userID, IsLike: p.IsLike()})
	return id
}

func (s *Store) category(id uuid.UUID) (model.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// expandPost fills the relations the sql repository joins in.
func (s *Store) expandPost(p model.Post) (model.Post, error) {
	author, ok := s.profiles[p.AuthorID]
	if !ok {
		return model.Post{}, model.ErrMalformedRecord
	}
	p.AuthorUsername = author.Username
	if p.CategoryID != nil {
		c, ok := s.category(*p.CategoryID)
		if !ok {
			return model.Post{}, model.ErrMalformedRecord
		}
		p.Category = &model.CategoryBadge{Name: c.Name, Color: c.Color}
	}
	p.Reactions = s.reactionsOn(model.SubjectPost, p.ID)
	p.CommentIDs = nil
	for _, c := range s.comments {
		if c.PostID == p.ID {
			p.CommentIDs = append(p.CommentIDs, c.ID)
		}
	}
	return p, nil
}

func (s *Store) reactionsOn(kind model.SubjectKind, subjectID uuid.UUID) []model.Reaction {
	var out []model.Reaction
	for _, r := range s.reactions[kind] {
		if r.SubjectID == subjectID {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the category repository view of the store.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

// Posts returns the post repository view of the store.
func (s *Store) Posts() repository.PostRepository { return postRepo{s} }

// Comments returns the comment repository view of the store.
func (s *Store) Comments() repository.CommentRepository { return commentRepo{s} }

// Reactions returns the reaction repository view of the store.
func (s *Store) Reactions() repository.ReactionRepository { return reactionRepo{s} }

// Profiles returns the profile repository view of the store.
func (s *Store) Profiles() repository.ProfileRepository { return profileRepo{s} }

type categoryRepo struct{ s *Store }

func (r categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("categories.List")
	if r.s.FailReads != nil {
		return nil, r.s.FailReads
	}
	return append([]model.Category(nil), r.s.categories...), nil
}

type postRepo struct{ s *Store }

func (r postRepo) List(ctx context.Context, q repository.PostListQuery) ([]model.Post, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("posts.List")
	if s.FailReads != nil {
		return nil, s.FailReads
	}

	var restrict map[uuid.UUID]bool
	if q.IDs != nil {
		restrict = make(map[uuid.UUID]bool, len(q.IDs))
		for _, id := range q.IDs {
			restrict[id] = true
		}
	}

	out := []model.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if q.AuthorID != nil && p.AuthorID != *q.AuthorID {
			continue
		}
		if restrict != nil && !restrict[p.ID] {
			continue
		}
		expanded, err := s.expandPost(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

func (r postRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("posts.GetByID")
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	for _, p := range s.posts {
		if p.ID != id {
			continue
		}
		expanded, err := s.expandPost(p)
		if err != nil {
			return nil, err
		}
		if expanded.Category != nil {
			expanded.Categories = append(expanded.Categories, *expanded.Category)
		}
		for _, cid := range s.postCategories[id] {
			if c, ok := s.category(cid); ok && (expanded.Category == nil || c.Name != expanded.Category.Name) {
				expanded.Categories = append(expanded.Categories, model.CategoryBadge{Name: c.Name, Color: c.Color})
			}
		}
		return &expanded, nil
	}
	return nil, model.ErrPostNotFound
}

func (r postRepo) Create(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.Post, error) {
	s := r.s
	s.mu.Lock()
	s.record("posts.Create")
	if s.FailWrites != nil {
		s.mu.Unlock()
		return nil, s.FailWrites
	}
	categoryID := req.CategoryID
	id := s.insertPost(authorID, req.Title, req.Content, &categoryID)
	s.mu.Unlock()
	return r.GetByID(ctx, id)
}

type commentRepo struct{ s *Store }

func (r commentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("comments.ListByPost")
	if s.FailReads != nil {
		return nil, s.FailReads
	}

	out := []model.Comment{}
	for i := len(s.comments) - 1; i >= 0; i-- {
		c := s.comments[i]
		if c.PostID != postID {
			continue
		}
		author, ok := s.profiles[c.AuthorID]
		if !ok {
			return nil, model.ErrMalformedRecord
		}
		c.AuthorUsername = author.Username
		c.Reactions = s.reactionsOn(model.SubjectComment, c.ID)
		out = append(out, c)
	}
	return out, nil
}

func (r commentRepo) Create(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("comments.Create")
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}

	found := false
	for _, p := range s.posts {
		if p.ID == postID {
			found = true
			break
		}
	}
	if !found {
		return nil, model.ErrPostNotFound
	}

	c := model.Comment{ID: uuid.New(), PostID: postID, AuthorID: authorID, Content: content, CreatedAt: s.tick()}
	s.comments = append(s.comments, c)
	if author, ok := s.profiles[authorID]; ok {
		c.AuthorUsername = author.Username
	}
	return &c, nil
}

type reactionRepo struct{ s *Store }

func (r reactionRepo) ListBySubject(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("reactions.ListBySubject")
	if r.s.FailReads != nil {
		return nil, r.s.FailReads
	}
	return r.s.reactionsOn(kind, subjectID), nil
}

func (r reactionRepo) LikedSubjectIDs(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("reactions.LikedSubjectIDs")
	if r.s.FailReads != nil {
		return nil, r.s.FailReads
	}
	var out []uuid.UUID
	for _, rr := range r.s.reactions[kind] {
		if rr.UserID == userID && rr.IsLike {
			out = append(out, rr.SubjectID)
		}
	}
	return out, nil
}

func (r reactionRepo) Insert(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("reactions.Insert")
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	for _, rr := range s.reactions[kind] {
		if rr.SubjectID == subjectID && rr.UserID == userID {
			return nil, model.ErrDuplicateReaction
		}
	}
	rr := model.Reaction{ID: uuid.New(), SubjectID: subjectID, UserID: userID, IsLike: p.IsLike()}
	s.reactions[kind] = append(s.reactions[kind], rr)
	return &rr, nil
}

func (r reactionRepo) UpdatePolarity(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("reactions.UpdatePolarity")
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i, rr := range s.reactions[kind] {
		if rr.ID == id && rr.UserID == userID {
			s.reactions[kind][i].IsLike = p.IsLike()
			return nil
		}
	}
	return model.ErrReactionNotFound
}

func (r reactionRepo) Delete(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("reactions.Delete")
	if s.FailWrites != nil {
		return s.FailWrites
	}
	list := s.reactions[kind]
	for i, rr := range list {
		if rr.ID == id && rr.UserID == userID {
			s.reactions[kind] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return model.ErrReactionNotFound
}

type profileRepo struct{ s *Store }

func (r profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("profiles.GetByID")
	if r.s.FailReads != nil {
		return nil, r.s.FailReads
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &p, nil
}

func (r profileRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("profiles.Update")
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	for otherID, other := range s.profiles {
		if otherID != id && other.Username == req.Username {
			return nil, model.ErrUsernameExists
		}
	}
	p.Username = req.Username
	p.Bio = nil
	if req.Bio != "" {
		bio := req.Bio
		p.Bio = &bio
	}
	s.profiles[id] = p
	return &p, nil
}
