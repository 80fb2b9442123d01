package view

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"forumfront/internal/controller"
	"forumfront/internal/model"
	"forumfront/internal/service"
)

const excerptRunes = 200

// Base carries what every page's layout needs.
type Base struct {
	Title     string
	Viewer    *model.Session
	Notices   []model.Notice
	SignInURL string
	// Path is the request URI, posted back as return_to by reaction forms.
	Path string
}

func (b Base) SignedIn() bool {
	return b.Viewer != nil
}

// PostCard is a post as listed on the home page and shown on the detail page.
type PostCard struct {
	ID             uuid.UUID
	Title          string
	Excerpt        string
	Content        string
	AuthorUsername string
	CreatedAt      time.Time
	Category       *model.CategoryBadge
	Categories     []model.CategoryBadge
	Likes          int
	Dislikes       int
	Comments       int
	CanReact       bool
	// MyPolarity is "like", "dislike" or empty.
	MyPolarity string
}

func NewPostCard(p model.Post, viewer *model.Session) PostCard {
	t := p.Tally()
	card := PostCard{
		ID:             p.ID,
		Title:          p.Title,
		Excerpt:        excerpt(p.Content),
		Content:        p.Content,
		AuthorUsername: p.AuthorUsername,
		CreatedAt:      p.CreatedAt,
		Category:       p.Category,
		Categories:     p.Categories,
		Likes:          t.Likes,
		Dislikes:       t.Dislikes,
		Comments:       p.CommentCount(),
		CanReact:       viewer != nil,
	}
	if viewer != nil {
		card.MyPolarity = polarityOf(p.Reactions, viewer.UserID)
	}
	return card
}

type CommentCard struct {
	ID             uuid.UUID
	PostID         uuid.UUID
	Content        string
	AuthorUsername string
	CreatedAt      time.Time
	Likes          int
	Dislikes       int
	CanReact       bool
	MyPolarity     string
}

func NewCommentCard(c model.Comment, viewer *model.Session) CommentCard {
	t := c.Tally()
	card := CommentCard{
		ID:             c.ID,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorUsername: c.AuthorUsername,
		CreatedAt:      c.CreatedAt,
		Likes:          t.Likes,
		Dislikes:       t.Dislikes,
		CanReact:       viewer != nil,
	}
	if viewer != nil {
		card.MyPolarity = polarityOf(c.Reactions, viewer.UserID)
	}
	return card
}

func polarityOf(reactions []model.Reaction, userID uuid.UUID) string {
	mine, _ := model.FindMine(reactions, userID)
	if mine == nil {
		return ""
	}
	return model.PolarityOf(mine.IsLike).String()
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptRunes {
		return s
	}
	return string(r[:excerptRunes]) + "..."
}

// CategoryLink is a sidebar entry for the category filter.
type CategoryLink struct {
	ID     *uuid.UUID
	Href   string
	Name   string
	Color  string
	Active bool
}

// ActivityLink is a sidebar entry for the activity filter.
type ActivityLink struct {
	Value  service.Activity
	Href   string
	Label  string
	Active bool
}

// HomeHref is the home URL for a category id (empty for all) and activity.
func HomeHref(categoryID string, activity service.Activity) string {
	q := url.Values{}
	if categoryID != "" {
		q.Set("category", categoryID)
	}
	if activity != "" && activity != service.ActivityAll {
		q.Set("filter", string(activity))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

type HomePage struct {
	Base
	Failed     bool
	Categories []CategoryLink
	Activities []ActivityLink
	Posts      []PostCard
	// CategoryID and Activity echo the current filter so links can keep it.
	CategoryID string
	Activity   service.Activity
}

func NewHomePage(base Base, c *controller.Home) HomePage {
	f := c.Filter()
	if f.Activity == "" {
		f.Activity = service.ActivityAll
	}
	page := HomePage{
		Base:     base,
		Failed:   c.State() == controller.StateError,
		Activity: f.Activity,
	}
	if f.CategoryID != nil {
		page.CategoryID = f.CategoryID.String()
	}

	page.Categories = append(page.Categories, CategoryLink{
		Href:   HomeHref("", f.Activity),
		Name:   "All categories",
		Active: f.CategoryID == nil,
	})
	for _, cat := range c.Categories() {
		id := cat.ID
		page.Categories = append(page.Categories, CategoryLink{
			ID:     &id,
			Href:   HomeHref(id.String(), f.Activity),
			Name:   cat.Name,
			Color:  cat.Color,
			Active: f.CategoryID != nil && *f.CategoryID == cat.ID,
		})
	}

	if base.SignedIn() {
		for _, a := range []struct {
			v     service.Activity
			label string
		}{
			{service.ActivityAll, "All posts"},
			{service.ActivityMine, "My posts"},
			{service.ActivityLiked, "Liked posts"},
		} {
			page.Activities = append(page.Activities, ActivityLink{
				Value:  a.v,
				Href:   HomeHref(page.CategoryID, a.v),
				Label:  a.label,
				Active: f.Activity == a.v,
			})
		}
	}

	for _, p := range c.Posts() {
		page.Posts = append(page.Posts, NewPostCard(p, base.Viewer))
	}
	return page
}

type PostPage struct {
	Base
	Post     PostCard
	Comments []CommentCard
	Draft    string
}

func NewPostPage(base Base, c *controller.PostDetail) PostPage {
	page := PostPage{Base: base, Draft: c.Draft()}
	if p := c.Post(); p != nil {
		page.Post = NewPostCard(*p, base.Viewer)
		page.Title = p.Title
	}
	for _, cm := range c.Comments() {
		page.Comments = append(page.Comments, NewCommentCard(cm, base.Viewer))
	}
	return page
}

type CreatePostPage struct {
	Base
	Categories []model.Category
	Form       controller.PostForm
	// SelectedCategory is the form's category id, or empty.
	SelectedCategory string
}

func NewCreatePostPage(base Base, c *controller.CreatePost) CreatePostPage {
	form := c.Form()
	page := CreatePostPage{Base: base, Categories: c.Categories(), Form: form}
	if form.CategoryID != nil {
		page.SelectedCategory = form.CategoryID.String()
	}
	return page
}

type ProfilePage struct {
	Base
	Email    string
	Form     controller.ProfileForm
	JoinedAt time.Time
}

func NewProfilePage(base Base, c *controller.Profile) ProfilePage {
	page := ProfilePage{Base: base, Form: c.Form()}
	if base.Viewer != nil {
		page.Email = base.Viewer.Email
	}
	if p := c.Profile(); p != nil {
		page.JoinedAt = p.CreatedAt
	}
	return page
}

type ErrorPage struct {
	Base
	Status  int
	Message string
}
