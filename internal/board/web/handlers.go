package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/internal/board/auth"
	"github.com/goliatone/go-formguard/internal/board/store"
	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/render"
	"github.com/goliatone/go-formguard/pkg/submission"
)

const postsPerPage = 10

// pageContext seeds every template with the signed-in user.
func (s *Server) pageContext(r *http.Request) pongo2.Context {
	ctx := pongo2.Context{}
	if user, ok := auth.CurrentUser(r.Context()); ok {
		ctx["current_user"] = user
	}
	return ctx
}

// renderFormPage renders a generated form inside the form page shell.
func (s *Server) renderFormPage(w http.ResponseWriter, r *http.Request, status int, title string, form model.FormModel, opts render.Options) {
	opts.Translator = s.translator
	opts.Locale = s.locale
	markup, err := render.HTML(form, opts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	ctx := s.pageContext(r)
	ctx["title"] = title
	ctx["form_html"] = string(markup)
	if err := s.templates.render(w, status, "form_page.html", ctx); err != nil {
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("handler failed",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) message(key string, params ...any) string {
	if msg, err := s.translator.Translate(s.locale, key, params...); err == nil {
		return msg
	}
	return key
}

func formValues(form url.Values) map[string]string {
	values := make(map[string]string, len(form))
	for name := range form {
		values[name] = form.Get(name)
	}
	// Never echo credentials back into the page.
	delete(values, "password")
	delete(values, "password_confirm")
	return values
}

// ---------------------------------------------------------------------------
// Accounts

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderFormPage(w, r, http.StatusOK, "회원가입", s.forms.Register, render.Options{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result := submission.Validate(s.forms.Register, r.PostForm,
		submission.WithTranslator(s.translator), submission.WithLocale(s.locale))
	fieldErrors := result.FieldErrors
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	password := r.PostForm.Get("password")
	confirm := r.PostForm.Get("password_confirm")
	if result.Valid && password != confirm {
		fieldErrors["password_confirm"] = append(fieldErrors["password_confirm"],
			s.message("auth.error.password_mismatch"))
	}

	if len(fieldErrors) > 0 {
		banner := result.Message
		if banner == "" {
			banner = s.message("auth.error.password_mismatch")
		}
		s.renderFormPage(w, r, http.StatusUnprocessableEntity, "회원가입", s.forms.Register, render.Options{
			Values:    formValues(r.PostForm),
			Errors:    fieldErrors,
			FormError: banner,
		})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	user, err := s.store.CreateUser(r.Context(), strings.TrimSpace(r.PostForm.Get("username")), hash, false)
	if errors.Is(err, store.ErrUsernameTaken) {
		s.renderFormPage(w, r, http.StatusUnprocessableEntity, "회원가입", s.forms.Register, render.Options{
			Values:    formValues(r.PostForm),
			Errors:    map[string][]string{"username": {s.message("auth.error.username_taken")}},
			FormError: s.message("auth.error.username_taken"),
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.signIn(w, user.Username)
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderFormPage(w, r, http.StatusOK, "로그인", s.forms.Login, render.Options{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result := submission.Validate(s.forms.Login, r.PostForm,
		submission.WithTranslator(s.translator), submission.WithLocale(s.locale))
	if !result.Valid {
		s.renderFormPage(w, r, http.StatusUnprocessableEntity, "로그인", s.forms.Login, render.Options{
			Values:    formValues(r.PostForm),
			Errors:    result.FieldErrors,
			FormError: result.Message,
		})
		return
	}

	user, err := s.store.UserByUsername(r.Context(), strings.TrimSpace(r.PostForm.Get("username")))
	if err == nil {
		err = auth.VerifyPassword(user.Password, r.PostForm.Get("password"))
	}
	if err != nil {
		// Same answer for unknown user and wrong password.
		s.renderFormPage(w, r, http.StatusUnauthorized, "로그인", s.forms.Login, render.Options{
			Values:    formValues(r.PostForm),
			FormError: s.message("auth.error.credentials"),
		})
		return
	}

	s.signIn(w, user.Username)
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

func (s *Server) signIn(w http.ResponseWriter, username string) {
	token, err := s.sessions.Issue(username)
	if err != nil {
		s.logger.Error("issue session", zap.Error(err))
		return
	}
	s.sessions.SetCookie(w, token)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/posts"
	}
	return next
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// ---------------------------------------------------------------------------
// Posts

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	list := s.store.Posts
	if user, ok := auth.CurrentUser(r.Context()); ok && user.IsAdmin {
		// Administrators see soft-deleted posts in the listing.
		list = s.store.AllPosts
	}
	listing, err := list(r.Context(), (page-1)*postsPerPage, postsPerPage)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	ctx := s.pageContext(r)
	ctx["posts"] = listing.Posts
	ctx["page"] = page
	ctx["prev_page"] = page - 1
	ctx["next_page"] = page + 1
	ctx["has_next"] = listing.HasNext
	if err := s.templates.render(w, http.StatusOK, "post_list.html", ctx); err != nil {
		s.serverError(w, r, err)
	}
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}

	ctx := s.pageContext(r)
	ctx["post"] = post
	ctx["content"] = s.renderContent(post.Content)
	if user, ok := auth.CurrentUser(r.Context()); ok {
		ctx["can_edit"] = user.ID == post.AuthorID || user.IsAdmin
	}
	if err := s.templates.render(w, http.StatusOK, "post_detail.html", ctx); err != nil {
		s.serverError(w, r, err)
	}
}

// renderContent sanitizes stored markup and keeps plain-text line breaks.
func (s *Server) renderContent(content string) string {
	clean := s.sanitizer.Sanitize(content)
	return strings.ReplaceAll(clean, "\n", "<br>")
}

func (s *Server) handleNewPostPage(w http.ResponseWriter, r *http.Request) {
	s.renderFormPage(w, r, http.StatusOK, "글쓰기", s.forms.NewPost, render.Options{})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result := submission.Validate(s.forms.NewPost, r.PostForm,
		submission.WithTranslator(s.translator), submission.WithLocale(s.locale))
	if !result.Valid {
		s.renderFormPage(w, r, http.StatusUnprocessableEntity, "글쓰기", s.forms.NewPost, render.Options{
			Values:    formValues(r.PostForm),
			Errors:    result.FieldErrors,
			FormError: result.Message,
		})
		return
	}

	user, _ := auth.CurrentUser(r.Context())
	post, err := s.store.CreatePost(r.Context(), user.ID,
		strings.TrimSpace(r.PostForm.Get("title")), r.PostForm.Get("content"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/posts/"+strconv.FormatInt(post.ID, 10), http.StatusSeeOther)
}

func (s *Server) handleEditPostPage(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	if !s.canEdit(r, post) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	form := s.forms.EditPost
	form.Endpoint = "/posts/" + strconv.FormatInt(post.ID, 10) + "/edit"
	s.renderFormPage(w, r, http.StatusOK, "글 수정", form, render.Options{
		Values: map[string]string{"title": post.Title, "content": post.Content},
	})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	if !s.canEdit(r, post) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := s.forms.EditPost
	form.Endpoint = "/posts/" + strconv.FormatInt(post.ID, 10) + "/edit"

	result := submission.Validate(form, r.PostForm,
		submission.WithTranslator(s.translator), submission.WithLocale(s.locale))
	if !result.Valid {
		s.renderFormPage(w, r, http.StatusUnprocessableEntity, "글 수정", form, render.Options{
			Values:    formValues(r.PostForm),
			Errors:    result.FieldErrors,
			FormError: result.Message,
		})
		return
	}

	if _, err := s.store.UpdatePost(r.Context(), post.ID,
		strings.TrimSpace(r.PostForm.Get("title")), r.PostForm.Get("content")); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/posts/"+strconv.FormatInt(post.ID, 10), http.StatusSeeOther)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	if !s.canEdit(r, post) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, _ := auth.CurrentUser(r.Context())
	var err error
	if user.IsAdmin && r.PostForm.Get("purge") == "1" {
		err = s.store.HardDeletePost(r.Context(), post.ID)
	} else {
		err = s.store.SoftDeletePost(r.Context(), post.ID)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	listing, err := s.store.PostsByAuthor(r.Context(), user.ID, 0, 50)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	ctx := s.pageContext(r)
	ctx["user"] = user
	ctx["posts"] = listing.Posts
	if err := s.templates.render(w, http.StatusOK, "profile.html", ctx); err != nil {
		s.serverError(w, r, err)
	}
}

// loadPost resolves the {id} route parameter to a post, answering 404 for
// unknown ids. Soft-deleted posts 404 too, except for administrators, who
// can still open them.
func (s *Server) loadPost(w http.ResponseWriter, r *http.Request) (*store.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	lookup := s.store.PostByID
	if user, ok := auth.CurrentUser(r.Context()); ok && user.IsAdmin {
		lookup = s.store.AnyPostByID
	}
	post, err := lookup(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return post, true
}

func (s *Server) canEdit(r *http.Request, post *store.Post) bool {
	user, ok := auth.CurrentUser(r.Context())
	return ok && (user.ID == post.AuthorID || user.IsAdmin)
}
