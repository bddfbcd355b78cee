package main

import (
	"errors"
	"net/http"

	"github.com/oluseyi-dev/chapterpress/internal/blogservice"
	"github.com/oluseyi-dev/chapterpress/internal/common"
	"github.com/oluseyi-dev/chapterpress/internal/userservice"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Password  string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.userService.Register(r.Context(), input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, user, err := app.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": token, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		Body        string   `json:"body"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.CreateDraft(r.Context(), &blogservice.CreateBlogRequest{
		Title:       input.Title,
		Description: input.Description,
		Tags:        input.Tags,
		Body:        input.Body,
		AuthorID:    user.ID,
		AuthorName:  user.Name(),
	})
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.failedValidationResponse(w, r, map[string]string{"title": "a blog with this title already exists"})
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.invalidTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, err := app.readInt(qs, "page", 1)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	limit, err := app.readInt(qs, "limit", 20)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	filters := blogservice.ListFilters{
		Author: app.readString(qs, "author", ""),
		Title:  app.readString(qs, "title", ""),
		Tags:   app.readCSV(qs, "tags", nil),
	}
	sortBy := app.readString(qs, "sortBy", "createdAt")

	blogs, err := app.blogService.ListPublished(r.Context(), filters, page, limit, sortBy)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	blog, err := app.blogService.GetPublished(r.Context(), int(id))
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		Body        string   `json:"body"`
	}

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.UpdateBlog(r.Context(), user.ID, int(id), &blogservice.UpdateBlogRequest{
		Title:       input.Title,
		Description: input.Description,
		Tags:        input.Tags,
		Body:        input.Body,
	})
	if err != nil {
		var validationError common.ValidationError
		switch {
		// A caller probing someone else's blog learns nothing: not owning a
		// blog looks the same as the blog not existing.
		case errors.Is(err, blogservice.ErrRecordNotFound), errors.Is(err, blogservice.ErrNotOwner):
			app.notFoundResponse(w, r)
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.failedValidationResponse(w, r, map[string]string{"title": "a blog with this title already exists"})
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.DeleteBlog(r.Context(), user.ID, int(id))
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenResponse(w, r)
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogStateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		State string `json:"state"`
	}

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.UpdateState(r.Context(), user.ID, int(id), blogservice.BlogState(input.State))
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenResponse(w, r)
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listOwnBlogsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, err := app.readInt(qs, "page", 1)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	limit, err := app.readInt(qs, "limit", 10)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	state := app.readString(qs, "state", "")

	user := app.getUserContext(r)

	blogs, err := app.blogService.ListByAuthor(r.Context(), user.ID, page, limit, state)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
