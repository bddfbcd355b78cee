package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", common.MetricsHandler(app.gatherer))

	router.HandlerFunc(http.MethodPost, "/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/auth/login", app.loginUserHandler)

	router.HandlerFunc(http.MethodGet, "/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPost, "/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodPatch, "/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	router.HandlerFunc(http.MethodGet, "/user", app.requireAuthUser(app.listOwnBlogsHandler))
	router.HandlerFunc(http.MethodPatch, "/user/:id", app.requireAuthUser(app.updateBlogStateHandler))

	return app.recoverPanic(app.metricsMiddleware(app.logRequest(app.rateLimit(app.authenticate(router)))))
}
