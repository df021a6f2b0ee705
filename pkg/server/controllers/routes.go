/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/notesync/notesync/pkg/server/app"
	mw "github.com/notesync/notesync/pkg/server/middleware"
	"github.com/pkg/errors"
)

const (
	// notesAPIPrefix is the prefix of every version of the notes API
	notesAPIPrefix = "/index.php/apps/notes/api"
	// capabilitiesPath is the path of the OCS capabilities document
	capabilitiesPath = "/ocs/v2.php/cloud/capabilities"
)

// notesAPIVersionPaths are the path segments of the served notes API versions
var notesAPIVersionPaths = []string{"v1", "v0.2"}

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers  *Controllers
	OCSRoutes    []Route
	APIRoutes    []Route
	PublicRoutes []Route
}

// NewOCSRoutes returns the OCS routes
func NewOCSRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", capabilitiesPath, c.Capabilities.Show, true},
	}
}

// NewAPIRoutes returns the notes API routes for every served version
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	var ret []Route

	for _, v := range notesAPIVersionPaths {
		prefix := fmt.Sprintf("%s/%s/notes", notesAPIPrefix, v)

		ret = append(ret,
			Route{"GET", prefix, c.Notes.Index, true},
			Route{"POST", prefix, c.Notes.Create, true},
			Route{"GET", prefix + "/{noteID:[0-9]+}", c.Notes.Show, true},
			Route{"PUT", prefix + "/{noteID:[0-9]+}", c.Notes.Update, true},
			Route{"DELETE", prefix + "/{noteID:[0-9]+}", c.Notes.Delete, true},
		)
	}

	return ret
}

// NewPublicRoutes returns the routes that do not require a user
func NewPublicRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/health", c.Health.Index, false},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter()

	registerRoutes(router, mw.OCSMw, app, rc.OCSRoutes)
	registerRoutes(router, mw.APIMw, app, rc.APIRoutes)
	registerRoutes(router, mw.PublicMw, app, rc.PublicRoutes)

	router.PathPrefix(notesAPIPrefix).Handler(mw.ApplyLimit(http.HandlerFunc(mw.NotSupported), app, true))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return mw.Global(router), nil
}

// NewHandler returns the handler serving every route of the given app
func NewHandler(a *app.App) (http.Handler, error) {
	ctl := New(a)
	rc := RouteConfig{
		OCSRoutes:    NewOCSRoutes(a, ctl),
		APIRoutes:    NewAPIRoutes(a, ctl),
		PublicRoutes: NewPublicRoutes(a, ctl),
		Controllers:  ctl,
	}

	r, err := NewRouter(a, rc)
	if err != nil {
		return nil, errors.Wrap(err, "initializing router")
	}

	return r, nil
}
