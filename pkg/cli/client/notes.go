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

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// RemoteNote is a note as represented by the server
type RemoteNote struct {
	ID       int64
	ETag     string
	Title    string
	Content  string
	Category string
	Favorite bool
	// Modified is in seconds
	Modified int64
	// Stub is true for a note that the listing returned as an id only because
	// it was not modified since the requested time
	Stub bool
}

// noteResp is the wire form of a note. Every field but the id is omitted in a stub.
type noteResp struct {
	ID       int64   `json:"id"`
	ETag     *string `json:"etag"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Favorite *bool   `json:"favorite"`
	Modified *int64  `json:"modified"`
}

func (r noteResp) toRemoteNote() RemoteNote {
	n := RemoteNote{ID: r.ID, Stub: r.Content == nil}

	if r.ETag != nil {
		n.ETag = *r.ETag
	}
	if r.Title != nil {
		n.Title = *r.Title
	}
	if r.Content != nil {
		n.Content = *r.Content
	}
	if r.Category != nil {
		n.Category = *r.Category
	}
	if r.Favorite != nil {
		n.Favorite = *r.Favorite
	}
	if r.Modified != nil {
		n.Modified = *r.Modified
	}

	return n
}

// NotePayload is the body of a create or update request
type NotePayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Favorite bool   `json:"favorite"`
	Modified int64  `json:"modified"`
}

// NotesListing is the response of the notes listing
type NotesListing struct {
	Notes []RemoteNote
	// NotModified is true if nothing changed since the listing with the given ETag
	NotModified bool
	ETag        string
	// LastModified is in seconds. It is 0 if the server sent no Last-Modified header.
	LastModified int64
	// APIVersions is the raw X-Notes-API-Versions header
	APIVersions string
}

func parseLastModified(h string) int64 {
	if h == "" {
		return 0
	}

	t, err := http.ParseTime(h)
	if err != nil {
		return 0
	}

	return t.Unix()
}

func (c *Client) notesPath() string {
	v := c.APIVersion
	if v == (APIVersion{}) {
		v = APIVersion02
	}

	return v.notesPath()
}

// ListNotes lists the notes of the user. Notes not modified since pruneBefore
// are returned as stubs. A non-empty etag makes the request conditional.
func (c *Client) ListNotes(ctx context.Context, pruneBefore int64, etag string) (NotesListing, error) {
	v := url.Values{}
	v.Set("pruneBefore", strconv.FormatInt(pruneBefore, 10))
	path := fmt.Sprintf("%s?%s", c.notesPath(), v.Encode())

	header := http.Header{}
	if etag != "" {
		header.Set("If-None-Match", etag)
	}

	res, err := c.do(ctx, http.MethodGet, path, nil, requestOptions{Header: header, ExpectJSON: true})
	if err != nil {
		return NotesListing{}, errors.Wrap(err, "listing notes")
	}

	ret := NotesListing{
		ETag:         res.Header.Get("ETag"),
		LastModified: parseLastModified(res.Header.Get("Last-Modified")),
		APIVersions:  res.Header.Get("X-Notes-API-Versions"),
	}
	if res.StatusCode == http.StatusNotModified {
		ret.NotModified = true
		return ret, nil
	}

	var notes []noteResp
	if err := decode(res.Body, &notes); err != nil {
		return NotesListing{}, errors.Wrap(err, "decoding notes")
	}

	ret.Notes = make([]RemoteNote, 0, len(notes))
	for _, n := range notes {
		ret.Notes = append(ret.Notes, n.toRemoteNote())
	}

	return ret, nil
}

func decodeNote(res result) (RemoteNote, error) {
	var n noteResp
	if err := decode(res.Body, &n); err != nil {
		return RemoteNote{}, errors.Wrap(err, "decoding note")
	}

	ret := n.toRemoteNote()
	if ret.ETag == "" {
		ret.ETag = trimETag(res.Header.Get("ETag"))
	}

	return ret, nil
}

// trimETag removes the quotes of an entity tag header value
func trimETag(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// GetNote fetches a single note
func (c *Client) GetNote(ctx context.Context, id int64) (RemoteNote, error) {
	path := fmt.Sprintf("%s/%d", c.notesPath(), id)

	res, err := c.do(ctx, http.MethodGet, path, nil, requestOptions{ExpectJSON: true})
	if err != nil {
		return RemoteNote{}, errors.Wrapf(err, "getting note %d", id)
	}

	return decodeNote(res)
}

// CreateNote creates a note on the server and returns it as stored
func (c *Client) CreateNote(ctx context.Context, p NotePayload) (RemoteNote, error) {
	res, err := c.do(ctx, http.MethodPost, c.notesPath(), p, requestOptions{ExpectJSON: true})
	if err != nil {
		return RemoteNote{}, errors.Wrap(err, "creating note")
	}

	return decodeNote(res)
}

// UpdateNote replaces a note on the server. On API 1.x the update is
// conditional on etag and a note changed on the server yields
// ErrPreconditionFailed. A missing note yields ErrNotFound.
func (c *Client) UpdateNote(ctx context.Context, id int64, etag string, p NotePayload) (RemoteNote, error) {
	path := fmt.Sprintf("%s/%d", c.notesPath(), id)

	header := http.Header{}
	if c.APIVersion.usesETags() && etag != "" {
		header.Set("If-Match", fmt.Sprintf(`"%s"`, etag))
	}

	res, err := c.do(ctx, http.MethodPut, path, p, requestOptions{Header: header, ExpectJSON: true})
	if err != nil {
		return RemoteNote{}, errors.Wrapf(err, "updating note %d", id)
	}

	return decodeNote(res)
}

// DeleteNote deletes a note on the server. A missing note yields ErrNotFound.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d", c.notesPath(), id)

	if _, err := c.do(ctx, http.MethodDelete, path, nil, requestOptions{}); err != nil {
		return errors.Wrapf(err, "deleting note %d", id)
	}

	return nil
}
