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

package sync

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
)

// fakeRemote is an in-memory Notes server
type fakeRemote struct {
	mu sync.Mutex

	notes   map[int64]client.RemoteNote
	nextID  int64
	version int
	now     int64

	caps    client.Capabilities
	capsErr error
	listErr error
	// apiVersions is sent as the X-Notes-API-Versions header of listings
	apiVersions string
	// errs fails the calls of the given operation, keyed by "create", "update",
	// "delete" or "get"
	errs map[string]error

	// afterCreate runs after a note was created and before the response is returned
	afterCreate func(n client.RemoteNote)
	// beforeList runs before a listing is returned
	beforeList func()

	calls []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		notes:  map[int64]client.RemoteNote{},
		nextID: 1000,
		now:    1700000000,
		caps: client.Capabilities{
			APIVersion: "[0.2,1.0]",
			Color:      "#0082c9",
			TextColor:  "#ffffff",
			ETag:       `"caps-1"`,
		},
		errs: map[string]error{},
	}
}

func (f *fakeRemote) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) tick() int64 {
	f.now++
	f.version++
	return f.now
}

func (f *fakeRemote) etag(id int64) string {
	return fmt.Sprintf("e%d-%d", id, f.version)
}

// put stores a note as if another client had written it
func (f *fakeRemote) put(n client.RemoteNote) client.RemoteNote {
	f.mu.Lock()
	defer f.mu.Unlock()

	n.Modified = f.tick()
	n.ETag = f.etag(n.ID)
	f.notes[n.ID] = n

	return n
}

func (f *fakeRemote) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.notes, id)
	f.version++
}

func (f *fakeRemote) get(id int64) (client.RemoteNote, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	return n, ok
}

func (f *fakeRemote) FetchCapabilities(ctx context.Context, etag string) (client.Capabilities, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("capabilities")

	if f.capsErr != nil {
		return client.Capabilities{}, false, f.capsErr
	}
	if etag != "" && etag == f.caps.ETag {
		return client.Capabilities{}, true, nil
	}

	return f.caps, false, nil
}

func (f *fakeRemote) ListNotes(ctx context.Context, pruneBefore int64, etag string) (client.NotesListing, error) {
	if f.beforeList != nil {
		f.beforeList()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")

	if f.listErr != nil {
		return client.NotesListing{}, f.listErr
	}

	listing := client.NotesListing{
		ETag:         fmt.Sprintf(`"list-%d"`, f.version),
		LastModified: f.now,
		APIVersions:  f.apiVersions,
	}
	if etag != "" && etag == listing.ETag {
		listing.NotModified = true
		return listing, nil
	}

	ids := []int64{}
	for id := range f.notes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	listing.Notes = []client.RemoteNote{}
	for _, id := range ids {
		n := f.notes[id]
		if n.Modified < pruneBefore {
			listing.Notes = append(listing.Notes, client.RemoteNote{ID: id, Stub: true})
			continue
		}

		listing.Notes = append(listing.Notes, n)
	}

	return listing, nil
}

func (f *fakeRemote) GetNote(ctx context.Context, id int64) (client.RemoteNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("get %d", id))

	if err := f.errs["get"]; err != nil {
		return client.RemoteNote{}, err
	}

	n, ok := f.notes[id]
	if !ok {
		return client.RemoteNote{}, &client.HTTPError{StatusCode: http.StatusNotFound}
	}

	return n, nil
}

func (f *fakeRemote) CreateNote(ctx context.Context, p client.NotePayload) (client.RemoteNote, error) {
	f.mu.Lock()
	f.record("create")

	if err := f.errs["create"]; err != nil {
		f.mu.Unlock()
		return client.RemoteNote{}, err
	}

	f.nextID++
	n := client.RemoteNote{
		ID:       f.nextID,
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		Favorite: p.Favorite,
		Modified: f.tick(),
	}
	n.ETag = f.etag(n.ID)
	f.notes[n.ID] = n
	f.mu.Unlock()

	if f.afterCreate != nil {
		f.afterCreate(n)
	}

	return n, nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, id int64, etag string, p client.NotePayload) (client.RemoteNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("update %d", id))

	if err := f.errs["update"]; err != nil {
		return client.RemoteNote{}, err
	}

	n, ok := f.notes[id]
	if !ok {
		return client.RemoteNote{}, &client.HTTPError{StatusCode: http.StatusNotFound}
	}
	if etag != "" && etag != n.ETag {
		return client.RemoteNote{}, &client.HTTPError{StatusCode: http.StatusPreconditionFailed}
	}

	n.Title = p.Title
	n.Content = p.Content
	n.Category = p.Category
	n.Favorite = p.Favorite
	n.Modified = f.tick()
	n.ETag = f.etag(id)
	f.notes[id] = n

	return n, nil
}

func (f *fakeRemote) DeleteNote(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("delete %d", id))

	if err := f.errs["delete"]; err != nil {
		return err
	}

	if _, ok := f.notes[id]; !ok {
		return &client.HTTPError{StatusCode: http.StatusNotFound}
	}
	delete(f.notes, id)
	f.version++

	return nil
}

type testEnv struct {
	db      *database.DB
	account database.Account
	remote  *fakeRemote
	orch    *Orchestrator
	clock   *clock.Mock
}

func setupEnv(t *testing.T) testEnv {
	db := database.InitTestMemoryDB(t)
	account := database.MustInsertAccount(t, db, "https://cloud.example.com", "alice")
	remote := newFakeRemote()

	c := clock.NewMock()
	dial := func(a database.Account) (RemoteAPI, error) {
		return remote, nil
	}

	return testEnv{
		db:      db,
		account: account,
		remote:  remote,
		orch:    NewOrchestrator(db, dial, c),
		clock:   c,
	}
}

func (e testEnv) synchronize() Result {
	return e.orch.Synchronize(context.Background(), e.account.ID)
}

func (e testEnv) mustGetAccount(t *testing.T) database.Account {
	a, err := database.GetAccount(e.db, e.account.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting account"))
	}

	return a
}

func (e testEnv) mustListNotes(t *testing.T) []database.Note {
	notes, err := database.ListNotes(e.db, e.account.ID, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing notes"))
	}

	return notes
}

func errorKinds(r Result) []Kind {
	ret := []Kind{}
	for _, e := range r.Errors {
		ret = append(ret, e.Kind)
	}

	return ret
}
