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
	"net/http"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
)

func mustCreateLocalNote(t *testing.T, env testEnv, content string) int {
	id, err := database.CreateLocalNote(env.db, env.account.ID, database.NoteParams{Content: content}, clock.Unix(env.clock))
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating local note"))
	}

	return id
}

func TestSynchronize_localCreated(t *testing.T) {
	env := setupEnv(t)
	id := mustCreateLocalNote(t, env, "Groceries\nmilk")

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, result.Pushed, 1, "pushed mismatch")

	n := database.MustGetNote(t, env.db, id)
	assert.Equal(t, n.Status, database.StatusVoid, "status mismatch")
	assert.Equalf(t, n.RemoteID != nil, true, "remote id should be set")

	remote, ok := env.remote.get(*n.RemoteID)
	assert.Equalf(t, ok, true, "note should exist on the server")
	assert.Equal(t, remote.Content, "Groceries\nmilk", "remote content mismatch")
	assert.Equal(t, remote.Title, "Groceries", "remote title mismatch")
	assert.Equal(t, *n.ETag, remote.ETag, "etag mismatch")
	assert.Equal(t, n.Modified, remote.Modified, "modified mismatch")
}

func TestSynchronize_remoteUpdateOnCleanNote(t *testing.T) {
	env := setupEnv(t)
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(1000),
		Status:    database.StatusVoid,
		Title:     "Old title",
		Content:   "Old title\nbody",
		Modified:  1600000000,
		ETag:      database.StringPtr("e-old"),
	})
	remote := env.remote.put(client.RemoteNote{ID: 1000, Title: "New title", Content: "New title\nbody"})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, result.Pulled, 1, "pulled mismatch")

	n := database.MustGetNote(t, env.db, local.ID)
	assert.Equal(t, n.Status, database.StatusVoid, "status mismatch")
	assert.Equal(t, n.Title, "New title", "title mismatch")
	assert.Equal(t, n.Content, "New title\nbody", "content mismatch")
	assert.Equal(t, *n.ETag, remote.ETag, "etag mismatch")
	assert.Equal(t, n.Modified, remote.Modified, "modified mismatch")
	assert.Equal(t, n.Excerpt, "body", "excerpt mismatch")
}

func TestPull_localEditWins(t *testing.T) {
	env := setupEnv(t)
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(1000),
		Status:    database.StatusLocalEdited,
		Title:     "Local title",
		Content:   "Local title\nbody",
		Modified:  1600000000,
		ETag:      database.StringPtr("e-old"),
	})
	env.remote.put(client.RemoteNote{ID: 1000, Title: "Server title", Content: "Server title\nbody"})

	p := &pass{ctx: context.Background(), account: env.account, api: env.remote, result: &Result{AccountID: env.account.ID}}
	env.orch.pull(p)

	assert.DeepEqual(t, errorKinds(*p.result), []Kind{KindConflictSkipped}, "error kinds mismatch")
	assert.Equal(t, p.result.Errors[0].NoteID, local.ID, "note id mismatch")
	assert.Equal(t, p.result.Errors[0].RemoteID, int64(1000), "remote id mismatch")

	n := database.MustGetNote(t, env.db, local.ID)
	assert.Equal(t, n.Status, database.StatusLocalEdited, "status mismatch")
	assert.Equal(t, n.Title, "Local title", "title should not be overwritten")
	assert.Equal(t, n.Content, "Local title\nbody", "content should not be overwritten")
}

func TestSynchronize_conflict(t *testing.T) {
	env := setupEnv(t)
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(1000),
		Status:    database.StatusLocalEdited,
		Title:     "Local title",
		Content:   "Local title\nbody",
		Modified:  1600000000,
		ETag:      database.StringPtr("e-old"),
	})
	server := env.remote.put(client.RemoteNote{ID: 1000, Title: "Server title", Content: "Server title\nbody"})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "skipped conflicts should not fail the pass")
	assert.Equal(t, len(result.Conflicts()), 2, "conflict count mismatch")
	assert.Equal(t, result.Errors[0].Phase, PhasePush, "first conflict phase mismatch")
	assert.Equal(t, result.Errors[1].Phase, PhasePull, "second conflict phase mismatch")

	merged := "<<<<<<< Local\nLocal title\n=======\nServer title\n>>>>>>> Server\nbody"

	n := database.MustGetNote(t, env.db, local.ID)
	assert.Equal(t, n.Status, database.StatusLocalEdited, "status mismatch")
	assert.Equal(t, n.Title, "Local title", "title should not be overwritten")
	assert.Equal(t, n.Content, merged, "content mismatch")
	assert.Equal(t, *n.ETag, server.ETag, "etag should follow the server")

	result = env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, len(result.Errors), 0, "there should be no errors")

	n = database.MustGetNote(t, env.db, local.ID)
	assert.Equal(t, n.Status, database.StatusVoid, "status mismatch after the second pass")

	remote, _ := env.remote.get(1000)
	assert.Equal(t, remote.Content, merged, "remote content mismatch")
	assert.Equal(t, remote.Title, "Local title", "remote title mismatch")
}

func TestSynchronize_localDeleted(t *testing.T) {
	env := setupEnv(t)
	env.remote.put(client.RemoteNote{ID: 2000, Title: "Doomed", Content: "Doomed"})
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(2000),
		Status:    database.StatusLocalDeleted,
		Content:   "Doomed",
	})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, result.Pushed, 1, "pushed mismatch")

	_, err := database.GetNote(env.db, local.ID)
	assert.EqualErrors(t, err, database.ErrNotFound, "local note should be purged")
	_, ok := env.remote.get(2000)
	assert.Equal(t, ok, false, "remote note should be deleted")

	// the server lists the remote id again
	env.remote.put(client.RemoteNote{ID: 2000, Title: "Back", Content: "Back\nagain"})

	result = env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, result.Pulled, 1, "pulled mismatch")

	notes := env.mustListNotes(t)
	assert.Equalf(t, len(notes), 1, "note count mismatch")
	assert.NotEqual(t, notes[0].ID, local.ID, "the deleted note should not be resurrected")
	assert.Equal(t, *notes[0].RemoteID, int64(2000), "remote id mismatch")
	assert.Equal(t, notes[0].Status, database.StatusVoid, "status mismatch")
	assert.Equal(t, notes[0].Content, "Back\nagain", "content mismatch")
}

func TestSynchronize_localDeletedAlreadyGone(t *testing.T) {
	env := setupEnv(t)
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(2001),
		Status:    database.StatusLocalDeleted,
	})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "a missing remote note should count as deleted")

	_, err := database.GetNote(env.db, local.ID)
	assert.EqualErrors(t, err, database.ErrNotFound, "local note should be purged")
}

func TestSynchronize_maintenance(t *testing.T) {
	env := setupEnv(t)
	err := database.UpdateCapabilities(env.db, env.account.ID, database.CapabilitiesCache{
		APIVersion: database.StringPtr("[1.0]"),
		Color:      "#111111",
		TextColor:  "#222222",
		ETag:       database.StringPtr(`"caps-0"`),
	})
	if err != nil {
		t.Fatal(err)
	}
	before := env.mustGetAccount(t)

	id := mustCreateLocalNote(t, env, "pending")
	env.remote.put(client.RemoteNote{ID: 5, Content: "remote"})
	env.remote.capsErr = errors.Wrap(&client.HTTPError{StatusCode: http.StatusServiceUnavailable}, "fetching capabilities")
	env.remote.calls = nil

	result := env.synchronize()
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.DeepEqual(t, errorKinds(result), []Kind{KindMaintenance}, "error kinds mismatch")
	assert.Equal(t, result.Pushed, 0, "pushed mismatch")
	assert.Equal(t, result.Pulled, 0, "pulled mismatch")
	assert.DeepEqual(t, env.remote.calls, []string{"capabilities"}, "calls mismatch")

	assert.DeepEqual(t, env.mustGetAccount(t), before, "account should be untouched")
	assert.Equal(t, database.MustGetNote(t, env.db, id).Status, database.StatusLocalCreated, "note should not be pushed")
	assert.Equal(t, database.CountNotes(t, env.db, env.account.ID), 1, "remote note should not be pulled")
}

func TestSynchronize_idempotent(t *testing.T) {
	env := setupEnv(t)
	mustCreateLocalNote(t, env, "Local\nnote")
	env.remote.put(client.RemoteNote{ID: 7, Title: "Remote", Content: "Remote\nnote", Category: "work"})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "first pass should be ok")

	notesBefore := env.mustListNotes(t)
	accountBefore := env.mustGetAccount(t)
	assert.Equal(t, len(notesBefore), 2, "note count mismatch")

	result = env.synchronize()
	assert.Equal(t, result.OK(), true, "second pass should be ok")
	assert.Equal(t, result.Pushed, 0, "pushed mismatch")
	assert.Equal(t, result.Pulled, 0, "pulled mismatch")
	assert.Equal(t, result.Purged, 0, "purged mismatch")

	assert.DeepEqual(t, env.mustListNotes(t), notesBefore, "notes should be unchanged")
	assert.DeepEqual(t, env.mustGetAccount(t), accountBefore, "account should be unchanged")
}

func TestSynchronize_editedDuringCreate(t *testing.T) {
	env := setupEnv(t)
	id := mustCreateLocalNote(t, env, "v1")

	env.remote.afterCreate = func(n client.RemoteNote) {
		env.remote.afterCreate = nil

		if _, err := database.EditLocalNote(env.db, id, database.NoteParams{Content: "v2"}, clock.Unix(env.clock)); err != nil {
			t.Error(errors.Wrap(err, "editing note"))
		}
	}

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")

	n := database.MustGetNote(t, env.db, id)
	assert.Equal(t, n.Status, database.StatusLocalEdited, "status mismatch")
	assert.Equal(t, n.Content, "v2", "local edit should be kept")
	assert.Equalf(t, n.RemoteID != nil, true, "remote id should be recorded")
	remoteID := *n.RemoteID

	result = env.synchronize()
	assert.Equal(t, result.OK(), true, "second pass should be ok")

	n = database.MustGetNote(t, env.db, id)
	assert.Equal(t, n.Status, database.StatusVoid, "status mismatch after the second pass")
	assert.Equal(t, *n.RemoteID, remoteID, "remote id should be stable")

	remote, _ := env.remote.get(remoteID)
	assert.Equal(t, remote.Content, "v2", "remote content mismatch")
	assert.Equal(t, len(env.remote.notes), 1, "there should be a single remote note")
}

func TestSynchronize_deletedDuringCreate(t *testing.T) {
	env := setupEnv(t)
	id := mustCreateLocalNote(t, env, "short lived")

	env.remote.afterCreate = func(n client.RemoteNote) {
		if err := database.DeleteLocalNote(env.db, id); err != nil {
			t.Error(errors.Wrap(err, "deleting note"))
		}
	}

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, database.CountNotes(t, env.db, env.account.ID), 0, "local note count mismatch")
	assert.Equal(t, len(env.remote.notes), 0, "the created note should be deleted from the server")
}

func TestSynchronize_updateOfMissingNote(t *testing.T) {
	env := setupEnv(t)
	local := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(77),
		Status:    database.StatusLocalEdited,
		Title:     "Lost",
		Content:   "Lost\nnote",
		Modified:  1600000000,
		ETag:      database.StringPtr("e77"),
	})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")

	n := database.MustGetNote(t, env.db, local.ID)
	assert.Equal(t, n.Status, database.StatusVoid, "status mismatch")
	assert.NotEqual(t, *n.RemoteID, int64(77), "remote id should change")

	remote, ok := env.remote.get(*n.RemoteID)
	assert.Equal(t, ok, true, "note should be created again")
	assert.Equal(t, remote.Content, "Lost\nnote", "remote content mismatch")
}

func TestSynchronize_remotelyDeleted(t *testing.T) {
	env := setupEnv(t)
	gone := database.MustInsertNote(t, env.db, database.Note{AccountID: env.account.ID, RemoteID: database.Int64Ptr(7), Content: "gone"})
	kept := database.MustInsertNote(t, env.db, database.Note{AccountID: env.account.ID, RemoteID: database.Int64Ptr(8), Content: "kept"})
	env.remote.put(client.RemoteNote{ID: 8, Content: "kept"})

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")
	assert.Equal(t, result.Purged, 1, "purged mismatch")

	_, err := database.GetNote(env.db, gone.ID)
	assert.EqualErrors(t, err, database.ErrNotFound, "note deleted on the server should be purged")
	database.MustGetNote(t, env.db, kept.ID)
}

func TestSynchronize_stubsKeepNotes(t *testing.T) {
	env := setupEnv(t)
	env.remote.put(client.RemoteNote{ID: 8, Title: "Old", Content: "Old"})
	env.remote.tick()

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "first pass should be ok")

	// the old note is older than the last sync and comes back as a stub
	env.remote.put(client.RemoteNote{ID: 9, Title: "New", Content: "New"})

	result = env.synchronize()
	assert.Equal(t, result.OK(), true, "second pass should be ok")
	assert.Equal(t, result.Pulled, 1, "pulled mismatch")
	assert.Equal(t, result.Purged, 0, "stubs should not be purged")
	assert.Equal(t, database.CountNotes(t, env.db, env.account.ID), 2, "note count mismatch")
}

func TestSynchronize_capabilitiesFailure(t *testing.T) {
	t.Run("with a cached api version", func(t *testing.T) {
		env := setupEnv(t)
		if err := database.UpdateAPIVersion(env.db, env.account.ID, "[1.0]"); err != nil {
			t.Fatal(err)
		}
		id := mustCreateLocalNote(t, env, "pending")
		env.remote.capsErr = &client.NetworkError{Err: errors.New("connection refused")}

		result := env.synchronize()
		assert.Equal(t, result.Aborted, false, "pass should continue")
		assert.DeepEqual(t, errorKinds(result), []Kind{KindNetwork}, "error kinds mismatch")
		assert.Equal(t, result.Errors[0].Phase, PhaseCapabilities, "phase mismatch")
		assert.Equal(t, database.MustGetNote(t, env.db, id).Status, database.StatusVoid, "note should be pushed")
	})

	t.Run("without a cached api version", func(t *testing.T) {
		env := setupEnv(t)
		id := mustCreateLocalNote(t, env, "pending")
		env.remote.capsErr = errors.Wrap(client.ErrMalformedResponse, "parsing capabilities")

		result := env.synchronize()
		assert.Equal(t, result.Aborted, true, "pass should be aborted")
		assert.DeepEqual(t, errorKinds(result), []Kind{KindProtocol}, "error kinds mismatch")
		assert.Equal(t, database.MustGetNote(t, env.db, id).Status, database.StatusLocalCreated, "note should not be pushed")
	})
}

func TestSynchronize_authFailure(t *testing.T) {
	env := setupEnv(t)
	mustCreateLocalNote(t, env, "first")
	mustCreateLocalNote(t, env, "second")
	env.remote.errs["create"] = &client.HTTPError{StatusCode: http.StatusUnauthorized}
	env.remote.calls = nil

	result := env.synchronize()
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.DeepEqual(t, errorKinds(result), []Kind{KindAuth}, "error kinds mismatch")
	assert.DeepEqual(t, env.remote.calls, []string{"capabilities", "create"}, "calls mismatch")
}

func TestSynchronize_partialFailure(t *testing.T) {
	env := setupEnv(t)
	first := mustCreateLocalNote(t, env, "first")
	env.remote.put(client.RemoteNote{ID: 3, Content: "three"})
	edited := database.MustInsertNote(t, env.db, database.Note{
		AccountID: env.account.ID,
		RemoteID:  database.Int64Ptr(3),
		Status:    database.StatusLocalEdited,
		Content:   "three edited",
	})
	env.remote.errs["update"] = errors.Wrap(&client.HTTPError{StatusCode: http.StatusInternalServerError}, "updating note 3")

	result := env.synchronize()
	assert.Equal(t, result.Aborted, false, "pass should not be aborted")
	assert.Equal(t, result.Pushed, 1, "pushed mismatch")
	assert.Equal(t, result.OK(), false, "result should not be ok")

	var protocolErr *Error
	for _, e := range result.Errors {
		if e.Kind == KindProtocol {
			protocolErr = e
		}
	}
	assert.Equalf(t, protocolErr != nil, true, "there should be a protocol error")
	assert.Equal(t, protocolErr.NoteID, edited.ID, "note id mismatch")
	assert.Equal(t, protocolErr.RemoteID, int64(3), "remote id mismatch")
	assert.Equal(t, protocolErr.Phase, PhasePush, "phase mismatch")

	assert.Equal(t, database.MustGetNote(t, env.db, first).Status, database.StatusVoid, "other notes should be pushed")
	assert.Equal(t, database.MustGetNote(t, env.db, edited.ID).Status, database.StatusLocalEdited, "failed note should stay dirty")
}

func TestSynchronize_syncState(t *testing.T) {
	t.Run("saved after a successful pull", func(t *testing.T) {
		env := setupEnv(t)
		env.remote.put(client.RemoteNote{ID: 1, Content: "one"})

		result := env.synchronize()
		assert.Equal(t, result.OK(), true, "result should be ok")

		a := env.mustGetAccount(t)
		assert.Equalf(t, a.ETag != nil, true, "etag should be saved")
		assert.Equal(t, *a.ETag, `"list-1"`, "etag mismatch")
		assert.Equal(t, a.Modified, env.remote.now, "modified mismatch")
	})

	t.Run("kept after a failed pull", func(t *testing.T) {
		env := setupEnv(t)
		env.remote.listErr = &client.NetworkError{Err: context.DeadlineExceeded}

		result := env.synchronize()
		assert.Equal(t, result.Aborted, false, "network errors should not abort")
		assert.DeepEqual(t, errorKinds(result), []Kind{KindNetwork}, "error kinds mismatch")
		assert.Equal(t, result.Errors[0].Phase, PhasePull, "phase mismatch")

		a := env.mustGetAccount(t)
		assert.Equal(t, a.ETag == nil, true, "etag should not be saved")
		assert.Equal(t, a.Modified, int64(0), "modified should not be saved")
	})
}

func TestSynchronize_apiVersion(t *testing.T) {
	env := setupEnv(t)

	var dialed []database.Account
	env.orch.dial = func(a database.Account) (RemoteAPI, error) {
		dialed = append(dialed, a)
		return env.remote, nil
	}
	env.remote.apiVersions = "1.0"

	result := env.synchronize()
	assert.Equal(t, result.OK(), true, "result should be ok")

	assert.Equal(t, len(dialed), 2, "dial count mismatch")
	assert.Equal(t, dialed[0].APIVersion == nil, true, "first dial should have no api version")
	assert.Equal(t, *dialed[1].APIVersion, "[0.2,1.0]", "second dial should use the resolved api version")

	a := env.mustGetAccount(t)
	assert.Equal(t, *a.APIVersion, "[1.0]", "api version from the listing header should be saved")
	assert.Equal(t, a.Color, "#0082c9", "color mismatch")
	assert.Equal(t, *a.CapabilitiesETag, `"caps-1"`, "capabilities etag mismatch")
}

func TestSynchronize_panic(t *testing.T) {
	env := setupEnv(t)
	env.remote.beforeList = func() {
		panic("boom")
	}

	result := env.synchronize()
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.DeepEqual(t, errorKinds(result), []Kind{KindProtocol}, "error kinds mismatch")
}

func TestSynchronize_cancelled(t *testing.T) {
	env := setupEnv(t)
	id := mustCreateLocalNote(t, env, "pending")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := env.orch.Synchronize(ctx, env.account.ID)
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.DeepEqual(t, errorKinds(result), []Kind{KindNetwork}, "error kinds mismatch")
	assert.Equal(t, database.MustGetNote(t, env.db, id).Status, database.StatusLocalCreated, "note should not be pushed")
}

func TestSynchronize_unknownAccount(t *testing.T) {
	env := setupEnv(t)

	result := env.orch.Synchronize(context.Background(), env.account.ID+1)
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.Equalf(t, len(result.Errors), 1, "error count mismatch")
	assert.Equal(t, result.Errors[0].Phase, PhaseAccount, "phase mismatch")
	assert.EqualErrors(t, result.Errors[0], database.ErrNotFound, "error mismatch")
}

func TestSynchronize_missingCredential(t *testing.T) {
	env := setupEnv(t)
	orch := NewOrchestrator(env.db, NewClientDialer(env.db, ClientOptions{}), env.clock)

	result := orch.Synchronize(context.Background(), env.account.ID)
	assert.Equal(t, result.Aborted, true, "pass should be aborted")
	assert.DeepEqual(t, errorKinds(result), []Kind{KindAuth}, "error kinds mismatch")
}
