/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/scrobbletools/scrobble-race/internal/store"
)

type testPlay struct {
	artist string
	when   time.Time
}

// seedTestDb creates a database in a temp dir and stores the given plays
// for the user, returning the database path.
func seedTestDb(t *testing.T, user string, plays []testPlay) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scrobbles.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	defer s.Close()

	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser(%s): %v", user, err)
	}

	var tracks []store.TrackImport
	for i, p := range plays {
		tracks = append(tracks, store.TrackImport{
			Artist:    p.artist,
			TrackName: "Track " + strconv.Itoa(i),
			DateUTS:   strconv.FormatInt(p.when.Unix(), 10),
		})
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}

	return dbPath
}

func monthDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
