// Package migration holds the SQLite schema.
package migration

// Create builds the full schema for a new database. Listen dates are
// stored as Unix timestamps in string form, matching what the last.fm API
// returns.
const Create = `
CREATE TABLE User (
  name TEXT PRIMARY KEY,
  last_updated DATETIME,
  session_key TEXT DEFAULT ''
);

CREATE TABLE Artist (
  name TEXT PRIMARY KEY
);

CREATE TABLE Track (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT,
  album TEXT,
  name TEXT,
  FOREIGN KEY (artist) REFERENCES Artist(name)
);

CREATE TABLE Listen (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user TEXT,
  track INTEGER,
  date TEXT,
  FOREIGN KEY (user) REFERENCES User(name),
  FOREIGN KEY (track) REFERENCES Track(id)
);

CREATE INDEX idx_listen_user_date ON Listen(user, date);
CREATE INDEX idx_track_artist ON Track(artist);
`
