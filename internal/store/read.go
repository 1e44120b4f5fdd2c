package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Play is one listen joined to its artist, the input unit of the chart
// pipeline.
type Play struct {
	Artist string
	Date   time.Time
}

func (s *Store) GetSessionKey(user string) (string, error) {
	row := s.db.QueryRow("SELECT session_key FROM User WHERE name = ? AND session_key <> ''", user)
	var key string
	err := row.Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session key: %w", err)
	}
	return key, nil
}

func (s *Store) GetLastUpdated(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

func (s *Store) GetLatestListen(user string) (time.Time, error) {
	query := "SELECT date FROM Listen WHERE user = ? ORDER BY CAST(date AS INTEGER) desc LIMIT 1"
	row := s.db.QueryRow(query, user)
	var dateStr string
	err := row.Scan(&dateStr)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("scanning latest listen: %w", err)
	}

	return parseDate(dateStr)
}

func parseDate(dateStr string) (time.Time, error) {
	// Dates are Unix timestamps as strings from the last.fm API, but older
	// imports used ISO8601.
	dateInt, err := strconv.ParseInt(dateStr, 10, 64)
	if err == nil {
		return time.Unix(dateInt, 0), nil
	}

	t, err := time.Parse(time.RFC3339, dateStr)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("parsing date %q: %w", dateStr, err)
}

// ListPlays returns every stored play for the user in chronological order,
// optionally restricted to [start, end). Zero times leave that side of the
// window open. Rows whose stored date cannot be parsed are returned with a
// zero Date so the pipeline can account for them instead of the query
// hiding them.
func (s *Store) ListPlays(user string, start, end time.Time) ([]Play, error) {
	query := `
	SELECT Track.artist, Listen.date
	FROM Listen
	INNER JOIN Track ON Track.id = Listen.track
	WHERE user = ?
	ORDER BY CAST(Listen.date AS INTEGER) ASC
	`
	rows, err := s.db.Query(query, user)
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var artist, dateStr string
		if err := rows.Scan(&artist, &dateStr); err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		date, err := parseDate(dateStr)
		if err != nil {
			plays = append(plays, Play{Artist: artist})
			continue
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && !date.Before(end) {
			continue
		}
		plays = append(plays, Play{Artist: artist, Date: date})
	}
	return plays, rows.Err()
}

// CountPlays returns the user's total stored listens.
func (s *Store) CountPlays(user string) (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(id) FROM Listen WHERE user = ?", user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}
