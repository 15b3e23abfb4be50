package movie

import "time"

// Movie は映画エンティティを表す
type Movie struct {
	ID          string
	Title       string
	Genre       string
	DurationMin int
	ReleaseDate time.Time
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewMovie は新しい映画を作成する
func NewMovie(title, genre string, durationMin int, releaseDate time.Time, available bool) *Movie {
	now := time.Now()
	return &Movie{
		Title:       title,
		Genre:       genre,
		DurationMin: durationMin,
		ReleaseDate: releaseDate,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Validate は映画の検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrTitleRequired
	}
	if m.DurationMin <= 0 {
		return ErrInvalidDuration
	}
	if m.ReleaseDate.IsZero() {
		return ErrReleaseDateRequired
	}
	return nil
}
