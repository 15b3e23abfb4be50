package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role はユーザーの権限を表す
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Booking は1回の予約記録を表す
// 上映回の座席マップと対になる記録で、座席ラベルは予約時の指定順を保持する
type Booking struct {
	MovieID     string    `json:"movie_id"`
	ScreeningID string    `json:"screening_id"`
	Seats       []string  `json:"seats"`
	ShowsAt     time.Time `json:"shows_at"` // 表示用に上映日時を非正規化して保持
}

// User はユーザーエンティティを表す
// Bookings は予約順を保持し、その位置が予約番号として扱われる
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	Role         Role
	Bookings     []Booking
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int // 楽観的ロック用
}

const minPasswordLength = 8

// NewUser はパスワードをbcryptでハッシュ化して新しいユーザーを作成する
func NewUser(username, password string, role Role) (*User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Bookings:     []Booking{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      0,
	}, nil
}

// Authenticate はパスワードがハッシュと一致するかを返す
func (u *User) Authenticate(password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddBooking は予約記録を履歴の末尾に追加する
func (u *User) AddBooking(b Booking) {
	u.Bookings = append(u.Bookings, b)
	u.UpdatedAt = time.Now()
}

// BookingAt は0始まりの予約番号から予約記録を取得する
func (u *User) BookingAt(index int) (*Booking, error) {
	if index < 0 || index >= len(u.Bookings) {
		return nil, ErrBookingNotFound
	}
	return &u.Bookings[index], nil
}

// RemoveSeatsFromBooking は予約記録から座席ラベルを取り除く
// 残り座席が無くなった場合は記録自体を履歴から削除する
// 以降の予約番号はずれるが、番号は一覧表示のたびに振り直されるため問題ない
func (u *User) RemoveSeatsFromBooking(index int, labels []string) error {
	b, err := u.BookingAt(index)
	if err != nil {
		return err
	}

	remove := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		remove[label] = struct{}{}
	}
	remaining := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		if _, ok := remove[seat]; !ok {
			remaining = append(remaining, seat)
		}
	}

	if len(remaining) == 0 {
		u.Bookings = append(u.Bookings[:index], u.Bookings[index+1:]...)
	} else {
		u.Bookings[index].Seats = remaining
	}
	u.UpdatedAt = time.Now()
	return nil
}
