package screening

import "time"

// SeatState は座席の状態を表す
// SeatFree 以外の値は座席を保持しているユーザーIDを意味する
type SeatState string

// SeatFree は空席を表す
const SeatFree SeatState = "free"

// IsFree は空席かを返す
func (s SeatState) IsFree() bool {
	return s == SeatFree
}

// Holder は座席を保持しているユーザーIDを返す（空席なら空文字）
func (s SeatState) Holder() string {
	if s.IsFree() {
		return ""
	}
	return string(s)
}

// HeldBy は指定ユーザーが保持する座席状態を返す
func HeldBy(userID string) SeatState {
	return SeatState(userID)
}

// Screening は上映回エンティティを表す
// 座席ラベルの集合は作成時に確定し、予約・キャンセルは状態のみを変更する
type Screening struct {
	ID         string
	MovieID    string
	StartsAt   time.Time
	TotalSeats int
	Seats      map[string]SeatState
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int // 楽観的ロック用
}

// NewScreening は全席空きの座席マップを持つ新しい上映回を作成する
func NewScreening(movieID string, startsAt time.Time, totalSeats, seatsPerRow int) (*Screening, error) {
	seats, err := GenerateSeatMap(totalSeats, seatsPerRow)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Screening{
		MovieID:    movieID,
		StartsAt:   startsAt,
		TotalSeats: totalSeats,
		Seats:      seats,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    0,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate は上映回の検証を行う
func (s *Screening) Validate() error {
	if s.MovieID == "" {
		return ErrMovieIDRequired
	}
	if s.StartsAt.IsZero() {
		return ErrStartTimeRequired
	}
	if s.TotalSeats <= 0 {
		return ErrInvalidSeatCount
	}
	return nil
}

// IsUpcoming は上映開始が now より後かを返す
// 開始済み・終了済みの上映回は予約を受け付けない
func (s *Screening) IsUpcoming(now time.Time) bool {
	return s.StartsAt.After(now)
}

// HasSeat は座席ラベルがマップに存在するかを返す
func (s *Screening) HasSeat(label string) bool {
	_, ok := s.Seats[label]
	return ok
}

// UnknownSeats は座席マップに存在しないラベルを入力順で返す
func (s *Screening) UnknownSeats(labels []string) []string {
	var unknown []string
	for _, label := range labels {
		if !s.HasSeat(label) {
			unknown = append(unknown, label)
		}
	}
	return unknown
}

// UnavailableSeats はマップに存在するが空席でないラベルを入力順で返す
func (s *Screening) UnavailableSeats(labels []string) []string {
	var unavailable []string
	for _, label := range labels {
		if state, ok := s.Seats[label]; ok && !state.IsFree() {
			unavailable = append(unavailable, label)
		}
	}
	return unavailable
}

// AvailableSeats は空席ラベルを行・列順で返す
func (s *Screening) AvailableSeats() []string {
	free := make([]string, 0, len(s.Seats))
	for label, state := range s.Seats {
		if state.IsFree() {
			free = append(free, label)
		}
	}
	SortLabels(free)
	return free
}

// AvailableCount は空席数を返す
func (s *Screening) AvailableCount() int {
	count := 0
	for _, state := range s.Seats {
		if state.IsFree() {
			count++
		}
	}
	return count
}

// HoldSeats は空席を指定ユーザーの保持状態にする
// 1席でも確保できない場合は何も変更しない
func (s *Screening) HoldSeats(labels []string, userID string) error {
	for _, label := range labels {
		state, ok := s.Seats[label]
		if !ok {
			return ErrSeatNotFound
		}
		if !state.IsFree() {
			return ErrSeatNotAvailable
		}
	}
	for _, label := range labels {
		s.Seats[label] = HeldBy(userID)
	}
	s.UpdatedAt = time.Now()
	return nil
}

// ReleaseSeats は座席を解放し、実際に解放したラベルを返す
// マップに存在しないラベルは無視する
func (s *Screening) ReleaseSeats(labels []string) []string {
	released := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := s.Seats[label]; ok {
			s.Seats[label] = SeatFree
			released = append(released, label)
		}
	}
	if len(released) > 0 {
		s.UpdatedAt = time.Now()
	}
	return released
}

// Resize は座席マップを新しい総席数に合わせて拡張・縮小する
// 追加座席は空席として末尾に生成され、縮小は末尾の空席のみ削除できる
// 保持中の座席を削除しようとした場合は ErrSeatHeld を返し何も変更しない
func (s *Screening) Resize(totalSeats, seatsPerRow int) error {
	newLabels, err := GenerateSeatLabels(totalSeats, seatsPerRow)
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(newLabels))
	for _, label := range newLabels {
		keep[label] = struct{}{}
	}
	for label, state := range s.Seats {
		if _, ok := keep[label]; !ok && !state.IsFree() {
			return ErrSeatHeld
		}
	}

	next := make(map[string]SeatState, len(newLabels))
	for _, label := range newLabels {
		if state, ok := s.Seats[label]; ok {
			next[label] = state
		} else {
			next[label] = SeatFree
		}
	}
	s.Seats = next
	s.TotalSeats = totalSeats
	s.UpdatedAt = time.Now()
	return nil
}
