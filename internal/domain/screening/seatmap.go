package screening

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	// DefaultSeatsPerRow は1行あたりのデフォルト座席数
	DefaultSeatsPerRow = 10

	// maxRows は座席マップの最大行数
	// 行ラベルは 'A'〜'Z' の1文字のため26行が上限
	maxRows = 26
)

// GenerateSeatLabels は座席ラベルを生成順（A1, A2, ..., B1, ...）で返す
// 最終行は totalSeats に達した時点で打ち切られるため欠けることがある
func GenerateSeatLabels(totalSeats, seatsPerRow int) ([]string, error) {
	if totalSeats <= 0 {
		return nil, ErrInvalidSeatCount
	}
	if seatsPerRow <= 0 {
		return nil, ErrInvalidSeatsPerRow
	}

	rows := (totalSeats + seatsPerRow - 1) / seatsPerRow
	if rows > maxRows {
		return nil, ErrSeatMapTooLarge
	}

	labels := make([]string, 0, totalSeats)
	for r := 0; r < rows; r++ {
		rowLetter := rune('A' + r)
		for c := 1; c <= seatsPerRow; c++ {
			if len(labels) == totalSeats {
				break
			}
			labels = append(labels, fmt.Sprintf("%c%d", rowLetter, c))
		}
	}
	return labels, nil
}

// GenerateSeatMap は全席空きの座席マップを生成する
func GenerateSeatMap(totalSeats, seatsPerRow int) (map[string]SeatState, error) {
	labels, err := GenerateSeatLabels(totalSeats, seatsPerRow)
	if err != nil {
		return nil, err
	}
	seats := make(map[string]SeatState, len(labels))
	for _, label := range labels {
		seats[label] = SeatFree
	}
	return seats, nil
}

// SortLabels は座席ラベルを行・列順（A1, A2, ..., A10, B1, ...）に整列する
// Goのマップは順序を持たないため、一覧表示の前に必ず整列する
func SortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		ri, ci := splitLabel(labels[i])
		rj, cj := splitLabel(labels[j])
		if ri != rj {
			return ri < rj
		}
		return ci < cj
	})
}

// splitLabel はラベルを行文字と列番号に分解する
// 不正なラベルは行=ラベル全体、列=0として末尾に寄せる
func splitLabel(label string) (string, int) {
	if len(label) < 2 {
		return label, 0
	}
	col, err := strconv.Atoi(label[1:])
	if err != nil {
		return label, 0
	}
	return label[:1], col
}
