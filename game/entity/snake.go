package entity

import (
	"fmt"

	"snake-astar/game/types"
)

// Snake is the agent's body. Body[0] is the tail and the last element is the
// head.
type Snake struct {
	Body []types.Point
}

// NewSnake returns a body made of the given cells, tail first. It rejects an
// empty body, duplicate cells and cells that are not 4-adjacent to their
// predecessor.
func NewSnake(cells ...types.Point) (*Snake, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	seen := make(map[types.Point]struct{}, len(cells))
	for i, p := range cells {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("body cell %v repeated", p)
		}
		seen[p] = struct{}{}
		if i > 0 && types.Manhattan(cells[i-1], p) != 1 {
			return nil, fmt.Errorf("body cells %v and %v are not adjacent", cells[i-1], p)
		}
	}
	body := make([]types.Point, len(cells))
	copy(body, cells)
	return &Snake{Body: body}, nil
}

// Move appends newHead. The tail stays until RemoveTail is called.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, newHead)
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[1:]
	}
}

func (s *Snake) GetHead() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Contains reports whether p is any body cell.
func (s *Snake) Contains(p types.Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// Cells returns a copy of the body, tail first.
func (s *Snake) Cells() []types.Point {
	out := make([]types.Point, len(s.Body))
	copy(out, s.Body)
	return out
}
