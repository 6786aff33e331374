package service

import (
	"fmt"

	"github.com/vxacademy/academy/internal/apperr"
)

// insertAt places id at the 1-based position pos of ids. Position 0 appends.
func insertAt(ids []uint, id uint, pos int) ([]uint, error) {
	if pos < 0 || pos > len(ids)+1 {
		return nil, apperr.Invalid("order", fmt.Sprintf("must be between 0 and %d", len(ids)+1))
	}
	if pos == 0 {
		pos = len(ids) + 1
	}
	out := make([]uint, 0, len(ids)+1)
	out = append(out, ids[:pos-1]...)
	out = append(out, id)
	return append(out, ids[pos-1:]...), nil
}

// moveTo moves id to the 1-based position pos. Items between the old and the
// new position shift by one.
func moveTo(ids []uint, id uint, pos int) ([]uint, error) {
	if pos < 1 || pos > len(ids) {
		return nil, apperr.Invalid("order", fmt.Sprintf("must be between 1 and %d", len(ids)))
	}
	rest := removeID(ids, id)
	if len(rest) == len(ids) {
		return nil, apperr.Invalid("id", "not part of the list")
	}
	return insertAt(rest, id, pos)
}

func removeID(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
