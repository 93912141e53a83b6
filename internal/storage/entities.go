package storage

import (
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

type FocusSessionFilter struct {
	Mode   model.FocusMode
	From   *time.Time
	To     *time.Time
	TaskID *int64
	Limit  int
	Offset int
}
