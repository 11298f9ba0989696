package domain

import "time"

type Record struct {
	ID        int64        `db:"id"`
	JobID     string       `db:"job_id"`
	RowNumber int          `db:"row_number"`
	Fields    Fields       `db:"payload"`
	Status    RecordStatus `db:"status"`
	Error     *string      `db:"error"`
	CreatedAt time.Time    `db:"created_at"`
}

func (r *Record) MarkFailed(err error) {
	msg := err.Error()
	r.Status = RecordFailed
	r.Error = &msg
}
