package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Speech struct {
	ID        int64
	Session   string
	File      string
	Anchor    string
	Date      string
	Speaker   string
	WordCount int64
	CharCount int64
}

const insertSpeech = `
INSERT INTO speeches (session, file, anchor, date, speaker, word_count, char_count)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertSpeechParams struct {
	Session   string
	File      string
	Anchor    string
	Date      string
	Speaker   string
	WordCount int64
	CharCount int64
}

func (q *Queries) InsertSpeech(ctx context.Context, arg InsertSpeechParams) error {
	_, err := q.db.ExecContext(ctx, insertSpeech,
		arg.Session,
		arg.File,
		arg.Anchor,
		arg.Date,
		arg.Speaker,
		arg.WordCount,
		arg.CharCount,
	)
	return err
}

const deleteSpeeches = `
DELETE FROM speeches
`

func (q *Queries) DeleteSpeeches(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSpeeches)
	return err
}

const listSpeeches = `
SELECT id, session, file, anchor, date, speaker, word_count, char_count
FROM speeches
ORDER BY session, file, id
`

func (q *Queries) ListSpeeches(ctx context.Context) ([]Speech, error) {
	rows, err := q.db.QueryContext(ctx, listSpeeches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Speech
	for rows.Next() {
		var i Speech
		err = rows.Scan(
			&i.ID,
			&i.Session,
			&i.File,
			&i.Anchor,
			&i.Date,
			&i.Speaker,
			&i.WordCount,
			&i.CharCount,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countSpeechesBySession = `
SELECT session, COUNT(*)
FROM speeches
GROUP BY session
`

type SessionCount struct {
	Session string
	Count   int64
}

func (q *Queries) CountSpeechesBySession(ctx context.Context) ([]SessionCount, error) {
	rows, err := q.db.QueryContext(ctx, countSpeechesBySession)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SessionCount
	for rows.Next() {
		var i SessionCount
		if err := rows.Scan(&i.Session, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
