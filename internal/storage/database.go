package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/conorfennell/studyplan/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// MemoryDSN keeps the whole database in process memory.
const MemoryDSN = ":memory:"

// ErrStalePosition is returned when an answer targets a question that is no
// longer the current one.
var ErrStalePosition = errors.New("stale quiz position")

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateSession inserts a session and its questions in one transaction.
func (db *DB) CreateSession(ctx context.Context, session domain.QuizSession, questions []domain.QuizQuestion) error {
	return db.tx(ctx, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Insert("quiz_sessions").
			Columns("id", "position", "score", "total", "created_at").
			Values(session.ID, session.Position, session.Score, len(questions), session.CreatedAt).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
		}

		insert := sqlBuilder.Insert("quiz_questions").
			Columns("session_id", "position", "hash", "prompt", "options", "answer")
		for i, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("failed to encode options for question %d: %w", i, err)
			}
			insert = insert.Values(session.ID, i, q.ID, q.Prompt, string(options), q.Answer)
		}
		if len(questions) == 0 {
			return nil
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert questions for session %s: %w", session.ID, err)
		}
		return nil
	})
}

// FindSession retrieves a session by id. It returns nil when none exists.
func (db *DB) FindSession(ctx context.Context, id string) (*domain.QuizSession, error) {
	query, args, err := sqlBuilder.Select("id", "position", "score", "total", "created_at").
		From("quiz_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s domain.QuizSession
	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Position, &s.Score, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Session not found
		}
		return nil, fmt.Errorf("failed to find session %s: %w", id, err)
	}
	return &s, nil
}

// FindQuestion retrieves the question at position within a session.
// It returns nil when none exists.
func (db *DB) FindQuestion(ctx context.Context, sessionID string, position int) (*domain.QuizQuestion, error) {
	query, args, err := sqlBuilder.Select("hash", "prompt", "options", "answer").
		From("quiz_questions").
		Where(squirrel.Eq{"session_id": sessionID, "position": position}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		q       domain.QuizQuestion
		options string
	)
	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.Prompt, &options, &q.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Question not found
		}
		return nil, fmt.Errorf("failed to find question %d of session %s: %w", position, sessionID, err)
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options for question %d of session %s: %w", position, sessionID, err)
	}
	return &q, nil
}

// ListQuestions returns every question of a session in order.
func (db *DB) ListQuestions(ctx context.Context, sessionID string) ([]domain.QuizQuestion, error) {
	query, args, err := sqlBuilder.Select("hash", "prompt", "options", "answer").
		From("quiz_questions").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var questions []domain.QuizQuestion
	for rows.Next() {
		var (
			q       domain.QuizQuestion
			options string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question row for session %s: %w", sessionID, err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options for session %s: %w", sessionID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// RecordAnswer stores a choice for the question at position and advances the
// session. It returns ErrStalePosition if position is not the current one.
func (db *DB) RecordAnswer(ctx context.Context, sessionID string, position int, choice string, correct bool, answeredAt time.Time) error {
	return db.tx(ctx, func(tx *sql.Tx) error {
		points := 0
		if correct {
			points = 1
		}

		query, args, err := sqlBuilder.Update("quiz_sessions").
			Set("position", squirrel.Expr("position + 1")).
			Set("score", squirrel.Expr("score + ?", points)).
			Where(squirrel.Eq{"id": sessionID, "position": position}).
			Where("position < total").
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to advance session %s: %w", sessionID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows for session %s: %w", sessionID, err)
		}
		if n == 0 {
			return ErrStalePosition
		}

		query, args, err = sqlBuilder.Insert("quiz_answers").
			Columns("session_id", "position", "choice", "correct", "answered_at").
			Values(sessionID, position, choice, points, answeredAt).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to record answer for session %s: %w", sessionID, err)
		}
		return nil
	})
}

// DeleteSessionsBefore removes sessions created before cutoff along with
// their questions and answers. It returns the number of sessions removed.
func (db *DB) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sqlBuilder.Delete("quiz_sessions").
		Where(squirrel.Lt{"created_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions before %s: %w", cutoff, err)
	}
	return res.RowsAffected()
}

func (db *DB) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
