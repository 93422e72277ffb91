package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/calendar/internal/day"
)

const taskColumns = `id, task_description, is_completed, due_date`

// Insert stores t. A task whose id is already stored is replaced; otherwise a
// new row is created and the store assigns the id when t.ID is 0.
func (s *Store) Insert(ctx context.Context, t Task) (Task, error) {
	var id int64
	err := s.write(func() error {
		var res sql.Result
		var err error
		if t.ID == 0 {
			res, err = s.db.ExecContext(ctx,
				`INSERT INTO tasks (task_description, is_completed, due_date) VALUES (?, ?, ?)`,
				t.Description, boolToInt(t.Completed), t.DueDate,
			)
		} else {
			res, err = s.db.ExecContext(ctx,
				`INSERT INTO tasks (id, task_description, is_completed, due_date) VALUES (?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   task_description = excluded.task_description,
				   is_completed     = excluded.is_completed,
				   due_date         = excluded.due_date`,
				t.ID, t.Description, boolToInt(t.Completed), t.DueDate,
			)
		}
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if t.ID != 0 {
			id = t.ID
			return nil
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return Task{}, err
	}
	t.ID = id
	return t, nil
}

// Update replaces the stored task with the same id. It returns ErrNotFound if
// no such task exists.
func (s *Store) Update(ctx context.Context, t Task) error {
	return s.write(func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE tasks SET task_description = ?, is_completed = ?, due_date = ? WHERE id = ?`,
			t.Description, boolToInt(t.Completed), t.DueDate, t.ID,
		)
		if err != nil {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("update task %d: %w", t.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete removes the task with t's id. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, t Task) error {
	return s.write(func() error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
			return fmt.Errorf("delete task %d: %w", t.ID, err)
		}
		return nil
	})
}

// DeleteAll empties the tasks table.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.write(func() error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("delete all tasks: %w", err)
		}
		return nil
	})
}

func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	t := &Task{}
	var completed int
	err := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Description, &completed, &t.DueDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.Completed = completed == 1
	return t, nil
}

// ListAll returns every task, newest id first.
func (s *Store) ListAll(ctx context.Context) ([]Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id DESC`)
}

// ListForDate returns the tasks due exactly on d, newest id first.
func (s *Store) ListForDate(ctx context.Context, d day.Date) ([]Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE due_date = ? ORDER BY id DESC`, d)
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Description, &completed, &t.DueDate); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// write runs fn under the write lock and announces a table change if fn
// succeeded.
func (s *Store) write(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	s.version.Add(1)
	s.changes.publish()
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
